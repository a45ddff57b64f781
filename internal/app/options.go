package service

import (
	"github.com/okian/journal/internal/adapters/blob"
	"github.com/okian/journal/internal/adapters/email"
	"github.com/okian/journal/internal/adapters/repository"
	"github.com/okian/journal/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of report workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending report jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBlobStore sets where grid exports are written.
func WithBlobStore(store blob.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.blobs = store
		}
	}
}

// WithExportPrefix sets the key prefix of grid exports.
func WithExportPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.exportPrefix = prefix
		}
	}
}

// WithEmailSender sets the sender used for email reports.
func WithEmailSender(sender email.Sender) Option {
	return func(s *Service) {
		if sender != nil {
			s.sender = sender
		}
	}
}

// WithStandings sets the standings store.
func WithStandings(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.standings = store
		}
	}
}
