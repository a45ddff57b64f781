// Package blob stores journal exports behind a small S3-like interface with
// in-memory, filesystem and S3 drivers.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

// Drivers.
const (
	DriverMemory     Driver = "memory"
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Sentinel errors.
var (
	ErrExists        = errors.New("blob already exists")
	ErrNotFound      = errors.New("blob not found")
	ErrInvalidKey    = errors.New("invalid blob key")
	ErrUnknownDriver = errors.New("unknown blob driver")
)

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored blob.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"sizeBytes"`
	ContentType  string            `json:"contentType,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"lastModified"`
}

// Store is the minimal subset of S3 semantics the service needs.
type Store interface {
	// Put stores a new blob at key. It fails with ErrExists if key is taken.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	// Get returns the blob contents; the caller closes the reader.
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// Delete removes a blob. Returns false if it did not exist.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns blobs under prefix ordered by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	// Driver names the backend.
	Driver() Driver
}

// Config selects and configures a driver.
type Config struct {
	Driver    Driver
	Root      string // fs
	Bucket    string // s3
	Region    string
	Endpoint  string // optional, e.g. MinIO
	AccessKey string // optional, falls back to the default credential chain
	SecretKey string
	PathStyle bool

	// HTTPClient overrides the S3 transport, mostly for tests.
	HTTPClient *http.Client
}

// Open returns the Store selected by cfg.Driver (memory when empty).
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverFilesystem:
		fs, err := NewFilesystem(cfg.Root)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case DriverS3:
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
}

// cleanKey rejects keys that could escape a filesystem root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	case strings.HasPrefix(key, "/"), strings.Contains(key, ".."), strings.Contains(key, `\`):
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	case strings.HasSuffix(key, metaSuffix):
		return "", fmt.Errorf("%w: reserved suffix in %q", ErrInvalidKey, key)
	}
	return key, nil
}

func cloneMetadata(md map[string]string) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
