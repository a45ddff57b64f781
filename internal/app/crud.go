package service

import (
	"context"
	"fmt"

	"github.com/okian/journal/internal/domain/journal"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/pkg/logger"
)

// refresh reloads the grid after its participants changed elsewhere.
func (s *Service) refresh(ctx context.Context) {
	if _, err := s.Reload(ctx); err != nil {
		s.logger.Warn(ctx, "journal refresh failed", logger.Error(err))
	}
}

// TeamParticipants lists one team.
func (s *Service) TeamParticipants(ctx context.Context, team model.Team) ([]model.Participant, error) {
	return s.backend.ListParticipants(ctx, team)
}

// AddParticipant creates a participant and reloads the grid.
func (s *Service) AddParticipant(ctx context.Context, p model.Participant) (model.Participant, error) {
	if err := p.Validate(); err != nil {
		return model.Participant{}, err
	}
	created, err := s.backend.CreateParticipant(ctx, p)
	if err != nil {
		return model.Participant{}, fmt.Errorf("create participant: %w", err)
	}
	s.logger.Info(ctx, "participant added", logger.Int64("id", created.ID), logger.String("team", string(created.Team)))
	s.refresh(ctx)
	return created, nil
}

// RemoveParticipant deletes a participant. The request context must carry a
// confirmation.
func (s *Service) RemoveParticipant(ctx context.Context, id int64) error {
	if !journal.Confirmed(ctx) {
		return journal.ErrNotConfirmed
	}
	if err := s.backend.DeleteParticipant(ctx, id); err != nil {
		return fmt.Errorf("delete participant %d: %w", id, err)
	}
	s.logger.Info(ctx, "participant removed", logger.Int64("id", id))
	s.refresh(ctx)
	return nil
}

// Pairs returns blue/yellow pairs.
func (s *Service) Pairs(ctx context.Context) ([]model.Pair, error) {
	return s.backend.ListPairs(ctx)
}

// Users lists users.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	return s.backend.ListUsers(ctx)
}

// CreateUser validates and stores a user.
func (s *Service) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	if err := u.Validate(); err != nil {
		return model.User{}, err
	}
	return s.backend.CreateUser(ctx, u)
}

// UpdateUser validates and replaces a user.
func (s *Service) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	if err := u.Validate(); err != nil {
		return model.User{}, err
	}
	return s.backend.UpdateUser(ctx, u)
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.backend.DeleteUser(ctx, id)
}

// Activities lists activities.
func (s *Service) Activities(ctx context.Context) ([]model.Activity, error) {
	return s.backend.ListActivities(ctx)
}

// CreateActivity validates and stores an activity.
func (s *Service) CreateActivity(ctx context.Context, a model.Activity) (model.Activity, error) {
	if err := a.Validate(); err != nil {
		return model.Activity{}, err
	}
	return s.backend.CreateActivity(ctx, a)
}

// DeleteActivity removes an activity.
func (s *Service) DeleteActivity(ctx context.Context, id int64) error {
	return s.backend.DeleteActivity(ctx, id)
}
