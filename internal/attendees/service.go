package attendees

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/access"
	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/models"
	"github.com/lecturely/backend/internal/validate"
)

// Store persists lecture views. Implemented by Repository.
type Store interface {
	RecordView(ctx context.Context, attendeeID, lectureID uuid.UUID) error
	History(ctx context.Context, attendeeID uuid.UUID, limit int) ([]models.HistoryEntry, error)
}

// Service records and lists attendee lecture history.
type Service struct {
	store  Store
	access *access.Resolver
	logger *zap.Logger
}

// NewService creates an attendees service.
func NewService(store Store, resolver *access.Resolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, access: resolver, logger: logger}
}

// RecordView implements lectures.HistoryRecorder.
func (s *Service) RecordView(ctx context.Context, attendeeID, lectureID uuid.UUID) error {
	return s.store.RecordView(ctx, attendeeID, lectureID)
}

// History returns an attendee's own viewing history.
func (s *Service) History(ctx context.Context, credentialID uuid.UUID, attendeeID string) ([]models.HistoryEntry, error) {
	id, err := validate.ParseID(attendeeID, "Attendee Id is required")
	if err != nil {
		return nil, err
	}
	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if caller.Role() != models.RoleAttendee {
		return nil, access.ErrForbidden
	}
	if err := access.IsSelf(caller, id); err != nil {
		return nil, err
	}
	list, err := s.store.History(ctx, id, HistoryLimit)
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	if list == nil {
		list = []models.HistoryEntry{}
	}
	return list, nil
}
