package vimeo

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/access"
	"github.com/lecturely/backend/internal/apperr"
)

// UserFetcher fetches the Vimeo account behind a token. Implemented by Client.
type UserFetcher interface {
	Me(ctx context.Context, token string) (json.RawMessage, error)
}

// Service exposes the presenter's Vimeo account.
type Service struct {
	access *access.Resolver
	vimeo  UserFetcher
	logger *zap.Logger
}

// NewService creates a Vimeo service.
func NewService(resolver *access.Resolver, vimeo UserFetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{access: resolver, vimeo: vimeo, logger: logger}
}

// User returns the Vimeo user of the calling presenter.
func (s *Service) User(ctx context.Context, credentialID uuid.UUID) (json.RawMessage, error) {
	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	presenter, err := access.RequirePresenter(caller)
	if err != nil {
		return nil, err
	}
	if presenter.VimeoToken == "" {
		return nil, apperr.Validation("Vimeo token is not set")
	}
	user, err := s.vimeo.Me(ctx, presenter.VimeoToken)
	if err != nil {
		return nil, apperr.Dependency("Vimeo error", err)
	}
	return user, nil
}
