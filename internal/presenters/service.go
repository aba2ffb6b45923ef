package presenters

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/access"
	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/models"
	"github.com/lecturely/backend/internal/validate"
	"github.com/lecturely/backend/pkg/sanitize"
)

// Store persists presenters. Implemented by Repository.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Presenter, error)
	Update(ctx context.Context, id uuid.UUID, patch models.PresenterPatch) (*models.Presenter, error)
}

// UpdateInput is the body of PUT /presenter.
type UpdateInput struct {
	ID              string  `json:"id"`
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	ImageLink       *string `json:"imageLink"`
	VimeoToken      *string `json:"vimeoToken"`
	ZoomAPIKey      *string `json:"zoomApiKey"`
	ZoomAPISecret   *string `json:"zoomApiSecret"`
	ZoomHostID      *string `json:"zoomHostId"`
	ZoomAccessToken *string `json:"zoomAccessToken"`
}

// Service implements presenter reads and updates.
type Service struct {
	store     Store
	access    *access.Resolver
	sanitizer *sanitize.Sanitizer
	logger    *zap.Logger
}

// NewService creates a presenters service.
func NewService(store Store, resolver *access.Resolver, sanitizer *sanitize.Sanitizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, access: resolver, sanitizer: sanitizer, logger: logger}
}

// Get returns an active presenter.
func (s *Service) Get(ctx context.Context, id string) (*models.PresenterPublic, error) {
	p, err := s.active(ctx, id)
	if err != nil {
		return nil, err
	}
	out := p.ToPublic()
	return &out, nil
}

// Active returns the id of an active presenter, for listing endpoints.
func (s *Service) Active(ctx context.Context, id string) (uuid.UUID, error) {
	p, err := s.active(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (s *Service) active(ctx context.Context, id string) (*models.Presenter, error) {
	presenterID, err := validate.ParseID(id, "Presenter Id is required")
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetByID(ctx, presenterID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !p.Active) {
		return nil, apperr.NotFound("Invalid presenter Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	return p, nil
}

// Update changes the caller's own presenter profile.
func (s *Service) Update(ctx context.Context, credentialID uuid.UUID, in UpdateInput) (*models.PresenterPublic, error) {
	if err := validate.First(validate.Check(in.ID, validate.RequiredID("Presenter Id is required")...)); err != nil {
		return nil, err
	}
	id, _ := uuid.Parse(in.ID)

	patch := models.PresenterPatch{
		Name:            s.sanitizer.Ptr(in.Name),
		Description:     s.sanitizer.Ptr(in.Description),
		Location:        s.sanitizer.Ptr(in.Location),
		ImageLink:       trimPtr(in.ImageLink),
		VimeoToken:      trimPtr(in.VimeoToken),
		ZoomAPIKey:      trimPtr(in.ZoomAPIKey),
		ZoomAPISecret:   trimPtr(in.ZoomAPISecret),
		ZoomHostID:      trimPtr(in.ZoomHostID),
		ZoomAccessToken: trimPtr(in.ZoomAccessToken),
	}

	if err := s.authorize(ctx, credentialID, id); err != nil {
		return nil, err
	}

	p, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	out := p.ToPublic()
	return &out, nil
}

func (s *Service) authorize(ctx context.Context, credentialID, id uuid.UUID) error {
	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return err
	}
	if err := access.CanUpdatePresenter(caller, id); err != nil {
		return err
	}
	if !caller.Presenter.Active {
		return apperr.NotFound("Invalid presenter Id")
	}
	return nil
}

// AuthorizeImage implements media.Target.
func (s *Service) AuthorizeImage(ctx context.Context, credentialID uuid.UUID, id string) error {
	presenterID, err := validate.ParseID(id, "Presenter Id is required")
	if err != nil {
		return err
	}
	return s.authorize(ctx, credentialID, presenterID)
}

// SetImage implements media.Target.
func (s *Service) SetImage(ctx context.Context, credentialID uuid.UUID, id, link string) (interface{}, error) {
	return s.Update(ctx, credentialID, UpdateInput{ID: id, ImageLink: &link})
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
