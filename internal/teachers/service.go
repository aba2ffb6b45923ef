package teachers

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

// Store persists teachers. Implemented by Repository.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error)
	ListByPresenter(ctx context.Context, presenterID uuid.UUID) ([]models.Teacher, error)
	Update(ctx context.Context, id uuid.UUID, patch models.TeacherPatch) (*models.Teacher, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// PresenterChecker resolves an active presenter id. Implemented by presenters.Service.
type PresenterChecker interface {
	Active(ctx context.Context, id string) (uuid.UUID, error)
}

// UpdateInput is the body of PUT /teacher.
type UpdateInput struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageLink   *string `json:"imageLink"`
}

// DeleteInput is the body of DELETE /teacher.
type DeleteInput struct {
	ID string `json:"id"`
}

// Service implements teacher reads, updates and soft deletes.
type Service struct {
	store      Store
	presenters PresenterChecker
	access     *access.Resolver
	sanitizer  *sanitize.Sanitizer
	logger     *zap.Logger
}

// NewService creates a teachers service.
func NewService(store Store, presenters PresenterChecker, resolver *access.Resolver, sanitizer *sanitize.Sanitizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, presenters: presenters, access: resolver, sanitizer: sanitizer, logger: logger}
}

// Get returns an active teacher.
func (s *Service) Get(ctx context.Context, id string) (*models.TeacherPublic, error) {
	t, err := s.active(ctx, id)
	if err != nil {
		return nil, err
	}
	out := t.ToPublic()
	return &out, nil
}

// Active returns the id of an active teacher, for listing endpoints.
func (s *Service) Active(ctx context.Context, id string) (uuid.UUID, error) {
	t, err := s.active(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}

func (s *Service) active(ctx context.Context, id string) (*models.Teacher, error) {
	teacherID, err := validate.ParseID(id, "Teacher Id is required")
	if err != nil {
		return nil, err
	}
	t, err := s.store.GetByID(ctx, teacherID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !t.Active) {
		return nil, apperr.NotFound("Invalid teacher Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	return t, nil
}

// ListByPresenter returns the active teachers of an active presenter.
func (s *Service) ListByPresenter(ctx context.Context, presenterID string) ([]models.TeacherPublic, error) {
	id, err := s.presenters.Active(ctx, presenterID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListByPresenter(ctx, id)
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	out := make([]models.TeacherPublic, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToPublic())
	}
	return out, nil
}

// lookup loads a teacher for mutation: inactive rows are returned so the
// ownership check runs before the status check.
func (s *Service) lookup(ctx context.Context, id uuid.UUID) (*models.Teacher, error) {
	t, err := s.store.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("Invalid teacher Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	return t, nil
}

func (s *Service) authorizeUpdate(ctx context.Context, credentialID, id uuid.UUID) error {
	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return err
	}
	t, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CanUpdateTeacher(caller, t); err != nil {
		return err
	}
	if !t.Active {
		return apperr.NotFound("Invalid teacher Id")
	}
	return nil
}

// Update changes a teacher profile. Allowed for the teacher itself and its presenter.
func (s *Service) Update(ctx context.Context, credentialID uuid.UUID, in UpdateInput) (*models.TeacherPublic, error) {
	if err := validate.First(validate.Check(in.ID, validate.RequiredID("Teacher Id is required")...)); err != nil {
		return nil, err
	}
	id, _ := uuid.Parse(in.ID)
	patch := models.TeacherPatch{
		Name:        s.sanitizer.Ptr(in.Name),
		Description: s.sanitizer.Ptr(in.Description),
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperr.Validation("Teacher name is required")
	}
	if in.ImageLink != nil {
		link := strings.TrimSpace(*in.ImageLink)
		patch.ImageLink = &link
	}

	if err := s.authorizeUpdate(ctx, credentialID, id); err != nil {
		return nil, err
	}
	t, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	out := t.ToPublic()
	return &out, nil
}

// Delete soft-deletes a teacher. Only its presenter may do so; deleting an
// already inactive teacher is a no-op.
func (s *Service) Delete(ctx context.Context, credentialID uuid.UUID, in DeleteInput) (uuid.UUID, error) {
	if err := validate.First(validate.Check(in.ID, validate.RequiredID("Teacher Id is required")...)); err != nil {
		return uuid.Nil, err
	}
	id, _ := uuid.Parse(in.ID)

	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return uuid.Nil, err
	}
	t, err := s.lookup(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err := access.CanDeleteTeacher(caller, t); err != nil {
		return uuid.Nil, err
	}
	if !t.Active {
		return t.ID, nil
	}
	if err := s.store.Deactivate(ctx, t.ID); err != nil {
		return uuid.Nil, apperr.Dependency("Database error", err)
	}
	s.logger.Info("teacher deactivated", zap.String("teacher_id", t.ID.String()), zap.String("presenter_id", t.Presenter.ID.String()))
	return t.ID, nil
}

// AuthorizeImage implements media.Target.
func (s *Service) AuthorizeImage(ctx context.Context, credentialID uuid.UUID, id string) error {
	teacherID, err := validate.ParseID(id, "Teacher Id is required")
	if err != nil {
		return err
	}
	return s.authorizeUpdate(ctx, credentialID, teacherID)
}

// SetImage implements media.Target.
func (s *Service) SetImage(ctx context.Context, credentialID uuid.UUID, id, link string) (interface{}, error) {
	return s.Update(ctx, credentialID, UpdateInput{ID: id, ImageLink: &link})
}
