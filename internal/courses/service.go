package courses

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

// Store persists courses. Implemented by Repository.
type Store interface {
	Create(ctx context.Context, c *models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, id uuid.UUID, patch models.CoursePatch, updatedBy uuid.UUID) (*models.Course, error)
	Deactivate(ctx context.Context, id, updatedBy uuid.UUID) error
	ListByPresenter(ctx context.Context, presenterID uuid.UUID) ([]models.Course, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Course, error)
	Search(ctx context.Context, query models.CourseQuery) ([]models.Course, error)
}

// ProfileChecker resolves the id of an active presenter or teacher.
type ProfileChecker interface {
	Active(ctx context.Context, id string) (uuid.UUID, error)
}

// CreateInput is the body of POST /course.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageLink   string `json:"imageLink"`
}

// UpdateInput is the body of PUT /course.
type UpdateInput struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageLink   *string `json:"imageLink"`
}

// DeleteInput is the body of DELETE /course.
type DeleteInput struct {
	ID string `json:"id"`
}

// SearchInput holds the query parameters of GET /search.
type SearchInput struct {
	PresenterID string `form:"presenterId"`
	CourseName  string `form:"courseName"`
}

// Service implements course flows.
type Service struct {
	store      Store
	presenters ProfileChecker
	teachers   ProfileChecker
	access     *access.Resolver
	sanitizer  *sanitize.Sanitizer
	logger     *zap.Logger
}

// NewService creates a courses service.
func NewService(store Store, presenters, teachers ProfileChecker, resolver *access.Resolver, sanitizer *sanitize.Sanitizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		presenters: presenters,
		teachers:   teachers,
		access:     resolver,
		sanitizer:  sanitizer,
		logger:     logger,
	}
}

// Create adds a course owned by the calling presenter.
func (s *Service) Create(ctx context.Context, credentialID uuid.UUID, in CreateInput) (*models.CoursePublic, error) {
	if err := validate.First(validate.Check(in.Name, validate.Required("Course name is required"))); err != nil {
		return nil, err
	}
	name := s.sanitizer.Text(in.Name)
	if name == "" {
		return nil, apperr.Validation("Course name is required")
	}

	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	presenter, err := access.RequirePresenter(caller)
	if err != nil {
		return nil, err
	}
	if !presenter.Active {
		return nil, apperr.NotFound("Invalid presenter Id")
	}

	c, err := s.store.Create(ctx, &models.Course{
		Name:        name,
		Description: s.sanitizer.Text(in.Description),
		ImageLink:   strings.TrimSpace(in.ImageLink),
		Presenter:   presenter.Ref(),
		UpdatedBy:   &credentialID,
	})
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	s.logger.Info("course created", zap.String("course_id", c.ID.String()), zap.String("presenter_id", presenter.ID.String()))
	out := c.ToPublic()
	return &out, nil
}

// Get returns an active course.
func (s *Service) Get(ctx context.Context, id string) (*models.CoursePublic, error) {
	c, err := s.active(ctx, id)
	if err != nil {
		return nil, err
	}
	out := c.ToPublic()
	return &out, nil
}

// Active returns the id of an active course, for listing endpoints.
func (s *Service) Active(ctx context.Context, id string) (uuid.UUID, error) {
	c, err := s.active(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	return c.ID, nil
}

func (s *Service) active(ctx context.Context, id string) (*models.Course, error) {
	courseID, err := validate.ParseID(id, "Course Id is required")
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetByID(ctx, courseID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !c.Active) {
		return nil, apperr.NotFound("Invalid course Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	return c, nil
}

// ListByPresenter returns the active courses of an active presenter.
func (s *Service) ListByPresenter(ctx context.Context, presenterID string) ([]models.CoursePublic, error) {
	id, err := s.presenters.Active(ctx, presenterID)
	if err != nil {
		return nil, err
	}
	return s.shape(s.store.ListByPresenter(ctx, id))
}

// ListByTeacher returns the active courses an active teacher lectures in.
func (s *Service) ListByTeacher(ctx context.Context, teacherID string) ([]models.CoursePublic, error) {
	id, err := s.teachers.Active(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return s.shape(s.store.ListByTeacher(ctx, id))
}

// Search finds active courses by presenter and name substring.
func (s *Service) Search(ctx context.Context, in SearchInput) ([]models.CoursePublic, error) {
	var query models.CourseQuery
	if strings.TrimSpace(in.PresenterID) != "" {
		id, err := validate.ParseID(in.PresenterID, "Invalid presenter Id")
		if err != nil {
			return nil, err
		}
		query.PresenterID = &id
	}
	query.Name = s.sanitizer.Text(in.CourseName)
	return s.shape(s.store.Search(ctx, query))
}

func (s *Service) shape(list []models.Course, err error) ([]models.CoursePublic, error) {
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	out := make([]models.CoursePublic, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToPublic())
	}
	return out, nil
}

// owned loads a course of any status and checks the caller owns it.
func (s *Service) owned(ctx context.Context, credentialID, id uuid.UUID) (*models.Course, error) {
	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("Invalid course Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	if err := access.CanMutateCourse(caller, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes a course owned by the calling presenter.
func (s *Service) Update(ctx context.Context, credentialID uuid.UUID, in UpdateInput) (*models.CoursePublic, error) {
	if err := validate.First(validate.Check(in.ID, validate.RequiredID("Course Id is required")...)); err != nil {
		return nil, err
	}
	id, _ := uuid.Parse(in.ID)
	patch := models.CoursePatch{
		Name:        s.sanitizer.Ptr(in.Name),
		Description: s.sanitizer.Ptr(in.Description),
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperr.Validation("Course name is required")
	}
	if in.ImageLink != nil {
		link := strings.TrimSpace(*in.ImageLink)
		patch.ImageLink = &link
	}

	c, err := s.owned(ctx, credentialID, id)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, apperr.NotFound("Invalid course Id")
	}
	c, err = s.store.Update(ctx, id, patch, credentialID)
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	out := c.ToPublic()
	return &out, nil
}

// Delete soft-deletes a course owned by the calling presenter. Deleting an
// already inactive course is a no-op.
func (s *Service) Delete(ctx context.Context, credentialID uuid.UUID, in DeleteInput) (uuid.UUID, error) {
	if err := validate.First(validate.Check(in.ID, validate.RequiredID("Course Id is required")...)); err != nil {
		return uuid.Nil, err
	}
	id, _ := uuid.Parse(in.ID)

	c, err := s.owned(ctx, credentialID, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !c.Active {
		return c.ID, nil
	}
	if err := s.store.Deactivate(ctx, c.ID, credentialID); err != nil {
		return uuid.Nil, apperr.Dependency("Database error", err)
	}
	s.logger.Info("course deactivated", zap.String("course_id", c.ID.String()))
	return c.ID, nil
}

// AuthorizeImage implements media.Target.
func (s *Service) AuthorizeImage(ctx context.Context, credentialID uuid.UUID, id string) error {
	courseID, err := validate.ParseID(id, "Course Id is required")
	if err != nil {
		return err
	}
	c, err := s.owned(ctx, credentialID, courseID)
	if err != nil {
		return err
	}
	if !c.Active {
		return apperr.NotFound("Invalid course Id")
	}
	return nil
}

// SetImage implements media.Target.
func (s *Service) SetImage(ctx context.Context, credentialID uuid.UUID, id, link string) (interface{}, error) {
	return s.Update(ctx, credentialID, UpdateInput{ID: id, ImageLink: &link})
}
