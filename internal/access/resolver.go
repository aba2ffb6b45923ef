// Package access resolves the caller behind a credential and decides whether
// that caller may mutate a resource.
package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/models"
)

// CredentialFinder loads credentials by id.
type CredentialFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Credential, error)
}

// PresenterFinder loads presenters by id, regardless of status.
type PresenterFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Presenter, error)
}

// TeacherFinder loads teachers by id, regardless of status.
type TeacherFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error)
}

// Caller is an authenticated credential together with its loaded profile.
// Exactly one of Presenter and Teacher is set for those roles; attendees only
// carry the profile reference.
type Caller struct {
	Credential *models.Credential
	Profile    models.ProfileRef
	Presenter  *models.Presenter
	Teacher    *models.Teacher
}

// Role returns the caller's role.
func (c *Caller) Role() models.Role { return c.Profile.Role }

// IsPresenter reports whether the caller is presenter id.
func (c *Caller) IsPresenter(id uuid.UUID) bool {
	return c != nil && c.Presenter != nil && c.Presenter.ID == id
}

// IsTeacher reports whether the caller is teacher id.
func (c *Caller) IsTeacher(id uuid.UUID) bool {
	return c != nil && c.Teacher != nil && c.Teacher.ID == id
}

// IsAttendee reports whether the caller is attendee id.
func (c *Caller) IsAttendee(id uuid.UUID) bool {
	return c != nil && c.Profile.Role == models.RoleAttendee && c.Profile.ID == id
}

// Resolver turns credential ids into Callers.
type Resolver struct {
	credentials CredentialFinder
	presenters  PresenterFinder
	teachers    TeacherFinder
	logger      *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(credentials CredentialFinder, presenters PresenterFinder, teachers TeacherFinder, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{credentials: credentials, presenters: presenters, teachers: teachers, logger: logger}
}

// Caller loads the credential and its role profile. A credential whose
// profile reference is missing or points at nothing fails closed.
func (r *Resolver) Caller(ctx context.Context, credentialID uuid.UUID) (*Caller, error) {
	if credentialID == uuid.Nil {
		return nil, apperr.Auth("Please log in")
	}
	cred, err := r.credentials.GetByID(ctx, credentialID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.Auth("Please log in")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}

	ref, err := models.ResolveProfile(cred)
	if err != nil {
		r.logger.Error("credential without matching profile", zap.String("credential_id", cred.ID.String()))
		return nil, apperr.Dependency("Corrupted identity", err)
	}

	caller := &Caller{Credential: cred, Profile: ref}
	switch ref.Role {
	case models.RolePresenter:
		p, err := r.presenters.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, r.profileError(cred, err)
		}
		caller.Presenter = p
	case models.RoleTeacher:
		t, err := r.teachers.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, r.profileError(cred, err)
		}
		caller.Teacher = t
	}
	return caller, nil
}

func (r *Resolver) profileError(cred *models.Credential, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		r.logger.Error("credential points at missing profile",
			zap.String("credential_id", cred.ID.String()), zap.String("role", string(cred.Role())))
		return apperr.Dependency("Corrupted identity", err)
	}
	return apperr.Dependency("Database error", err)
}

// MeetingOwner returns the presenter whose meeting provider credentials apply
// to the caller: the caller itself, or a teacher's owning presenter.
func (r *Resolver) MeetingOwner(ctx context.Context, c *Caller) (*models.Presenter, error) {
	switch {
	case c.Presenter != nil:
		return c.Presenter, nil
	case c.Teacher != nil:
		p, err := r.presenters.GetByID(ctx, c.Teacher.Presenter.ID)
		if err != nil {
			return nil, apperr.Dependency("Database error", err)
		}
		return p, nil
	}
	return nil, ErrForbidden
}

// Presenter returns a presenter by id for collaborators that need provider
// credentials outside of a request.
func (r *Resolver) Presenter(ctx context.Context, id uuid.UUID) (*models.Presenter, error) {
	return r.presenters.GetByID(ctx, id)
}
