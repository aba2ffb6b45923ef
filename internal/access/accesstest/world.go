// Package accesstest provides an in-memory identity graph for service tests.
package accesstest

import (
	"context"

	"github.com/google/uuid"

	"github.com/lecturely/backend/internal/access"
	"github.com/lecturely/backend/internal/models"
)

// Credentials is an in-memory access.CredentialFinder.
type Credentials map[uuid.UUID]*models.Credential

// GetByID implements access.CredentialFinder.
func (f Credentials) GetByID(_ context.Context, id uuid.UUID) (*models.Credential, error) {
	if c, ok := f[id]; ok {
		return c, nil
	}
	return nil, models.ErrNotFound
}

// Presenters is an in-memory access.PresenterFinder.
type Presenters map[uuid.UUID]*models.Presenter

// GetByID implements access.PresenterFinder.
func (f Presenters) GetByID(_ context.Context, id uuid.UUID) (*models.Presenter, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, models.ErrNotFound
}

// Teachers is an in-memory access.TeacherFinder.
type Teachers map[uuid.UUID]*models.Teacher

// GetByID implements access.TeacherFinder.
func (f Teachers) GetByID(_ context.Context, id uuid.UUID) (*models.Teacher, error) {
	if t, ok := f[id]; ok {
		return t, nil
	}
	return nil, models.ErrNotFound
}

// World holds credentials and profiles behind a Resolver.
type World struct {
	Resolver    *access.Resolver
	Credentials Credentials
	Presenters  Presenters
	Teachers    Teachers
}

// NewWorld returns an empty World.
func NewWorld() *World {
	w := &World{
		Credentials: Credentials{},
		Presenters:  Presenters{},
		Teachers:    Teachers{},
	}
	w.Resolver = access.NewResolver(w.Credentials, w.Presenters, w.Teachers, nil)
	return w
}

// AddPresenter registers an active presenter and returns its credential id.
func (w *World) AddPresenter(name string) (uuid.UUID, *models.Presenter) {
	credID := uuid.New()
	p := &models.Presenter{ID: uuid.New(), CredentialID: credID, Name: name, Active: true}
	w.Presenters[p.ID] = p
	w.Credentials[credID] = &models.Credential{
		ID:      credID,
		Email:   name + "@example.com",
		Profile: models.ProfileRef{Role: models.RolePresenter, ID: p.ID},
	}
	return credID, p
}

// AddTeacher registers an active teacher under p.
func (w *World) AddTeacher(p *models.Presenter, name string) (uuid.UUID, *models.Teacher) {
	credID := uuid.New()
	t := &models.Teacher{ID: uuid.New(), CredentialID: credID, Email: name + "@example.com", Name: name, Presenter: p.Ref(), Active: true}
	w.Teachers[t.ID] = t
	w.Credentials[credID] = &models.Credential{
		ID:      credID,
		Email:   t.Email,
		Profile: models.ProfileRef{Role: models.RoleTeacher, ID: t.ID},
	}
	return credID, t
}

// AddAttendee registers an attendee and returns its credential and profile ids.
func (w *World) AddAttendee() (uuid.UUID, uuid.UUID) {
	credID, attendeeID := uuid.New(), uuid.New()
	w.Credentials[credID] = &models.Credential{
		ID:      credID,
		Email:   "attendee-" + attendeeID.String()[:8] + "@example.com",
		Profile: models.ProfileRef{Role: models.RoleAttendee, ID: attendeeID},
	}
	return credID, attendeeID
}
