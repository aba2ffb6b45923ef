package access

import (
	"github.com/google/uuid"

	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/models"
)

// ErrForbidden is returned by every rule below on mismatch.
var ErrForbidden = apperr.Auth("Invalid user id")

// RequirePresenter returns the caller's presenter profile.
func RequirePresenter(c *Caller) (*models.Presenter, error) {
	if c == nil || c.Presenter == nil {
		return nil, ErrForbidden
	}
	return c.Presenter, nil
}

// CanMutateCourse allows the owning presenter only.
func CanMutateCourse(c *Caller, course *models.Course) error {
	if c.IsPresenter(course.Presenter.ID) {
		return nil
	}
	return ErrForbidden
}

// CanCreateLecture allows a presenter that owns the course and the teacher.
func CanCreateLecture(c *Caller, course *models.Course, teacher *models.Teacher) error {
	if c.IsPresenter(course.Presenter.ID) && c.IsPresenter(teacher.Presenter.ID) {
		return nil
	}
	return ErrForbidden
}

// CanUpdateLecture allows the owning presenter or the assigned teacher.
func CanUpdateLecture(c *Caller, l *models.Lecture) error {
	if c.IsPresenter(l.Presenter.ID) || c.IsTeacher(l.Teacher.ID) {
		return nil
	}
	return ErrForbidden
}

// CanDeleteLecture allows the owning presenter only.
func CanDeleteLecture(c *Caller, l *models.Lecture) error {
	if c.IsPresenter(l.Presenter.ID) {
		return nil
	}
	return ErrForbidden
}

// CanUpdateTeacher allows the teacher itself or its presenter.
func CanUpdateTeacher(c *Caller, t *models.Teacher) error {
	if c.IsTeacher(t.ID) || c.IsPresenter(t.Presenter.ID) {
		return nil
	}
	return ErrForbidden
}

// CanDeleteTeacher allows the owning presenter only.
func CanDeleteTeacher(c *Caller, t *models.Teacher) error {
	if c.IsPresenter(t.Presenter.ID) {
		return nil
	}
	return ErrForbidden
}

// CanUpdatePresenter allows the presenter itself only.
func CanUpdatePresenter(c *Caller, presenterID uuid.UUID) error {
	if c.IsPresenter(presenterID) {
		return nil
	}
	return ErrForbidden
}

// IsSelf allows a caller acting on its own profile.
func IsSelf(c *Caller, profileID uuid.UUID) error {
	if c != nil && c.Profile.ID == profileID && profileID != uuid.Nil {
		return nil
	}
	return ErrForbidden
}
