package models

import (
	"time"

	"github.com/google/uuid"
)

// Course groups lectures and is owned by one presenter.
type Course struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageLink   string
	Presenter   Ref
	Active      bool
	UpdatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CoursePublic is the API shape of a course.
type CoursePublic struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageLink   string    `json:"imageLink"`
	Presenter   Ref       `json:"presenter"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToPublic converts Course to CoursePublic.
func (c *Course) ToPublic() CoursePublic {
	return CoursePublic{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageLink:   c.ImageLink,
		Presenter:   c.Presenter,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Ref returns the {id, name} projection of c.
func (c *Course) Ref() Ref { return Ref{ID: c.ID, Name: c.Name} }

// CoursePatch holds the optional fields of a course update.
type CoursePatch struct {
	Name        *string
	Description *string
	ImageLink   *string
}

// CourseQuery filters the course search. A nil PresenterID searches all presenters.
type CourseQuery struct {
	PresenterID *uuid.UUID
	Name        string
	Limit       int
}
