package models

import (
	"time"

	"github.com/google/uuid"
)

// Teacher is a profile scoped to exactly one presenter.
type Teacher struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	Email        string
	Presenter    Ref
	Name         string
	Description  string
	ImageLink    string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TeacherPublic is the API shape of a teacher.
type TeacherPublic struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Description string    `json:"description"`
	ImageLink   string    `json:"imageLink"`
	Presenter   Ref       `json:"presenter"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToPublic converts Teacher to TeacherPublic.
func (t *Teacher) ToPublic() TeacherPublic {
	return TeacherPublic{
		ID:          t.ID,
		Name:        t.Name,
		Email:       t.Email,
		Description: t.Description,
		ImageLink:   t.ImageLink,
		Presenter:   t.Presenter,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Ref returns the {id, name} projection of t.
func (t *Teacher) Ref() Ref { return Ref{ID: t.ID, Name: t.Name} }

// TeacherPatch holds the optional fields of a teacher update.
type TeacherPatch struct {
	Name        *string
	Description *string
	ImageLink   *string
}
