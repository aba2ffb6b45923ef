package models

import (
	"time"

	"github.com/google/uuid"
)

// ZoomCredentials are the meeting provider credentials a presenter supplies.
type ZoomCredentials struct {
	APIKey      string
	APISecret   string
	HostID      string
	AccessToken string
}

// Presenter is a tenant that owns courses, lectures and teachers.
type Presenter struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	Name         string
	Description  string
	Location     string
	ImageLink    string
	Zoom         ZoomCredentials
	VimeoToken   string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PresenterPublic is a presenter without provider secrets.
type PresenterPublic struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageLink   string    `json:"imageLink"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToPublic converts Presenter to PresenterPublic.
func (p *Presenter) ToPublic() PresenterPublic {
	return PresenterPublic{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		ImageLink:   p.ImageLink,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Ref returns the {id, name} projection of p.
func (p *Presenter) Ref() Ref { return Ref{ID: p.ID, Name: p.Name} }

// PresenterPatch holds the optional fields of a presenter update.
type PresenterPatch struct {
	Name            *string
	Description     *string
	Location        *string
	ImageLink       *string
	VimeoToken      *string
	ZoomAPIKey      *string
	ZoomAPISecret   *string
	ZoomHostID      *string
	ZoomAccessToken *string
}
