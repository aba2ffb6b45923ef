package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendee is the profile of a student viewing lectures.
type Attendee struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	ImageLink    string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HistoryEntry is one lecture view in an attendee's history.
type HistoryEntry struct {
	Lecture  Ref       `json:"lecture"`
	Course   Ref       `json:"course"`
	ViewedAt time.Time `json:"viewedAt"`
}
