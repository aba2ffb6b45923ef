package models

import "github.com/google/uuid"

// Ref is the public {id, name} projection of a related entity.
type Ref struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
