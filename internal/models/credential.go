package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role is the kind of profile a credential fronts.
type Role string

const (
	RoleAttendee  Role = "attendee"
	RolePresenter Role = "presenter"
	RoleTeacher   Role = "teacher"
)

// Roles lists every valid role in registration order.
var Roles = []Role{RoleAttendee, RolePresenter, RoleTeacher}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAttendee, RolePresenter, RoleTeacher:
		return true
	}
	return false
}

// ErrProfileMissing means a credential does not reference a profile of its own role.
var ErrProfileMissing = errors.New("credential has no profile for its role")

// ProfileRef points at the single profile a credential owns.
type ProfileRef struct {
	Role Role
	ID   uuid.UUID
}

// Credential is the login identity. Exactly one profile, matching Role, is referenced.
type Credential struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Profile      ProfileRef `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Role returns the credential's role.
func (c *Credential) Role() Role { return c.Profile.Role }

// ResolveProfile returns the profile reference of c or ErrProfileMissing when
// the stored state breaks the one-profile-per-role rule.
func ResolveProfile(c *Credential) (ProfileRef, error) {
	if c == nil || !c.Profile.Role.Valid() || c.Profile.ID == uuid.Nil {
		return ProfileRef{}, ErrProfileMissing
	}
	return c.Profile, nil
}

// ProfileFromColumns builds a ProfileRef from the three nullable profile
// columns of a credentials row. Only the column named by role may be set.
func ProfileFromColumns(role Role, attendeeID, presenterID, teacherID *uuid.UUID) ProfileRef {
	cols := map[Role]*uuid.UUID{
		RoleAttendee:  attendeeID,
		RolePresenter: presenterID,
		RoleTeacher:   teacherID,
	}
	for r, id := range cols {
		if r != role && id != nil {
			return ProfileRef{Role: role}
		}
	}
	ref := ProfileRef{Role: role}
	if id := cols[role]; id != nil {
		ref.ID = *id
	}
	return ref
}
