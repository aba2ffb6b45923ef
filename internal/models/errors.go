package models

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when a credential with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
)
