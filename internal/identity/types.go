// Package identity implements the user account lifecycle: registration
// with enforced email uniqueness, credential verification, profile
// maintenance and soft deletion.
package identity

import (
	"errors"
	"time"
)

// User is the stored account record. PasswordHash never leaves this
// package; Profile is the outward projection.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	Active       bool
}

// Profile is the representation exposed to clients. Credential hash
// and creation timestamp stay internal.
type Profile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// Session is the payload of a successful login.
type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Project maps a stored record to its outward projection.
func (u *User) Project() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Active: u.Active}
}

var (
	// ErrNotFound indicates no active record matched the lookup key.
	ErrNotFound = errors.New("identity: not found")
	// ErrDuplicateEmail indicates the storage-level unique index
	// rejected a write. The check-then-act fast path in the service can
	// race; this is the backstop.
	ErrDuplicateEmail = errors.New("identity: email already in use")
)
