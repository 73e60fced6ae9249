// Package category implements the taxonomy reference entities: named
// entries with the same active-only uniqueness and soft-delete
// lifecycle as user accounts, without credentials.
package category

import (
	"errors"
	"time"
)

// Category is the stored taxonomy entry.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	Active      bool
}

// View is the representation exposed to clients.
type View struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// Project maps a stored entry to its outward representation.
func (c *Category) Project() View {
	return View{ID: c.ID, Name: c.Name, Description: c.Description, Active: c.Active}
}

var (
	ErrNotFound      = errors.New("category: not found")
	ErrDuplicateName = errors.New("category: name already in use")
)
