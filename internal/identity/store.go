package identity

import "context"

// Store is the persistence gateway for user accounts. Every read
// filters to active rows; SoftDelete is the one operation that loads a
// row regardless of its active flag, so re-deleting stays idempotent
// at the store level.
type Store interface {
	// GetAll returns active users ordered by name, case-insensitive.
	GetAll(ctx context.Context) ([]User, error)
	// GetByID returns the active user with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetByEmail returns the active user with the exact email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Create persists a new user, assigns its id and returns the stored
	// row. Returns ErrDuplicateEmail if the unique index rejects it.
	Create(ctx context.Context, u *User) (*User, error)
	// Update persists the mutable fields of an existing row keyed by
	// id. The caller is responsible for having loaded the row first.
	Update(ctx context.Context, u *User) (*User, error)
	// SoftDelete flips active to false. Returns false when no row with
	// that id exists at all.
	SoftDelete(ctx context.Context, id int64) (bool, error)
	// Exists reports whether an active row with the id exists.
	Exists(ctx context.Context, id int64) (bool, error)
	// EmailExists reports whether an active row holds the exact email.
	// A non-zero excludeID leaves that row out of the check.
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}
