package category

import "context"

// Store is the persistence gateway for taxonomy entries. Reads filter
// to active rows; SoftDelete loads regardless of the active flag.
type Store interface {
	GetAll(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	// Create persists a new entry, assigns its id and returns the
	// stored row. Returns ErrDuplicateName on a unique-index rejection.
	Create(ctx context.Context, c *Category) (*Category, error)
	Update(ctx context.Context, c *Category) (*Category, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// NameExists reports whether an active entry holds the exact name.
	// A non-zero excludeID leaves that row out of the check.
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
}
