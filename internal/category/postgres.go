package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGStore implements Store using PostgreSQL, backed by the partial
// unique index on (name) where active.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const (
	categoryColumns = `id, name, description, created_at, active`
	activeOnly      = `active`
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanCategory(row interface{ Scan(...any) error }) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PGStore) GetAll(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+categoryColumns+` from categories where `+activeOnly+` order by lower(name), id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.Active); err != nil {
			return nil, err
		}
		entries = append(entries, c)
	}
	return entries, rows.Err()
}

func (s *PGStore) GetByID(ctx context.Context, id int64) (*Category, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+categoryColumns+` from categories where `+activeOnly+` and id=$1`, id)
	return scanCategory(row)
}

func (s *PGStore) Create(ctx context.Context, c *Category) (*Category, error) {
	stored := *c
	err := s.db.QueryRowContext(ctx,
		`insert into categories(name, description, created_at, active)
		 values($1,$2,$3,$4) returning id`,
		c.Name, c.Description, c.CreatedAt, c.Active,
	).Scan(&stored.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &stored, nil
}

func (s *PGStore) Update(ctx context.Context, c *Category) (*Category, error) {
	res, err := s.db.ExecContext(ctx,
		`update categories set name=$2, description=$3, active=$4 where id=$1`,
		c.ID, c.Name, c.Description, c.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	updated := *c
	return &updated, nil
}

func (s *PGStore) SoftDelete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `update categories set active=false where id=$1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *PGStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from categories where `+activeOnly+` and id=$1)`, id).Scan(&exists)
	return exists, err
}

func (s *PGStore) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from categories where `+activeOnly+` and name=$1 and ($2 = 0 or id <> $2))`,
		name, excludeID).Scan(&exists)
	return exists, err
}
