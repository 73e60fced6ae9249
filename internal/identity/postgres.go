package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGStore implements Store using PostgreSQL. The partial unique index
// on (email) where active is the last line of defense behind the
// service-level uniqueness check.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Soft-delete visibility is a single predicate composed into every
// read so the filter cannot drift between queries.
const (
	userColumns = `id, name, email, password_hash, created_at, active`
	activeOnly  = `active`
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PGStore) GetAll(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users where `+activeOnly+` order by lower(name), id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.Active); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PGStore) GetByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where `+activeOnly+` and id=$1`, id)
	return scanUser(row)
}

func (s *PGStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where `+activeOnly+` and email=$1`, email)
	return scanUser(row)
}

func (s *PGStore) Create(ctx context.Context, u *User) (*User, error) {
	stored := *u
	err := s.db.QueryRowContext(ctx,
		`insert into users(name, email, password_hash, created_at, active)
		 values($1,$2,$3,$4,$5) returning id`,
		u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.Active,
	).Scan(&stored.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &stored, nil
}

func (s *PGStore) Update(ctx context.Context, u *User) (*User, error) {
	res, err := s.db.ExecContext(ctx,
		`update users set name=$2, email=$3, password_hash=$4, active=$5 where id=$1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
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
	updated := *u
	return &updated, nil
}

func (s *PGStore) SoftDelete(ctx context.Context, id int64) (bool, error) {
	// Deliberately unfiltered by active: deleting twice is a no-op, not
	// a miss, as long as the row exists.
	res, err := s.db.ExecContext(ctx, `update users set active=false where id=$1`, id)
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
		`select exists(select 1 from users where `+activeOnly+` and id=$1)`, id).Scan(&exists)
	return exists, err
}

func (s *PGStore) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from users where `+activeOnly+` and email=$1 and ($2 = 0 or id <> $2))`,
		email, excludeID).Scan(&exists)
	return exists, err
}
