package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"acervo.dev/internal/outcome"
)

// TokenIssuer signs a bearer credential for an authenticated user.
// Implemented by acervo.dev/internal/token.
type TokenIssuer interface {
	Issue(u *User) (string, error)
}

// Service orchestrates the store, the password hasher and the token
// issuer. Every method returns a tagged result; no failure escapes as
// an error or panic.
type Service struct {
	store  Store
	tokens TokenIssuer
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service over the given gateway and issuer.
func NewService(store Store, tokens TokenIssuer, opts ...ServiceOption) *Service {
	svc := &Service{store: store, tokens: tokens, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

const (
	msgEmailInUse   = "email already in use"
	msgBadLogin     = "invalid email or password"
	msgUserNotFound = "user not found"
)

// Register creates a new active account with a hashed credential.
// Uniqueness is checked up front against active rows; the storage
// unique index closes the remaining race.
func (s *Service) Register(ctx context.Context, name, email, password string) outcome.Result[Profile] {
	exists, err := s.store.EmailExists(ctx, email, 0)
	if err != nil {
		return outcome.Internal[Profile](fmt.Sprintf("error creating user: %v", err))
	}
	if exists {
		return outcome.BadRequest[Profile](msgEmailInUse)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return outcome.Internal[Profile](fmt.Sprintf("error creating user: %v", err))
	}

	created, err := s.store.Create(ctx, &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return outcome.BadRequest[Profile](msgEmailInUse)
		}
		return outcome.Internal[Profile](fmt.Sprintf("error creating user: %v", err))
	}
	return outcome.Created(created.Project(), "user created")
}

// Login verifies credentials and issues a session token. A missing
// account and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) outcome.Result[Session] {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return outcome.BadRequest[Session](msgBadLogin)
		}
		return outcome.Internal[Session](fmt.Sprintf("error performing login: %v", err))
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return outcome.BadRequest[Session](msgBadLogin)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return outcome.Internal[Session](fmt.Sprintf("error performing login: %v", err))
	}
	return outcome.OK(Session{Token: token, User: user.Project()}, "login successful")
}

// GetByID returns the active account with the given id.
func (s *Service) GetByID(ctx context.Context, id int64) outcome.Result[Profile] {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return outcome.NotFound[Profile](msgUserNotFound)
		}
		return outcome.Internal[Profile](fmt.Sprintf("error retrieving user: %v", err))
	}
	return outcome.OK(user.Project(), "user retrieved")
}

// GetAll returns every active account ordered by name. An empty list
// is a valid success.
func (s *Service) GetAll(ctx context.Context) outcome.Result[[]Profile] {
	users, err := s.store.GetAll(ctx)
	if err != nil {
		return outcome.Internal[[]Profile](fmt.Sprintf("error retrieving users: %v", err))
	}
	profiles := make([]Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Project())
	}
	return outcome.OK(profiles, "users retrieved")
}

// Update mutates name, email and active of an existing account. The
// credential hash and creation timestamp are never touched here.
func (s *Service) Update(ctx context.Context, id int64, name, email string, active bool) outcome.Result[Profile] {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return outcome.NotFound[Profile](msgUserNotFound)
		}
		return outcome.Internal[Profile](fmt.Sprintf("error updating user: %v", err))
	}

	inUse, err := s.store.EmailExists(ctx, email, id)
	if err != nil {
		return outcome.Internal[Profile](fmt.Sprintf("error updating user: %v", err))
	}
	if inUse {
		return outcome.BadRequest[Profile](msgEmailInUse)
	}

	user.Name = name
	user.Email = email
	user.Active = active

	updated, err := s.store.Update(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return outcome.BadRequest[Profile](msgEmailInUse)
		}
		return outcome.Internal[Profile](fmt.Sprintf("error updating user: %v", err))
	}
	return outcome.OK(updated.Project(), "user updated")
}

// Delete soft-deletes the account: the row survives with active=false
// and its email becomes immediately reusable.
func (s *Service) Delete(ctx context.Context, id int64) outcome.Result[bool] {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return outcome.Internal[bool](fmt.Sprintf("error deleting user: %v", err))
	}
	if !exists {
		return outcome.NotFound[bool](msgUserNotFound)
	}

	deleted, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return outcome.Internal[bool](fmt.Sprintf("error deleting user: %v", err))
	}
	return outcome.OK(deleted, "user deleted")
}
