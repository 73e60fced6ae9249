package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"acervo.dev/internal/outcome"
)

// Service orchestrates taxonomy entry lifecycle over the store.
type Service struct {
	store Store
	now   func() time.Time
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

// NewService constructs a Service over the given gateway.
func NewService(store Store, opts ...ServiceOption) *Service {
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

const (
	msgNameInUse        = "category name already in use"
	msgCategoryNotFound = "category not found"
)

// Create adds a new active entry with a unique name.
func (s *Service) Create(ctx context.Context, name, description string) outcome.Result[View] {
	exists, err := s.store.NameExists(ctx, name, 0)
	if err != nil {
		return outcome.Internal[View](fmt.Sprintf("error creating category: %v", err))
	}
	if exists {
		return outcome.BadRequest[View](msgNameInUse)
	}

	created, err := s.store.Create(ctx, &Category{
		Name:        name,
		Description: description,
		CreatedAt:   s.now().UTC(),
		Active:      true,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return outcome.BadRequest[View](msgNameInUse)
		}
		return outcome.Internal[View](fmt.Sprintf("error creating category: %v", err))
	}
	return outcome.Created(created.Project(), "category created")
}

// GetByID returns the active entry with the given id.
func (s *Service) GetByID(ctx context.Context, id int64) outcome.Result[View] {
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return outcome.NotFound[View](msgCategoryNotFound)
		}
		return outcome.Internal[View](fmt.Sprintf("error retrieving category: %v", err))
	}
	return outcome.OK(entry.Project(), "category retrieved")
}

// GetAll returns every active entry ordered by name.
func (s *Service) GetAll(ctx context.Context) outcome.Result[[]View] {
	entries, err := s.store.GetAll(ctx)
	if err != nil {
		return outcome.Internal[[]View](fmt.Sprintf("error retrieving categories: %v", err))
	}
	views := make([]View, 0, len(entries))
	for i := range entries {
		views = append(views, entries[i].Project())
	}
	return outcome.OK(views, "categories retrieved")
}

// Update mutates name, description and active of an existing entry.
func (s *Service) Update(ctx context.Context, id int64, name, description string, active bool) outcome.Result[View] {
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return outcome.NotFound[View](msgCategoryNotFound)
		}
		return outcome.Internal[View](fmt.Sprintf("error updating category: %v", err))
	}

	inUse, err := s.store.NameExists(ctx, name, id)
	if err != nil {
		return outcome.Internal[View](fmt.Sprintf("error updating category: %v", err))
	}
	if inUse {
		return outcome.BadRequest[View](msgNameInUse)
	}

	entry.Name = name
	entry.Description = description
	entry.Active = active

	updated, err := s.store.Update(ctx, entry)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return outcome.BadRequest[View](msgNameInUse)
		}
		return outcome.Internal[View](fmt.Sprintf("error updating category: %v", err))
	}
	return outcome.OK(updated.Project(), "category updated")
}

// Delete soft-deletes the entry; its name becomes reusable at once.
func (s *Service) Delete(ctx context.Context, id int64) outcome.Result[bool] {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return outcome.Internal[bool](fmt.Sprintf("error deleting category: %v", err))
	}
	if !exists {
		return outcome.NotFound[bool](msgCategoryNotFound)
	}

	deleted, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return outcome.Internal[bool](fmt.Sprintf("error deleting category: %v", err))
	}
	return outcome.OK(deleted, "category deleted")
}
