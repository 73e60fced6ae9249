package identity

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory implements Store with in-process concurrency safety. Used by
// handler tests and as the DSN-less development mode.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*User
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1, users: make(map[int64]*User)}
}

func (s *Memory) GetAll(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []User
	for _, u := range s.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a == b {
			return out[i].ID < out[j].ID
		}
		return a < b
	})
	return out, nil
}

func (s *Memory) GetByID(ctx context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok || !u.Active {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *Memory) GetByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Active && u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) Create(ctx context.Context, u *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Active && existing.Email == u.Email {
			return nil, ErrDuplicateEmail
		}
	}
	stored := *u
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (s *Memory) Update(ctx context.Context, u *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return nil, ErrNotFound
	}
	for id, other := range s.users {
		if id != u.ID && other.Active && other.Email == u.Email {
			return nil, ErrDuplicateEmail
		}
	}
	existing.Name = u.Name
	existing.Email = u.Email
	existing.PasswordHash = u.PasswordHash
	existing.Active = u.Active
	copied := *existing
	return &copied, nil
}

func (s *Memory) SoftDelete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.Active = false
	return true, nil
}

func (s *Memory) Exists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return ok && u.Active, nil
}

func (s *Memory) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, u := range s.users {
		if excludeID != 0 && id == excludeID {
			continue
		}
		if u.Active && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
