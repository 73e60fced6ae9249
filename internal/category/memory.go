package category

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory implements Store with in-process concurrency safety.
type Memory struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[int64]*Category
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1, entries: make(map[int64]*Category)}
}

func (s *Memory) GetAll(ctx context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Category
	for _, c := range s.entries {
		if c.Active {
			out = append(out, *c)
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

func (s *Memory) GetByID(ctx context.Context, id int64) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.entries[id]
	if !ok || !c.Active {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *Memory) Create(ctx context.Context, c *Category) (*Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.entries {
		if existing.Active && existing.Name == c.Name {
			return nil, ErrDuplicateName
		}
	}
	stored := *c
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.entries[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (s *Memory) Update(ctx context.Context, c *Category) (*Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.entries[c.ID]
	if !ok {
		return nil, ErrNotFound
	}
	for id, other := range s.entries {
		if id != c.ID && other.Active && other.Name == c.Name {
			return nil, ErrDuplicateName
		}
	}
	existing.Name = c.Name
	existing.Description = c.Description
	existing.Active = c.Active
	copied := *existing
	return &copied, nil
}

func (s *Memory) SoftDelete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.entries[id]
	if !ok {
		return false, nil
	}
	c.Active = false
	return true, nil
}

func (s *Memory) Exists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.entries[id]
	return ok && c.Active, nil
}

func (s *Memory) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, c := range s.entries {
		if excludeID != 0 && id == excludeID {
			continue
		}
		if c.Active && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}
