package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps definitions in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	defs map[string]Definition
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{defs: make(map[string]Definition), now: time.Now}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[id]
	if !ok {
		return nil, NotFound(id)
	}
	out := clone(def)
	return &out, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, def *Definition) error {
	if err := validate(def); err != nil {
		return err
	}
	def.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[def.ID] = clone(*def)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.defs[id]; !ok {
		return NotFound(id)
	}
	delete(s.defs, id)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]Definition, error) {
	s.mu.RLock()
	out := make([]Definition, 0, len(s.defs))
	for _, def := range s.defs {
		out = append(out, clone(def))
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Definition) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error { return nil }

// clone copies the slices of def so callers cannot mutate stored rows.
func clone(def Definition) Definition {
	def.Table.Columns = slices.Clone(def.Table.Columns)
	rows := make([][]any, len(def.Table.Rows))
	for i, r := range def.Table.Rows {
		rows[i] = slices.Clone(r)
	}
	def.Table.Rows = rows
	def.Settings.Condition.Rules = slices.Clone(def.Settings.Condition.Rules)
	def.Settings.Progression.Rules = slices.Clone(def.Settings.Progression.Rules)
	return def
}

var _ Store = (*MemoryStore)(nil)
