package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"moneynote/internal/core"
	"moneynote/internal/records"
)

type Store struct {
	mu    sync.Mutex
	items []core.Record
}

func New(seed []core.Record) *Store {
	return &Store{items: append([]core.Record(nil), seed...)}
}

// NewFromFile loads a seed file in the list envelope format. A missing path
// yields an empty store.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return New(nil), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var env records.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	seed := env.ToRecords()
	for i := range seed {
		if seed[i].ID == "" {
			seed[i].ID = records.NewID()
		}
	}
	return New(seed), nil
}

// List returns a copy of the stored records.
func (s *Store) List(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.items...), nil
}

// Create stores the record under a fresh id.
func (s *Store) Create(_ context.Context, r core.Record) (core.Record, error) {
	if err := r.Validate(); err != nil {
		return core.Record{}, records.Fail("create", err)
	}
	r.ID = records.NewID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	return r, nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.items {
		if r.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return records.Fail("delete", fmt.Errorf("%w: %s", records.ErrNotFound, id))
}
