package prefs

import (
	"context"
	"sync"
	"time"
)

// Write records one completed Set on a MemoryStore.
type Write struct {
	Key   string
	Value string
}

// MemoryStore is an in-process Store. The hook fields let tests inject
// latency and failures; set them before the store is shared.
type MemoryStore struct {
	// Delay is applied before every Get and Set.
	Delay time.Duration
	// GetErr, when set, is returned by every Get.
	GetErr error
	// SetErr, when set, is returned by every Set and nothing is stored.
	SetErr error
	// Gate, when non-nil, blocks Get until it is closed or receives.
	Gate chan struct{}

	mu     sync.Mutex
	values map[string]string
	writes []Write
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// NewMemoryStoreWith returns a MemoryStore seeded with values.
func NewMemoryStoreWith(values map[string]string) *MemoryStore {
	s := NewMemoryStore()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *MemoryStore) wait(ctx context.Context) error {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	if err := s.wait(ctx); err != nil {
		return "", false, err
	}
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if s.SetErr != nil {
		return s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes = append(s.writes, Write{Key: key, Value: value})
	return nil
}

// Value returns the stored value for key.
func (s *MemoryStore) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Writes returns every successful Set in completion order.
func (s *MemoryStore) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}
