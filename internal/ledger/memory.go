package ledger

import (
	"context"
	"sync"
)

// MemoryStore keeps the ledger in process memory. Used when the service
// starts without a configured backing store, and as the test double.
type MemoryStore struct {
	mu   sync.Mutex
	rows []Row
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ReadAll(ctx context.Context) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return nil
}
