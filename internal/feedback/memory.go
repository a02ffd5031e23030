package feedback

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps feedback in process; used when no database is configured.
type MemoryStore struct {
	mu    sync.Mutex
	items []Feedback
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{now: time.Now} }

func (m *MemoryStore) Save(_ context.Context, f Feedback) (Feedback, error) {
	f, err := Normalize(f)
	if err != nil {
		return Feedback{}, err
	}
	f = stamp(f, m.now())
	m.mu.Lock()
	m.items = append(m.items, f)
	m.mu.Unlock()
	return f, nil
}

// Recent returns up to limit entries, newest first.
func (m *MemoryStore) Recent(_ context.Context, limit int) ([]Feedback, error) {
	limit = clampLimit(limit)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Feedback, 0, limit)
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
