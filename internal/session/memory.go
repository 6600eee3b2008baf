package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a map guarded by a mutex. Expired entries
// are dropped lazily on Get and swept on Put.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Data
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Data), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	if !m.now().Before(d.ExpiresAt) {
		delete(m.sessions, id)
		return nil, nil
	}
	return &d, nil
}

func (m *MemoryStore) Put(_ context.Context, id string, data *Data, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, d := range m.sessions {
		if !now.Before(d.ExpiresAt) {
			delete(m.sessions, k)
		}
	}

	d := *data
	d.ExpiresAt = now.Add(ttl)
	m.sessions[id] = d
	return nil
}

// Len reports the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
