package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps states in a map. Expired states are dropped on Load
// or by Sweep.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]State
	ttl    time.Duration
	now    func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{states: make(map[string]State), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, error) {
	if err := checkID(id); err != nil {
		return State{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[id]
	if !ok {
		return State{}, nil
	}
	if expired(st.UpdatedAt, m.ttl, m.now()) {
		delete(m.states, id)
		return State{}, nil
	}
	return st, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, st State) error {
	if err := checkID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = m.now()
	}
	m.states[id] = st
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

// Sweep drops expired states and returns how many went.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	now := m.now()
	for id, st := range m.states {
		if expired(st.UpdatedAt, m.ttl, now) {
			delete(m.states, id)
			n++
		}
	}
	return n
}

// Len is the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

func (m *MemoryStore) Close() error { return nil }
