package session

import (
	"encoding/json"
	"sync"
)

// MemoryStore keeps sessions in memory. It backs tests and ephemeral runs
// where nothing should survive the process.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (m *MemoryStore) Load(identity string) Session {
	m.mu.RLock()
	state, ok := m.states[identity]
	m.mu.RUnlock()
	if !ok {
		return New()
	}

	var sess Session
	if err := json.Unmarshal(state, &sess); err != nil {
		return New()
	}
	return sess
}

// Save stores the marshaled session so later mutations of the caller's
// copy cannot alias into the store.
func (m *MemoryStore) Save(identity string, sess Session) error {
	state, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.states[identity] = state
	m.mu.Unlock()
	return nil
}
