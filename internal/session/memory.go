package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/spigell/talentscout/internal/screening"
)

// MemoryStore keeps sessions in process memory. States are cloned on the way
// in and out so callers never share maps or slices with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]screening.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]screening.State)}
}

func (m *MemoryStore) Save(_ context.Context, state screening.State) error {
	if state.ID == "" {
		return fmt.Errorf("save session: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.ID] = state.Clone()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (screening.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[id]
	if !ok {
		return screening.State{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return state.Clone(), nil
}

func (m *MemoryStore) List(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summaries := make([]Summary, 0, len(m.states))
	for _, state := range m.states {
		summaries = append(summaries, summarize(state))
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (m *MemoryStore) Close() error { return nil }
