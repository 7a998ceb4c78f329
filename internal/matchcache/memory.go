package matchcache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/model"
)

type memoryEntry struct {
	generation int64
	results    []model.MatchResult
	expires    time.Time
}

// Memory is an in-process cache for single-instance deployments.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.Mutex
	generation int64
	entries    map[uuid.UUID]memoryEntry
}

// NewMemory returns an in-process cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]memoryEntry),
	}
}

func (m *Memory) Lookup(_ context.Context, userID uuid.UUID) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userID]
	if !ok || e.generation != m.generation || m.now().After(e.expires) {
		return Entry{Generation: m.generation}, nil
	}
	return Entry{Results: e.results, Hit: true, Generation: m.generation}, nil
}

func (m *Memory) Store(_ context.Context, userID uuid.UUID, generation int64, results []model.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		return nil
	}
	m.entries[userID] = memoryEntry{
		generation: generation,
		results:    results,
		expires:    m.now().Add(m.ttl),
	}
	return nil
}

func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	clear(m.entries)
	return nil
}
