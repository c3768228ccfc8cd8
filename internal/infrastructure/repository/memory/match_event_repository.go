package memory

import (
	"context"
	"sync"

	"github.com/arenaops/matchdesk/internal/domain/matchevent"
)

// MatchEventRepository is the in-memory timeline store. Events keep their
// append order per fixture, matching the id-ordered listing of the SQL
// implementation.
type MatchEventRepository struct {
	mu     sync.RWMutex
	nextID int64
	events map[string][]matchevent.Event

	// FailAppend forces AppendBatch to return this error; tests use it to
	// exercise the dead-letter path.
	FailAppend error
}

func NewMatchEventRepository() *MatchEventRepository {
	return &MatchEventRepository{events: make(map[string][]matchevent.Event)}
}

func (r *MatchEventRepository) AppendBatch(_ context.Context, events []matchevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAppend != nil {
		return r.FailAppend
	}

	for _, e := range events {
		r.nextID++
		e.ID = r.nextID
		r.events[e.FixtureID] = append(r.events[e.FixtureID], e)
	}
	return nil
}

func (r *MatchEventRepository) ListByFixture(_ context.Context, fixtureID string) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.events[fixtureID]
	out := make([]matchevent.Event, len(stored))
	copy(out, stored)
	return out, nil
}
