package memory

import (
	"context"
	"sync"
	"time"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
)

// FixtureRepository is the in-memory fixture store used by tests and by
// local runs without a database. It mirrors the conditional-update
// semantics of the SQL implementation: a version mismatch matches zero
// rows instead of erroring.
type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[string]fixture.Fixture
	names    map[string]string
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{
		fixtures: make(map[string]fixture.Fixture),
		names:    make(map[string]string),
	}
}

// Put inserts or replaces a fixture record.
func (r *FixtureRepository) Put(f fixture.Fixture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixtures[f.ID] = f
}

// PutUserName registers a display name for detail enrichment.
func (r *FixtureRepository) PutUserName(userID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[userID] = name
}

func (r *FixtureRepository) GetByID(_ context.Context, id string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.fixtures[id]
	if !ok {
		return fixture.Fixture{}, false, nil
	}
	return cloneFixture(f), true, nil
}

func (r *FixtureRepository) GetDetailByID(ctx context.Context, id string) (fixture.Detail, bool, error) {
	f, ok, err := r.GetByID(ctx, id)
	if err != nil || !ok {
		return fixture.Detail{}, ok, err
	}

	r.mu.RLock()
	name := r.names[f.UpdatedBy]
	r.mu.RUnlock()

	return fixture.Detail{Fixture: f, UpdatedByName: name}, true, nil
}

func (r *FixtureRepository) Update(_ context.Context, u fixture.Update) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.fixtures[u.ID]
	if !ok {
		return 0, nil
	}
	if u.ExpectedVersion > 0 && f.Version != u.ExpectedVersion {
		return 0, nil
	}

	f.TeamAScore = u.TeamAScore
	f.TeamBScore = u.TeamBScore
	f.Status = u.Status
	f.WinnerTeamID = u.WinnerTeamID
	f.Extension = u.Extension
	if u.UpdatedBy != "" {
		f.UpdatedBy = u.UpdatedBy
	}
	if u.Version > 0 {
		f.Version = u.Version
	} else {
		f.Version++
	}
	f.UpdatedAt = time.Now().UTC()

	r.fixtures[u.ID] = f
	return 1, nil
}

func cloneFixture(f fixture.Fixture) fixture.Fixture {
	if f.Extension != nil {
		ext := make(map[string]any, len(f.Extension))
		for k, v := range f.Extension {
			ext[k] = v
		}
		f.Extension = ext
	}
	return f
}
