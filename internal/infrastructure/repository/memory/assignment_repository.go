package memory

import (
	"context"
	"sync"

	"github.com/arenaops/matchdesk/internal/domain/moderator"
)

// AssignmentRepository is the in-memory moderator assignment lookup.
type AssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[string]moderator.Assignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{assignments: make(map[string]moderator.Assignment)}
}

func (r *AssignmentRepository) Put(a moderator.Assignment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[a.UserID] = a
}

func (r *AssignmentRepository) GetByUser(_ context.Context, userID string) (moderator.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assignments[userID]
	if !ok {
		return moderator.Assignment{}, false, nil
	}
	return a, true, nil
}
