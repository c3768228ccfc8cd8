package matchevent

import "context"

// Repository is the append-only audit/timeline store.
type Repository interface {
	// AppendBatch writes all events as one batch. Callers treat failures
	// as best-effort; the primary fixture write has already succeeded.
	AppendBatch(ctx context.Context, events []Event) error
	ListByFixture(ctx context.Context, fixtureID string) ([]Event, error)
}
