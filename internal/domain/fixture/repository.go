package fixture

import "context"

// Repository holds the canonical fixture record and its version counter.
type Repository interface {
	GetByID(ctx context.Context, id string) (Fixture, bool, error)
	GetDetailByID(ctx context.Context, id string) (Detail, bool, error)
	// Update applies the conditional mutation and reports rows affected.
	// Zero rows with a nil error means the condition did not match.
	Update(ctx context.Context, u Update) (int64, error)
}
