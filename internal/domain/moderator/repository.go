package moderator

import "context"

// Repository looks up moderator assignments; read-only to this service.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (Assignment, bool, error)
}
