package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/arenaops/matchdesk/internal/domain/moderator"
	qb "github.com/arenaops/matchdesk/internal/platform/querybuilder"
)

type assignmentTableModel struct {
	UserID string         `db:"user_id"`
	Sports pq.StringArray `db:"sports"`
	Venues pq.StringArray `db:"venues"`
	Role   string         `db:"role"`
}

// AssignmentRepository reads moderator assignments. Assignments are
// administered elsewhere in the portal; this service only consults them.
type AssignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) GetByUser(ctx context.Context, userID string) (moderator.Assignment, bool, error) {
	query, args, err := qb.Select("user_id", "sports", "venues", "role").
		From("moderator_assignments").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return moderator.Assignment{}, false, fmt.Errorf("build select assignment query: %w", err)
	}

	var row assignmentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return moderator.Assignment{}, false, nil
		}
		return moderator.Assignment{}, false, fmt.Errorf("select assignment: %w", err)
	}

	return moderator.Assignment{
		UserID: row.UserID,
		Sports: row.Sports,
		Venues: row.Venues,
		Role:   row.Role,
	}, true, nil
}
