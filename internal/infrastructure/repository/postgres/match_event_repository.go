package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arenaops/matchdesk/internal/domain/matchevent"
	qb "github.com/arenaops/matchdesk/internal/platform/querybuilder"
)

// MatchEventRepository is the append-only timeline store. Batches insert
// as one multi-row statement so a derived batch lands atomically.
type MatchEventRepository struct {
	db *sqlx.DB
}

func NewMatchEventRepository(db *sqlx.DB) *MatchEventRepository {
	return &MatchEventRepository{db: db}
}

func (r *MatchEventRepository) AppendBatch(ctx context.Context, events []matchevent.Event) error {
	if len(events) == 0 {
		return nil
	}

	b := qb.InsertInto("match_update_events").Columns(
		"fixture_id", "kind", "change", "message",
		"prev_score_a", "prev_score_b", "new_score_a", "new_score_b",
		"created_by", "created_at",
	)
	for _, e := range events {
		b.Values(
			e.FixtureID, e.Kind, e.Change, e.Message,
			intPtrToNullInt64(e.PrevScoreA), intPtrToNullInt64(e.PrevScoreB),
			intPtrToNullInt64(e.NewScoreA), intPtrToNullInt64(e.NewScoreB),
			nullString(e.CreatedBy), e.CreatedAt,
		)
	}

	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match events query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match events: %w", err)
	}
	return nil
}

func (r *MatchEventRepository) ListByFixture(ctx context.Context, fixtureID string) ([]matchevent.Event, error) {
	query, args, err := qb.Select(
		"id", "fixture_id", "kind", "change", "message",
		"prev_score_a", "prev_score_b", "new_score_a", "new_score_b",
		"created_by", "created_at",
	).From("match_update_events").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match events query: %w", err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match events: %w", err)
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
