package postgres

import (
	"database/sql"
	"time"

	"github.com/arenaops/matchdesk/internal/domain/matchevent"
)

type matchEventTableModel struct {
	ID         int64          `db:"id"`
	FixtureID  string         `db:"fixture_id"`
	Kind       string         `db:"kind"`
	Change     string         `db:"change"`
	Message    string         `db:"message"`
	PrevScoreA sql.NullInt64  `db:"prev_score_a"`
	PrevScoreB sql.NullInt64  `db:"prev_score_b"`
	NewScoreA  sql.NullInt64  `db:"new_score_a"`
	NewScoreB  sql.NullInt64  `db:"new_score_b"`
	CreatedBy  sql.NullString `db:"created_by"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (m matchEventTableModel) toDomain() matchevent.Event {
	return matchevent.Event{
		ID:         m.ID,
		FixtureID:  m.FixtureID,
		Kind:       m.Kind,
		Change:     m.Change,
		Message:    m.Message,
		PrevScoreA: nullInt64ToIntPtr(m.PrevScoreA),
		PrevScoreB: nullInt64ToIntPtr(m.PrevScoreB),
		NewScoreA:  nullInt64ToIntPtr(m.NewScoreA),
		NewScoreB:  nullInt64ToIntPtr(m.NewScoreB),
		CreatedBy:  m.CreatedBy.String,
		CreatedAt:  m.CreatedAt,
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
