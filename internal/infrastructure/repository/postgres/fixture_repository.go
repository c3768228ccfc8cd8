package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
	qb "github.com/arenaops/matchdesk/internal/platform/querybuilder"
)

var fixtureColumns = []string{
	"id", "sport", "venue",
	"team_a_id", "team_a_name", "team_b_id", "team_b_name",
	"team_a_score", "team_b_score",
	"status", "winner_team_id", "version", "extension", "updated_by",
	"created_at", "updated_at",
}

// FixtureRepository persists fixtures in postgres. The capability
// descriptor decides whether version and updated_by columns participate
// in writes; it is resolved once from configuration, never probed.
type FixtureRepository struct {
	db   *sqlx.DB
	caps fixture.Capabilities
}

func NewFixtureRepository(db *sqlx.DB, caps fixture.Capabilities) *FixtureRepository {
	return &FixtureRepository{db: db, caps: caps}
}

func (r *FixtureRepository) GetByID(ctx context.Context, id string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture: %w", err)
	}

	f, err := row.toDomain()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("decode fixture extension: %w", err)
	}
	return f, true, nil
}

func (r *FixtureRepository) GetDetailByID(ctx context.Context, id string) (fixture.Detail, bool, error) {
	columns := make([]string, 0, len(fixtureColumns)+1)
	for _, c := range fixtureColumns {
		columns = append(columns, "f."+c)
	}
	columns = append(columns, "u.display_name AS updated_by_name")

	query, args, err := qb.Select(columns...).
		From("fixtures f LEFT JOIN users u ON u.id = f.updated_by").
		Where(qb.Eq("f.id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Detail{}, false, fmt.Errorf("build select fixture detail query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Detail{}, false, nil
		}
		return fixture.Detail{}, false, fmt.Errorf("select fixture detail: %w", err)
	}

	f, err := row.toDomain()
	if err != nil {
		return fixture.Detail{}, false, fmt.Errorf("decode fixture extension: %w", err)
	}
	return fixture.Detail{Fixture: f, UpdatedByName: row.UpdatedByName.String}, true, nil
}

// Update applies the conditional mutation in one statement. With a
// version capability and a positive expected version the WHERE clause
// carries the optimistic check, so a stale expectation matches zero rows
// rather than erroring.
func (r *FixtureRepository) Update(ctx context.Context, u fixture.Update) (int64, error) {
	ext, err := extensionJSON(u.Extension)
	if err != nil {
		return 0, fmt.Errorf("encode fixture extension: %w", err)
	}

	b := qb.Update("fixtures").
		Set("team_a_score", u.TeamAScore).
		Set("team_b_score", u.TeamBScore).
		Set("status", u.Status).
		Set("winner_team_id", nullString(u.WinnerTeamID)).
		Set("extension", ext).
		SetExpr("updated_at", "now()")

	if r.caps.HasUpdatedBy {
		b.Set("updated_by", nullString(u.UpdatedBy))
	}
	if r.caps.HasVersion {
		if u.ExpectedVersion > 0 {
			b.Set("version", u.Version)
		} else {
			b.SetExpr("version", "version + 1")
		}
	}

	b.Where(qb.Eq("id", u.ID))
	if r.caps.HasVersion && u.ExpectedVersion > 0 {
		b.Where(qb.Eq("version", u.ExpectedVersion))
	}

	query, args, err := b.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build update fixture query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update fixture: %w", classifyWriteError(err))
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update fixture rows affected: %w", err)
	}
	return rows, nil
}
