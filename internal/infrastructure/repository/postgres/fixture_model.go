package postgres

import (
	"database/sql"
	"time"

	"github.com/bytedance/sonic"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID            string         `db:"id"`
	Sport         string         `db:"sport"`
	Venue         string         `db:"venue"`
	TeamAID       string         `db:"team_a_id"`
	TeamAName     string         `db:"team_a_name"`
	TeamBID       string         `db:"team_b_id"`
	TeamBName     string         `db:"team_b_name"`
	TeamAScore    int            `db:"team_a_score"`
	TeamBScore    int            `db:"team_b_score"`
	Status        string         `db:"status"`
	WinnerTeamID  sql.NullString `db:"winner_team_id"`
	Version       int64          `db:"version"`
	Extension     []byte         `db:"extension"`
	UpdatedBy     sql.NullString `db:"updated_by"`
	UpdatedByName sql.NullString `db:"updated_by_name"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (m fixtureTableModel) toDomain() (fixture.Fixture, error) {
	f := fixture.Fixture{
		ID:           m.ID,
		Sport:        m.Sport,
		Venue:        m.Venue,
		TeamAID:      m.TeamAID,
		TeamAName:    m.TeamAName,
		TeamBID:      m.TeamBID,
		TeamBName:    m.TeamBName,
		TeamAScore:   m.TeamAScore,
		TeamBScore:   m.TeamBScore,
		Status:       m.Status,
		WinnerTeamID: m.WinnerTeamID.String,
		Version:      m.Version,
		UpdatedBy:    m.UpdatedBy.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if len(m.Extension) > 0 {
		if err := sonic.Unmarshal(m.Extension, &f.Extension); err != nil {
			return fixture.Fixture{}, err
		}
	}
	return f, nil
}

func extensionJSON(ext map[string]any) (any, error) {
	if ext == nil {
		return nil, nil
	}
	return sonic.Marshal(ext)
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
