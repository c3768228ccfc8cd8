package memory

import (
	"time"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
	"github.com/arenaops/matchdesk/internal/domain/moderator"
)

// Seed loads a small demo dataset for local runs without a database: one
// live cricket fixture with innings counters, one scheduled football
// fixture, and a moderator assigned to cricket only.
func Seed(fixtures *FixtureRepository, assignments *AssignmentRepository) {
	now := time.Now().UTC()

	fixtures.Put(fixture.Fixture{
		ID:         "fx-1001",
		Sport:      "Cricket",
		Venue:      "Eden Gardens",
		TeamAID:    "team-ind",
		TeamAName:  "India",
		TeamBID:    "team-aus",
		TeamBName:  "Australia",
		TeamAScore: 142,
		TeamBScore: 0,
		Status:     fixture.StatusLive,
		Version:    3,
		Extension: map[string]any{
			"cricket": map[string]any{
				"team_a": map[string]any{
					"runs":     142,
					"overs":    16.4,
					"wickets":  3,
					"fours":    12,
					"sixes":    5,
					"run_rate": 8.52,
				},
				"team_b": map[string]any{
					"runs":    0,
					"overs":   0.0,
					"wickets": 0,
				},
			},
		},
		UpdatedBy: "usr-mod-1",
		CreatedAt: now.Add(-2 * time.Hour),
		UpdatedAt: now.Add(-5 * time.Minute),
	})

	fixtures.Put(fixture.Fixture{
		ID:        "fx-2001",
		Sport:     "Football",
		Venue:     "City Arena",
		TeamAID:   "team-red",
		TeamAName: "Red United",
		TeamBID:   "team-blue",
		TeamBName: "Blue Rovers",
		Status:    fixture.StatusScheduled,
		Version:   1,
		CreatedAt: now.Add(-24 * time.Hour),
		UpdatedAt: now.Add(-24 * time.Hour),
	})

	fixtures.PutUserName("usr-mod-1", "Priya Raman")
	fixtures.PutUserName("usr-admin-1", "Site Admin")

	assignments.Put(moderator.Assignment{
		UserID: "usr-mod-1",
		Sports: []string{"Cricket"},
		Role:   "moderator",
	})
}
