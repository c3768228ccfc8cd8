package matchevent

import "time"

const (
	KindScore    = "score"
	KindIncident = "incident"
)

const (
	ChangeScoreIncrease = "score_increase"
	ChangeStatusChange  = "status_change"
	ChangeWinner        = "winner"
	ChangeResult        = "result"
	ChangeManual        = "manual"
)

// Event is one immutable timeline entry for a fixture. Events are created
// once and never updated or deleted by this service.
type Event struct {
	ID         int64
	FixtureID  string
	Kind       string
	Change     string
	Message    string
	PrevScoreA *int
	PrevScoreB *int
	NewScoreA  *int
	NewScoreB  *int
	CreatedBy  string
	CreatedAt  time.Time
}
