package fixture

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	// statusFinishedAlias is accepted on input for backward compatibility
	// with older portal clients and normalizes to StatusCompleted.
	statusFinishedAlias = "finished"
)

// Storage-level rejection reasons surfaced by repository implementations.
// Repositories mark driver errors with these so callers can classify a
// failed conditional write without importing the driver.
var (
	ErrVersionConflict = errors.New("fixture version conflict")
	ErrPolicyDenied    = errors.New("fixture write denied by store policy")
)

// Fixture is one scheduled match between two sides within a sport. Side
// names are denormalized onto the record so timeline messages render
// without a join.
type Fixture struct {
	ID           string
	Sport        string
	Venue        string
	TeamAID      string
	TeamAName    string
	TeamBID      string
	TeamBName    string
	TeamAScore   int
	TeamBScore   int
	Status       string
	WinnerTeamID string
	Version      int64
	Extension    map[string]any
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Detail is the enriched read used for responses.
type Detail struct {
	Fixture
	UpdatedByName string
}

// Update is the conditional mutation applied by a repository. When
// ExpectedVersion is positive the write must only succeed against that
// stored version. Version carries the explicit next value when the caller
// computed one; zero means the store manages the increment itself.
type Update struct {
	ID              string
	TeamAScore      int
	TeamBScore      int
	Status          string
	WinnerTeamID    string
	Extension       map[string]any
	UpdatedBy       string
	Version         int64
	ExpectedVersion int64
}

// Capabilities describes which optional columns the backing store exposes.
// Resolved once at process start and passed in as configuration; there is
// no per-request schema probing.
type Capabilities struct {
	HasVersion   bool
	HasUpdatedBy bool
}

func FullCapabilities() Capabilities {
	return Capabilities{HasVersion: true, HasUpdatedBy: true}
}

// NormalizeStatus maps an input token to its canonical status. The second
// return is false when the token is not one of the accepted five.
func NormalizeStatus(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case StatusScheduled:
		return StatusScheduled, true
	case StatusLive:
		return StatusLive, true
	case StatusCompleted, statusFinishedAlias:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	default:
		return "", false
	}
}

func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Winner returns the leading side's team ID, or empty on a tie. The caller
// decides whether the result may be stored; only completed fixtures carry
// a winner.
func Winner(teamAID, teamBID string, scoreA, scoreB int) string {
	switch {
	case scoreA > scoreB:
		return teamAID
	case scoreB > scoreA:
		return teamBID
	default:
		return ""
	}
}

func (f Fixture) TeamName(teamID string) string {
	switch teamID {
	case f.TeamAID:
		return f.TeamAName
	case f.TeamBID:
		return f.TeamBName
	default:
		return teamID
	}
}
