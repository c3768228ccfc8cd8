package usecase

import (
	"fmt"
	"time"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
	"github.com/arenaops/matchdesk/internal/domain/matchevent"
	"github.com/arenaops/matchdesk/internal/domain/sport"
)

// deriveTimeline diffs the previous and new fixture snapshots and produces
// the ordered event batch for the timeline. Pure and deterministic: the
// same snapshots always yield the same events in the same order.
//
// Order matters. The primary score record comes first, then per-side
// score-increase incidents (side A before side B), then the status change,
// then result and winner on completion.
func deriveTimeline(prev, next fixture.Fixture, note string, strategy sport.Strategy, at time.Time) []matchevent.Event {
	events := make([]matchevent.Event, 0, 5)

	prevA, prevB := prev.TeamAScore, prev.TeamBScore
	newA, newB := next.TeamAScore, next.TeamBScore

	message := fmt.Sprintf("Score updated: %s %d - %d %s (%s)",
		next.TeamAName, newA, newB, next.TeamBName, next.Status)
	if note != "" {
		message += ". Note: " + note
	}
	events = append(events, matchevent.Event{
		FixtureID:  next.ID,
		Kind:       matchevent.KindScore,
		Change:     matchevent.ChangeManual,
		Message:    message,
		PrevScoreA: &prevA,
		PrevScoreB: &prevB,
		NewScoreA:  &newA,
		NewScoreB:  &newB,
		CreatedBy:  next.UpdatedBy,
		CreatedAt:  at,
	})

	if delta := newA - prevA; delta > 0 {
		events = append(events, matchevent.Event{
			FixtureID: next.ID,
			Kind:      matchevent.KindIncident,
			Change:    matchevent.ChangeScoreIncrease,
			Message:   strategy.ScoreIncident(next.TeamAName, sport.SideKeyTeamA, delta, prev.Extension, next.Extension),
			CreatedBy: next.UpdatedBy,
			CreatedAt: at,
		})
	}
	if delta := newB - prevB; delta > 0 {
		events = append(events, matchevent.Event{
			FixtureID: next.ID,
			Kind:      matchevent.KindIncident,
			Change:    matchevent.ChangeScoreIncrease,
			Message:   strategy.ScoreIncident(next.TeamBName, sport.SideKeyTeamB, delta, prev.Extension, next.Extension),
			CreatedBy: next.UpdatedBy,
			CreatedAt: at,
		})
	}

	if prev.Status != next.Status {
		events = append(events, matchevent.Event{
			FixtureID: next.ID,
			Kind:      matchevent.KindIncident,
			Change:    matchevent.ChangeStatusChange,
			Message:   statusChangeMessage(prev.Status, next.Status),
			CreatedBy: next.UpdatedBy,
			CreatedAt: at,
		})
	}

	if next.Status == fixture.StatusCompleted && prev.Status != fixture.StatusCompleted {
		events = append(events, matchevent.Event{
			FixtureID: next.ID,
			Kind:      matchevent.KindIncident,
			Change:    matchevent.ChangeResult,
			Message:   resultMessage(next),
			CreatedBy: next.UpdatedBy,
			CreatedAt: at,
		})
		if next.WinnerTeamID != "" {
			events = append(events, matchevent.Event{
				FixtureID: next.ID,
				Kind:      matchevent.KindIncident,
				Change:    matchevent.ChangeWinner,
				Message:   next.TeamName(next.WinnerTeamID) + " won the match",
				CreatedBy: next.UpdatedBy,
				CreatedAt: at,
			})
		}
	}

	return events
}

func statusChangeMessage(prevStatus, newStatus string) string {
	switch newStatus {
	case fixture.StatusLive:
		if prevStatus == fixture.StatusScheduled {
			return "Match started"
		}
		return "Match is live"
	case fixture.StatusCompleted:
		return "Match completed"
	case fixture.StatusCancelled:
		return "Match cancelled"
	default:
		return "Match rescheduled"
	}
}

func resultMessage(next fixture.Fixture) string {
	if next.TeamAScore == next.TeamBScore {
		return fmt.Sprintf("Match drawn %d-%d", next.TeamAScore, next.TeamBScore)
	}
	winner := next.TeamAName
	loser := next.TeamBName
	high, low := next.TeamAScore, next.TeamBScore
	if next.TeamBScore > next.TeamAScore {
		winner, loser = next.TeamBName, next.TeamAName
		high, low = next.TeamBScore, next.TeamAScore
	}
	return fmt.Sprintf("%s beat %s %d-%d", winner, loser, high, low)
}
