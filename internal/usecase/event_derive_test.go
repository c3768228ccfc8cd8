package usecase

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
	"github.com/arenaops/matchdesk/internal/domain/matchevent"
	"github.com/arenaops/matchdesk/internal/domain/sport"
)

func derivePair(prevA, prevB, newA, newB int, prevStatus, newStatus string) (fixture.Fixture, fixture.Fixture) {
	prev := fixture.Fixture{
		ID:         "fx-9",
		TeamAID:    "team-a",
		TeamAName:  "Alpha",
		TeamBID:    "team-b",
		TeamBName:  "Beta",
		TeamAScore: prevA,
		TeamBScore: prevB,
		Status:     prevStatus,
	}
	next := prev
	next.TeamAScore = newA
	next.TeamBScore = newB
	next.Status = newStatus
	next.UpdatedBy = "usr-1"
	if newStatus == fixture.StatusCompleted {
		next.WinnerTeamID = fixture.Winner(prev.TeamAID, prev.TeamBID, newA, newB)
	}
	return prev, next
}

func TestDeriveTimelineFullOrdering(t *testing.T) {
	prev, next := derivePair(10, 8, 14, 9, fixture.StatusLive, fixture.StatusCompleted)
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	events := deriveTimeline(prev, next, "final correction", sport.GenericStrategy{}, at)
	require.Len(t, events, 6)

	wantChanges := []string{
		matchevent.ChangeManual,
		matchevent.ChangeScoreIncrease,
		matchevent.ChangeScoreIncrease,
		matchevent.ChangeStatusChange,
		matchevent.ChangeResult,
		matchevent.ChangeWinner,
	}
	for i, want := range wantChanges {
		require.Equal(t, want, events[i].Change, "event %d", i)
	}

	require.Equal(t, "Score updated: Alpha 14 - 9 Beta (completed). Note: final correction", events[0].Message)
	require.Equal(t, "Alpha scored 4 points", events[1].Message)
	require.Equal(t, "Beta scored 1 point", events[2].Message)
	require.Equal(t, "Match completed", events[3].Message)
	require.Equal(t, "Alpha beat Beta 14-9", events[4].Message)
	require.Equal(t, "Alpha won the match", events[5].Message)

	for _, e := range events {
		require.Equal(t, "fx-9", e.FixtureID)
		require.Equal(t, "usr-1", e.CreatedBy)
		require.Equal(t, at, e.CreatedAt)
	}
}

func TestDeriveTimelineDeterministic(t *testing.T) {
	prev, next := derivePair(0, 0, 3, 2, fixture.StatusScheduled, fixture.StatusLive)
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	first := deriveTimeline(prev, next, "", sport.GenericStrategy{}, at)
	second := deriveTimeline(prev, next, "", sport.GenericStrategy{}, at)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("derivation is not deterministic:\n%v\n%v", first, second)
	}
}

func TestDeriveTimelineScoreDecreaseEmitsNoIncident(t *testing.T) {
	// Corrections downward still produce the primary record but no
	// score_increase incident.
	prev, next := derivePair(14, 8, 12, 8, fixture.StatusLive, fixture.StatusLive)

	events := deriveTimeline(prev, next, "", sport.GenericStrategy{}, time.Now())
	require.Len(t, events, 1)
	require.Equal(t, matchevent.ChangeManual, events[0].Change)
}

func TestDeriveTimelineStatusMessages(t *testing.T) {
	tests := []struct {
		prev, next string
		want       string
	}{
		{fixture.StatusScheduled, fixture.StatusLive, "Match started"},
		{fixture.StatusCancelled, fixture.StatusLive, "Match is live"},
		{fixture.StatusLive, fixture.StatusCancelled, "Match cancelled"},
		{fixture.StatusLive, fixture.StatusScheduled, "Match rescheduled"},
	}
	for _, tc := range tests {
		got := statusChangeMessage(tc.prev, tc.next)
		require.Equal(t, tc.want, got, "%s -> %s", tc.prev, tc.next)
	}
}

func TestDeriveTimelineDrawHasNoWinnerEvent(t *testing.T) {
	prev, next := derivePair(21, 21, 21, 21, fixture.StatusLive, fixture.StatusCompleted)

	events := deriveTimeline(prev, next, "", sport.GenericStrategy{}, time.Now())
	require.Len(t, events, 3)
	require.Equal(t, "Match drawn 21-21", events[2].Message)
}
