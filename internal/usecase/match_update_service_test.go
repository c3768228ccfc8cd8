package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
	"github.com/arenaops/matchdesk/internal/domain/matchevent"
	"github.com/arenaops/matchdesk/internal/domain/moderator"
	"github.com/arenaops/matchdesk/internal/domain/sport"
	"github.com/arenaops/matchdesk/internal/domain/user"
	"github.com/arenaops/matchdesk/internal/infrastructure/repository/memory"
	"github.com/arenaops/matchdesk/internal/platform/logging"
)

type updateFixtureEnv struct {
	fixtures    *memory.FixtureRepository
	assignments *memory.AssignmentRepository
	events      *memory.MatchEventRepository
	dispatcher  *AuditDispatcher
	service     *MatchUpdateService
}

func newUpdateEnv(t *testing.T, caps fixture.Capabilities) *updateFixtureEnv {
	t.Helper()

	fixtures := memory.NewFixtureRepository()
	assignments := memory.NewAssignmentRepository()
	events := memory.NewMatchEventRepository()

	dispatcher, err := NewAuditDispatcher(2, events, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(dispatcher.Close)

	service := NewMatchUpdateService(
		fixtures,
		assignments,
		sport.NewRegistry(sport.NewCricketStrategy()),
		caps,
		dispatcher,
		logging.NewNop(),
	)
	return &updateFixtureEnv{
		fixtures:    fixtures,
		assignments: assignments,
		events:      events,
		dispatcher:  dispatcher,
		service:     service,
	}
}

func liveCricketFixture() fixture.Fixture {
	return fixture.Fixture{
		ID:         "fx-1",
		Sport:      "Cricket",
		Venue:      "Eden Gardens",
		TeamAID:    "team-ind",
		TeamAName:  "India",
		TeamBID:    "team-aus",
		TeamBName:  "Australia",
		TeamAScore: 10,
		TeamBScore: 8,
		Status:     fixture.StatusLive,
		Version:    3,
		UpdatedAt:  time.Now().UTC().Add(-time.Minute),
	}
}

func adminActor() user.Principal {
	return user.Principal{UserID: "usr-admin", Role: user.RoleAdmin}
}

func moderatorActor() user.Principal {
	return user.Principal{UserID: "usr-mod", Role: user.RoleModerator, IsModerator: true}
}

func (e *updateFixtureEnv) timeline(t *testing.T, fixtureID string) []matchevent.Event {
	t.Helper()
	e.dispatcher.Wait()
	events, err := e.events.ListByFixture(context.Background(), fixtureID)
	require.NoError(t, err)
	return events
}

func TestUpdateScoreDeltaIncident(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())

	res, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      14,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Equal(t, 14, res.Fixture.TeamAScore)
	require.Equal(t, int64(4), res.Fixture.Version)
	require.Equal(t, "Score updated: India 14 - 8 Australia", res.Message)

	events := env.timeline(t, "fx-1")
	require.Len(t, events, 2)

	require.Equal(t, matchevent.KindScore, events[0].Kind)
	require.Equal(t, matchevent.ChangeManual, events[0].Change)
	require.Equal(t, "Score updated: India 14 - 8 Australia (live)", events[0].Message)
	require.Equal(t, 10, *events[0].PrevScoreA)
	require.Equal(t, 14, *events[0].NewScoreA)

	require.Equal(t, matchevent.ChangeScoreIncrease, events[1].Change)
	require.Equal(t, "India scored 4 runs", events[1].Message)
}

func TestUpdateScoreFinishedAlias(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())

	res, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      10,
		TeamBScore:      8,
		Status:          "finished",
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
	require.Equal(t, fixture.StatusCompleted, res.Fixture.Status)
	require.Equal(t, "team-ind", res.Fixture.WinnerTeamID)

	events := env.timeline(t, "fx-1")
	require.Len(t, events, 4)
	require.Equal(t, "Match completed", events[1].Message)
	require.Equal(t, "India beat Australia 10-8", events[2].Message)
	require.Equal(t, matchevent.ChangeWinner, events[3].Change)
	require.Equal(t, "India won the match", events[3].Message)
}

func TestUpdateScoreDrawnCompletion(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	f := liveCricketFixture()
	f.TeamAScore, f.TeamBScore = 21, 20
	env.fixtures.Put(f)

	res, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      21,
		TeamBScore:      21,
		Status:          "completed",
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
	require.Empty(t, res.Fixture.WinnerTeamID)

	events := env.timeline(t, "fx-1")
	require.Len(t, events, 4)
	require.Equal(t, matchevent.ChangeScoreIncrease, events[1].Change)
	require.Equal(t, matchevent.ChangeStatusChange, events[2].Change)
	require.Equal(t, "Match completed", events[2].Message)
	require.Equal(t, matchevent.ChangeResult, events[3].Change)
	require.Equal(t, "Match drawn 21-21", events[3].Message)
	for _, e := range events {
		require.NotEqual(t, matchevent.ChangeWinner, e.Change)
	}
}

func TestUpdateScoreConcurrentWriters(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())

	first := UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	}
	_, err := env.service.UpdateScore(context.Background(), first)
	require.NoError(t, err)

	second := first
	second.TeamAScore = 12
	_, err = env.service.UpdateScore(context.Background(), second)
	require.ErrorIs(t, err, ErrConcurrentUpdate)

	stored, found, err := env.fixtures.GetByID(context.Background(), "fx-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 11, stored.TeamAScore)
	require.Equal(t, int64(4), stored.Version)
}

func TestUpdateScoreWithoutVersionLastWriteWins(t *testing.T) {
	env := newUpdateEnv(t, fixture.Capabilities{HasUpdatedBy: true})
	env.fixtures.Put(liveCricketFixture())

	// ExpectedVersion is carried by the client but the store has no
	// version column; the write proceeds unconditionally.
	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 99,
	})
	require.NoError(t, err)
}

func TestUpdateScoreSportNotAssigned(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())
	env.assignments.Put(moderator.Assignment{
		UserID: "usr-mod",
		Sports: []string{"Football"},
	})

	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           moderatorActor(),
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	})
	require.ErrorIs(t, err, ErrSportNotAssigned)
	require.ErrorIs(t, err, ErrPermissionDenied)

	// No mutation and no timeline writes.
	stored, _, _ := env.fixtures.GetByID(context.Background(), "fx-1")
	require.Equal(t, 10, stored.TeamAScore)
	require.Equal(t, int64(3), stored.Version)
	require.Empty(t, env.timeline(t, "fx-1"))
}

func TestUpdateScoreVenueNotAssigned(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())
	env.assignments.Put(moderator.Assignment{
		UserID: "usr-mod",
		Sports: []string{"Cricket"},
		Venues: []string{"Lord's"},
	})

	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           moderatorActor(),
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	})
	require.ErrorIs(t, err, ErrVenueNotAssigned)
}

func TestUpdateScoreEmptyAssignmentIsUnrestricted(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())

	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           moderatorActor(),
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
}

func TestUpdateScoreViewerDenied(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())

	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           user.Principal{UserID: "usr-view", Role: user.RoleViewer},
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateScoreValidation(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())

	base := UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	}

	tests := []struct {
		name   string
		mutate func(*UpdateScoreInput)
	}{
		{"negative score", func(in *UpdateScoreInput) { in.TeamAScore = -1 }},
		{"unknown status", func(in *UpdateScoreInput) { in.Status = "paused" }},
		{"negative expected version", func(in *UpdateScoreInput) { in.ExpectedVersion = -1 }},
		{"oversized note", func(in *UpdateScoreInput) { in.Note = strings.Repeat("x", 501) }},
		{"missing fixture id", func(in *UpdateScoreInput) { in.FixtureID = "  " }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := env.service.UpdateScore(context.Background(), in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	t.Run("missing actor", func(t *testing.T) {
		in := base
		in.Actor = user.Principal{}
		_, err := env.service.UpdateScore(context.Background(), in)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestUpdateScoreFixtureNotFound(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())

	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:  "fx-missing",
		Actor:      adminActor(),
		TeamAScore: 1,
		Status:     "live",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateScoreTerminalTransition(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	f := liveCricketFixture()
	f.Status = fixture.StatusCompleted
	env.fixtures.Put(f)

	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      10,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// A same-status correction on a terminal fixture is still allowed.
	_, err = env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      12,
		TeamBScore:      8,
		Status:          "completed",
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
}

func TestUpdateScoreCricketRunRateRecompute(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	f := liveCricketFixture()
	f.Extension = map[string]any{
		"cricket": map[string]any{
			"team_a": map[string]any{"runs": 10, "overs": 2.0, "run_rate": 5.0},
		},
	}
	env.fixtures.Put(f)

	res, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      30,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
		Extra: map[string]any{
			"cricket": map[string]any{
				"team_a": map[string]any{"runs": 30, "overs": 4.3, "sixes": 1},
			},
		},
	})
	require.NoError(t, err)

	block := res.Fixture.Extension["cricket"].(map[string]any)
	innings := block["team_a"].(map[string]any)
	// 4.3 overs = 27 balls; 30 runs over 4.5 overs' worth of balls.
	require.InDelta(t, 6.6667, innings["run_rate"].(float64), 0.001)

	events := env.timeline(t, "fx-1")
	require.Len(t, events, 2)
	require.Equal(t, "Six! India cleared the ropes", events[1].Message)
}

func TestUpdateScoreInvalidExtensionRejected(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())

	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
		Extra: map[string]any{
			"cricket": map[string]any{
				"team_a": map[string]any{"overs": 3.7},
			},
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateScoreAuditFailureDoesNotFailRequest(t *testing.T) {
	env := newUpdateEnv(t, fixture.FullCapabilities())
	env.fixtures.Put(liveCricketFixture())
	env.events.FailAppend = errors.New("timeline store down")

	_, err := env.service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      11,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
	require.Empty(t, env.timeline(t, "fx-1"))
}

// failingReadRepository wraps the memory repository and fails every read
// after the conditional update has gone through, to exercise the degraded
// response path.
type failingReadRepository struct {
	*memory.FixtureRepository
	updated bool
}

func (r *failingReadRepository) Update(ctx context.Context, u fixture.Update) (int64, error) {
	rows, err := r.FixtureRepository.Update(ctx, u)
	if rows > 0 {
		r.updated = true
	}
	return rows, err
}

func (r *failingReadRepository) GetByID(ctx context.Context, id string) (fixture.Fixture, bool, error) {
	if r.updated {
		return fixture.Fixture{}, false, errors.New("read replica down")
	}
	return r.FixtureRepository.GetByID(ctx, id)
}

func (r *failingReadRepository) GetDetailByID(ctx context.Context, id string) (fixture.Detail, bool, error) {
	if r.updated {
		return fixture.Detail{}, false, errors.New("read replica down")
	}
	return r.FixtureRepository.GetDetailByID(ctx, id)
}

func TestUpdateScoreDegradedResponse(t *testing.T) {
	fixtures := &failingReadRepository{FixtureRepository: memory.NewFixtureRepository()}
	fixtures.Put(liveCricketFixture())

	events := memory.NewMatchEventRepository()
	dispatcher, err := NewAuditDispatcher(1, events, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(dispatcher.Close)

	service := NewMatchUpdateService(
		fixtures,
		memory.NewAssignmentRepository(),
		sport.NewRegistry(sport.NewCricketStrategy()),
		fixture.FullCapabilities(),
		dispatcher,
		logging.NewNop(),
	)

	res, err := service.UpdateScore(context.Background(), UpdateScoreInput{
		FixtureID:       "fx-1",
		Actor:           adminActor(),
		TeamAScore:      14,
		TeamBScore:      8,
		Status:          "live",
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.Equal(t, 14, res.Fixture.TeamAScore)
	require.Equal(t, int64(4), res.Fixture.Version)
	require.Equal(t, "Score updated: India 14 - 8 Australia", res.Message)
}
