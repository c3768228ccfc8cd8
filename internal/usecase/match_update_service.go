package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
	"github.com/arenaops/matchdesk/internal/domain/moderator"
	"github.com/arenaops/matchdesk/internal/domain/sport"
	"github.com/arenaops/matchdesk/internal/domain/user"
	"github.com/arenaops/matchdesk/internal/platform/logging"
)

const maxNoteLength = 500

type UpdateScoreInput struct {
	FixtureID       string
	Actor           user.Principal
	TeamAScore      int
	TeamBScore      int
	Status          string
	ExpectedVersion int64
	Note            string
	Extra           map[string]any
}

type UpdateScoreResult struct {
	Fixture fixture.Detail
	Message string
	// Degraded is set when the post-write enrichment read failed and the
	// returned fixture was assembled from fallbacks.
	Degraded bool
}

// MatchUpdateService is the score-update orchestrator: permission gate,
// validation, optimistic-concurrency mutation, extension merge, event
// derivation and best-effort timeline dispatch.
type MatchUpdateService struct {
	fixtures    fixture.Repository
	assignments moderator.Repository
	sports      *sport.Registry
	caps        fixture.Capabilities
	dispatcher  *AuditDispatcher
	logger      *logging.Logger
	now         func() time.Time
}

func NewMatchUpdateService(
	fixtures fixture.Repository,
	assignments moderator.Repository,
	sports *sport.Registry,
	caps fixture.Capabilities,
	dispatcher *AuditDispatcher,
	logger *logging.Logger,
) *MatchUpdateService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MatchUpdateService{
		fixtures:    fixtures,
		assignments: assignments,
		sports:      sports,
		caps:        caps,
		dispatcher:  dispatcher,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *MatchUpdateService) UpdateScore(ctx context.Context, in UpdateScoreInput) (UpdateScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchUpdateService.UpdateScore")
	defer span.End()

	in.FixtureID = strings.TrimSpace(in.FixtureID)
	if in.FixtureID == "" {
		return UpdateScoreResult{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Actor.UserID) == "" {
		return UpdateScoreResult{}, fmt.Errorf("%w: missing actor identity", ErrUnauthenticated)
	}
	if in.TeamAScore < 0 || in.TeamBScore < 0 {
		return UpdateScoreResult{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}
	status, ok := fixture.NormalizeStatus(in.Status)
	if !ok {
		return UpdateScoreResult{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}
	if in.ExpectedVersion < 0 {
		return UpdateScoreResult{}, fmt.Errorf("%w: expected_version must be positive", ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Note) > maxNoteLength {
		return UpdateScoreResult{}, fmt.Errorf("%w: note exceeds %d characters", ErrInvalidInput, maxNoteLength)
	}

	// The previous-state and assignment reads are independent; issue them
	// concurrently. Admins skip the assignment lookup entirely.
	var (
		prev     fixture.Fixture
		found    bool
		readErr  error
		assigned moderator.Assignment
		asgErr   error
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		prev, found, readErr = s.fixtures.GetByID(ctx, in.FixtureID)
	})
	if !in.Actor.IsAdmin() {
		wg.Go(func() {
			assigned, _, asgErr = s.assignments.GetByUser(ctx, in.Actor.UserID)
		})
	}
	wg.Wait()

	if readErr != nil {
		return UpdateScoreResult{}, fmt.Errorf("get fixture before update: %w", readErr)
	}
	if !found {
		return UpdateScoreResult{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, in.FixtureID)
	}
	if asgErr != nil {
		return UpdateScoreResult{}, fmt.Errorf("get moderator assignment: %w", asgErr)
	}

	scope := moderator.ScopeFromAssignment(assigned)
	if err := AuthorizeFixtureAccess(in.Actor, scope, prev.Sport, prev.Venue); err != nil {
		return UpdateScoreResult{}, err
	}

	if fixture.IsTerminalStatus(prev.Status) && status != prev.Status {
		return UpdateScoreResult{}, fmt.Errorf("%w: fixture is %s and cannot transition to %s",
			ErrInvalidInput, prev.Status, status)
	}

	strategy := s.sports.ForSport(prev.Sport)
	merged := prev.Extension
	if in.Extra != nil {
		if err := strategy.ValidateExtension(in.Extra); err != nil {
			return UpdateScoreResult{}, fmt.Errorf("%w: extra: %v", ErrInvalidInput, err)
		}
		merged = strategy.MergeExtension(prev.Extension, in.Extra)
	}

	winner := ""
	if status == fixture.StatusCompleted {
		winner = fixture.Winner(prev.TeamAID, prev.TeamBID, in.TeamAScore, in.TeamBScore)
	}

	upd := fixture.Update{
		ID:           in.FixtureID,
		TeamAScore:   in.TeamAScore,
		TeamBScore:   in.TeamBScore,
		Status:       status,
		WinnerTeamID: winner,
		Extension:    merged,
	}
	if s.caps.HasUpdatedBy {
		upd.UpdatedBy = in.Actor.UserID
	}
	if s.caps.HasVersion && in.ExpectedVersion > 0 {
		upd.ExpectedVersion = in.ExpectedVersion
		upd.Version = in.ExpectedVersion + 1
	}

	rows, err := s.fixtures.Update(ctx, upd)
	if err != nil {
		return UpdateScoreResult{}, classifyUpdateError(err)
	}
	if rows == 0 {
		return UpdateScoreResult{}, s.disambiguateZeroRows(ctx, in)
	}

	next := prev
	next.TeamAScore = in.TeamAScore
	next.TeamBScore = in.TeamBScore
	next.Status = status
	next.WinnerTeamID = winner
	next.Extension = merged
	next.UpdatedBy = in.Actor.UserID
	next.UpdatedAt = s.now().UTC()
	if upd.Version > 0 {
		next.Version = upd.Version
	} else {
		next.Version = prev.Version + 1
	}

	s.dispatcher.Dispatch(deriveTimeline(prev, next, strings.TrimSpace(in.Note), strategy, next.UpdatedAt))

	return s.assembleResponse(ctx, next), nil
}

// classifyUpdateError maps storage-level rejections onto the service
// taxonomy. Failures here are terminal for the request; input and
// permission were already validated, so what remains is persistence.
func classifyUpdateError(err error) error {
	switch {
	case crerr.Is(err, fixture.ErrVersionConflict):
		return fmt.Errorf("%w: fixture was modified by another update", ErrConcurrentUpdate)
	case crerr.Is(err, fixture.ErrPolicyDenied):
		return fmt.Errorf("%w: store rejected the write", ErrPermissionDenied)
	default:
		return fmt.Errorf("%w: update fixture: %v", ErrDatabase, err)
	}
}

// disambiguateZeroRows re-reads the fixture after a conditional update
// matched nothing: the record is either gone or was concurrently moved
// past the expected version.
func (s *MatchUpdateService) disambiguateZeroRows(ctx context.Context, in UpdateScoreInput) error {
	current, found, err := s.fixtures.GetByID(ctx, in.FixtureID)
	if err != nil {
		return fmt.Errorf("%w: re-read after empty update: %v", ErrDatabase, err)
	}
	if !found {
		return fmt.Errorf("%w: fixture=%s", ErrNotFound, in.FixtureID)
	}
	if in.ExpectedVersion > 0 && current.Version != in.ExpectedVersion {
		return fmt.Errorf("%w: expected version %d, fixture is at %d",
			ErrConcurrentUpdate, in.ExpectedVersion, current.Version)
	}
	return fmt.Errorf("%w: update affected no rows", ErrDatabase)
}

// assembleResponse builds the outward result. Read failures after a
// successful write never fail the request: enrichment falls back to a
// bare re-read, and that falls back to an echo of the applied mutation.
func (s *MatchUpdateService) assembleResponse(ctx context.Context, next fixture.Fixture) UpdateScoreResult {
	message := fmt.Sprintf("Score updated: %s %d - %d %s",
		next.TeamAName, next.TeamAScore, next.TeamBScore, next.TeamBName)

	detail, found, err := s.fixtures.GetDetailByID(ctx, next.ID)
	if err == nil && found {
		return UpdateScoreResult{Fixture: detail, Message: message}
	}
	if err != nil {
		s.logger.WarnContext(ctx, "enriched fixture read failed after update",
			"fixture_id", next.ID, "error", err)
	}

	bare, found, err := s.fixtures.GetByID(ctx, next.ID)
	if err == nil && found {
		return UpdateScoreResult{Fixture: fixture.Detail{Fixture: bare}, Message: message, Degraded: true}
	}
	if err != nil {
		s.logger.WarnContext(ctx, "bare fixture read failed after update",
			"fixture_id", next.ID, "error", err)
	}

	return UpdateScoreResult{Fixture: fixture.Detail{Fixture: next}, Message: message, Degraded: true}
}
