package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
	"github.com/arenaops/matchdesk/internal/domain/matchevent"
)

// FixtureQueryService serves the read side: single fixture lookups and the
// derived-event timeline.
type FixtureQueryService struct {
	fixtures fixture.Repository
	events   matchevent.Repository
}

func NewFixtureQueryService(fixtures fixture.Repository, events matchevent.Repository) *FixtureQueryService {
	return &FixtureQueryService{fixtures: fixtures, events: events}
}

func (s *FixtureQueryService) GetFixture(ctx context.Context, id string) (fixture.Detail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureQueryService.GetFixture")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return fixture.Detail{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	detail, found, err := s.fixtures.GetDetailByID(ctx, id)
	if err != nil {
		return fixture.Detail{}, fmt.Errorf("get fixture detail: %w", err)
	}
	if !found {
		return fixture.Detail{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, id)
	}
	return detail, nil
}

func (s *FixtureQueryService) ListTimeline(ctx context.Context, fixtureID string) ([]matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureQueryService.ListTimeline")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return nil, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	if _, found, err := s.fixtures.GetByID(ctx, fixtureID); err != nil {
		return nil, fmt.Errorf("get fixture for timeline: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}

	events, err := s.events.ListByFixture(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	return events, nil
}
