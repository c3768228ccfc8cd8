package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
	"github.com/arenaops/matchdesk/internal/domain/matchevent"
	"github.com/arenaops/matchdesk/internal/usecase"
)

type Handler struct {
	updateService *usecase.MatchUpdateService
	queryService  *usecase.FixtureQueryService
	logger        *slog.Logger
	validator     *validator.Validate
}

func NewHandler(
	updateService *usecase.MatchUpdateService,
	queryService *usecase.FixtureQueryService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		updateService: updateService,
		queryService:  queryService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type scoreUpdateRequest struct {
	TeamAScore      *int           `json:"team_a_score" validate:"required,gte=0"`
	TeamBScore      *int           `json:"team_b_score" validate:"required,gte=0"`
	Status          string         `json:"status" validate:"required"`
	ExpectedVersion *int64         `json:"expected_version" validate:"omitempty,gt=0"`
	Note            string         `json:"note" validate:"max=500"`
	Extra           map[string]any `json:"extra"`
}

func (h *Handler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthenticated))
		return
	}

	var req scoreUpdateRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	input := usecase.UpdateScoreInput{
		FixtureID:  r.PathValue("fixtureID"),
		Actor:      principal,
		TeamAScore: *req.TeamAScore,
		TeamBScore: *req.TeamBScore,
		Status:     req.Status,
		Note:       req.Note,
		Extra:      req.Extra,
	}
	if req.ExpectedVersion != nil {
		input.ExpectedVersion = *req.ExpectedVersion
	}

	result, err := h.updateService.UpdateScore(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "score update rejected",
			"fixture_id", input.FixtureID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreUpdateResponseDTO{
		Fixture:  fixtureToDTO(result.Fixture),
		Message:  result.Message,
		Degraded: result.Degraded,
	})
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	detail, err := h.queryService.GetFixture(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(detail))
}

func (h *Handler) ListFixtureEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtureEvents")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	events, err := h.queryService.ListTimeline(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixture events failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchEventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, eventToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

type teamSideDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type fixtureDTO struct {
	ID            string         `json:"id"`
	Sport         string         `json:"sport"`
	Venue         string         `json:"venue,omitempty"`
	TeamA         teamSideDTO    `json:"team_a"`
	TeamB         teamSideDTO    `json:"team_b"`
	Status        string         `json:"status"`
	WinnerTeamID  string         `json:"winner_team_id,omitempty"`
	Version       int64          `json:"version,omitempty"`
	Extension     map[string]any `json:"extension,omitempty"`
	UpdatedBy     string         `json:"updated_by,omitempty"`
	UpdatedByName string         `json:"updated_by_name,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type scoreUpdateResponseDTO struct {
	Fixture  fixtureDTO `json:"fixture"`
	Message  string     `json:"message"`
	Degraded bool       `json:"degraded,omitempty"`
}

type matchEventDTO struct {
	ID         int64     `json:"id"`
	FixtureID  string    `json:"fixture_id"`
	Kind       string    `json:"kind"`
	Change     string    `json:"change"`
	Message    string    `json:"message"`
	PrevScoreA *int      `json:"prev_score_a,omitempty"`
	PrevScoreB *int      `json:"prev_score_b,omitempty"`
	NewScoreA  *int      `json:"new_score_a,omitempty"`
	NewScoreB  *int      `json:"new_score_b,omitempty"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func fixtureToDTO(d fixture.Detail) fixtureDTO {
	return fixtureDTO{
		ID:    d.ID,
		Sport: d.Sport,
		Venue: d.Venue,
		TeamA: teamSideDTO{ID: d.TeamAID, Name: d.TeamAName, Score: d.TeamAScore},
		TeamB: teamSideDTO{ID: d.TeamBID, Name: d.TeamBName, Score: d.TeamBScore},
		Status:        d.Status,
		WinnerTeamID:  d.WinnerTeamID,
		Version:       d.Version,
		Extension:     d.Extension,
		UpdatedBy:     d.UpdatedBy,
		UpdatedByName: d.UpdatedByName,
		UpdatedAt:     d.UpdatedAt,
	}
}

func eventToDTO(e matchevent.Event) matchEventDTO {
	return matchEventDTO{
		ID:         e.ID,
		FixtureID:  e.FixtureID,
		Kind:       e.Kind,
		Change:     e.Change,
		Message:    e.Message,
		PrevScoreA: e.PrevScoreA,
		PrevScoreB: e.PrevScoreB,
		NewScoreA:  e.NewScoreA,
		NewScoreB:  e.NewScoreB,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
	}
}
