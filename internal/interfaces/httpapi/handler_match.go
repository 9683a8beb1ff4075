package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/match"
	"github.com/overtimehq/overtime-api/internal/usecase"
)

type matchDTO struct {
	ID          string    `json:"id"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Venue       string    `json:"venue"`
	HomeTeamID  string    `json:"homeTeamId"`
	AwayTeamID  string    `json:"awayTeamId"`
	HomeScore   int       `json:"homeScore"`
	AwayScore   int       `json:"awayScore"`
	Status      string    `json:"status"`
	CaptureMode string    `json:"captureMode"`
	DisplayMode string    `json:"displayMode"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:          m.ID,
		ScheduledAt: m.ScheduledAt,
		Venue:       m.Venue,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		Status:      m.Status,
		CaptureMode: m.CaptureMode,
		DisplayMode: m.DisplayMode,
		UpdatedAt:   m.UpdatedAt,
	}
}

type createMatchRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Venue       string    `json:"venue" validate:"max=200"`
	HomeTeamID  string    `json:"homeTeamId" validate:"required"`
	AwayTeamID  string    `json:"awayTeamId" validate:"required"`
	CaptureMode string    `json:"captureMode"`
	DisplayMode string    `json:"displayMode"`
}

type patchMatchRequest struct {
	ScheduledAt *time.Time `json:"scheduledAt"`
	Venue       *string    `json:"venue"`
	HomeScore   *int       `json:"homeScore" validate:"omitempty,min=0"`
	AwayScore   *int       `json:"awayScore" validate:"omitempty,min=0"`
	Status      *string    `json:"status"`
	CaptureMode *string    `json:"captureMode"`
	DisplayMode *string    `json:"displayMode"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.matchService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	m, err := h.matchService.GetByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		ScheduledAt: req.ScheduledAt,
		Venue:       req.Venue,
		HomeTeamID:  req.HomeTeamID,
		AwayTeamID:  req.AwayTeamID,
		CaptureMode: req.CaptureMode,
		DisplayMode: req.DisplayMode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(m))
}

func (h *Handler) PatchMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PatchMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req patchMatchRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matchService.ApplyPatch(ctx, matchID, match.Patch{
		ScheduledAt: req.ScheduledAt,
		Venue:       req.Venue,
		HomeScore:   req.HomeScore,
		AwayScore:   req.AwayScore,
		Status:      req.Status,
		CaptureMode: req.CaptureMode,
		DisplayMode: req.DisplayMode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "patch match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}
