package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/stats"
	"github.com/overtimehq/overtime-api/internal/usecase"
)

type lineDTO struct {
	Throws  int `json:"throws"`
	Hits    int `json:"hits"`
	Outs    int `json:"outs"`
	Catches int `json:"catches"`
}

func lineToDTO(l stats.Line) lineDTO {
	return lineDTO{Throws: l.Throws, Hits: l.Hits, Outs: l.Outs, Catches: l.Catches}
}

func lineFromDTO(l lineDTO) stats.Line {
	return stats.Line{Throws: l.Throws, Hits: l.Hits, Outs: l.Outs, Catches: l.Catches}
}

type setLineDTO struct {
	ID            string  `json:"id"`
	SetID         string  `json:"setId"`
	MatchID       string  `json:"matchId"`
	RosterEntryID string  `json:"rosterEntryId"`
	TeamID        string  `json:"teamId"`
	Line          lineDTO `json:"line"`
}

func setLineToDTO(l stats.SetLine) setLineDTO {
	return setLineDTO{
		ID:            l.ID,
		SetID:         l.SetID,
		MatchID:       l.MatchID,
		RosterEntryID: l.RosterEntryID,
		TeamID:        l.TeamID,
		Line:          lineToDTO(l.Line),
	}
}

type matchLineDTO struct {
	ID            string  `json:"id"`
	MatchID       string  `json:"matchId"`
	RosterEntryID string  `json:"rosterEntryId"`
	TeamID        string  `json:"teamId"`
	Kind          string  `json:"kind"`
	Source        string  `json:"source"`
	Line          lineDTO `json:"line"`
	Effectiveness float64 `json:"effectiveness"`
}

func matchLineToDTO(l stats.MatchLine) matchLineDTO {
	return matchLineDTO{
		ID:            l.ID,
		MatchID:       l.MatchID,
		RosterEntryID: l.RosterEntryID,
		TeamID:        l.TeamID,
		Kind:          l.Kind,
		Source:        l.Source,
		Line:          lineToDTO(l.Line),
		Effectiveness: stats.RoundEffectiveness(l.Line.Effectiveness()),
	}
}

type teamAggregateDTO struct {
	MatchID       string    `json:"matchId"`
	TeamID        string    `json:"teamId"`
	Line          lineDTO   `json:"line"`
	Effectiveness float64   `json:"effectiveness"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func teamAggregateToDTO(a stats.TeamAggregate) teamAggregateDTO {
	return teamAggregateDTO{
		MatchID:       a.MatchID,
		TeamID:        a.TeamID,
		Line:          lineToDTO(a.Line),
		Effectiveness: a.Effectiveness,
		UpdatedAt:     a.UpdatedAt,
	}
}

type captureSeedEntryDTO struct {
	RosterEntryID string  `json:"rosterEntryId"`
	PlayerID      string  `json:"playerId"`
	TeamID        string  `json:"teamId"`
	LineID        string  `json:"lineId,omitempty"`
	Line          lineDTO `json:"line"`
}

type captureSeedDTO struct {
	MatchID string                `json:"matchId"`
	Source  string                `json:"source"`
	Entries []captureSeedEntryDTO `json:"entries"`
}

type upsertSetLineRequest struct {
	ID            string  `json:"id"`
	SetID         string  `json:"setId" validate:"required"`
	RosterEntryID string  `json:"rosterEntryId" validate:"required"`
	Line          lineDTO `json:"line"`
}

type saveManualRequest struct {
	Source  string                   `json:"source" validate:"required"`
	Entries []saveManualEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type saveManualEntryRequest struct {
	LineID        string  `json:"lineId"`
	RosterEntryID string  `json:"rosterEntryId" validate:"required"`
	Line          lineDTO `json:"line"`
}

type updateMatchLineRequest struct {
	Line lineDTO `json:"line"`
}

type recalculateRequest struct {
	TeamID string `json:"teamId"`
}

func (h *Handler) ListSetLinesByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSetLinesByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	lines, err := h.setStatsService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list set lines failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]setLineDTO, 0, len(lines))
	for _, l := range lines {
		items = append(items, setLineToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListSetLinesBySet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSetLinesBySet")
	defer span.End()

	setID := r.PathValue("setID")
	lines, err := h.setStatsService.ListBySet(ctx, setID)
	if err != nil {
		h.logger.WarnContext(ctx, "list set lines by set failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]setLineDTO, 0, len(lines))
	for _, l := range lines {
		items = append(items, setLineToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpsertSetLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertSetLine")
	defer span.End()

	var req upsertSetLineRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	line, err := h.setStatsService.Upsert(ctx, usecase.UpsertSetLineInput{
		ID:            req.ID,
		SetID:         req.SetID,
		RosterEntryID: req.RosterEntryID,
		Line:          lineFromDTO(req.Line),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert set line failed", "set_id", req.SetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, setLineToDTO(line))
}

func (h *Handler) ListMatchLines(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchLines")
	defer span.End()

	matchID := r.PathValue("matchID")
	kind := strings.ToLower(strings.TrimSpace(r.PathValue("kind")))
	if !stats.IsValidKind(kind) {
		writeError(ctx, w, fmt.Errorf("%w: unknown statistics kind %q", usecase.ErrInvalidInput, kind))
		return
	}

	lines, err := h.matchStatsService.ListByMatch(ctx, matchID, kind)
	if err != nil {
		h.logger.WarnContext(ctx, "list match lines failed", "match_id", matchID, "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchLineDTO, 0, len(lines))
	for _, l := range lines {
		items = append(items, matchLineToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCaptureSeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCaptureSeed")
	defer span.End()

	matchID := r.PathValue("matchID")
	seed, err := h.matchStatsService.ResolveCaptureSeed(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve capture seed failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	entries := make([]captureSeedEntryDTO, 0, len(seed.Entries))
	for _, e := range seed.Entries {
		entries = append(entries, captureSeedEntryDTO{
			RosterEntryID: e.RosterEntryID,
			PlayerID:      e.PlayerID,
			TeamID:        e.TeamID,
			LineID:        e.LineID,
			Line:          lineToDTO(e.Line),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, captureSeedDTO{
		MatchID: seed.MatchID,
		Source:  seed.Source,
		Entries: entries,
	})
}

func (h *Handler) SaveManualLines(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveManualLines")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req saveManualRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]usecase.SaveManualEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, usecase.SaveManualEntry{
			LineID:        e.LineID,
			RosterEntryID: e.RosterEntryID,
			Line:          lineFromDTO(e.Line),
		})
	}

	saved, err := h.matchStatsService.SaveManual(ctx, usecase.SaveManualInput{
		MatchID: matchID,
		Source:  req.Source,
		Entries: entries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save manual lines failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchLineDTO, 0, len(saved))
	for _, l := range saved {
		items = append(items, matchLineToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateMatchLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchLine")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	kind := r.PathValue("kind")
	lineID := strings.TrimSpace(r.PathValue("lineID"))
	var req updateMatchLineRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	line, err := h.matchStatsService.UpdateLine(ctx, matchID, kind, lineID, lineFromDTO(req.Line))
	if err != nil {
		h.logger.WarnContext(ctx, "update match line failed", "match_id", matchID, "kind", kind, "line_id", lineID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchLineToDTO(line))
}

func (h *Handler) RecalculateAggregates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateAggregates")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req recalculateRequest
	if r.ContentLength != 0 {
		if err := h.decodeRequest(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	aggregates, err := h.matchStatsService.Recalculate(ctx, matchID, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate aggregates failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamAggregateDTO, 0, len(aggregates))
	for _, a := range aggregates {
		items = append(items, teamAggregateToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeamAggregates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamAggregates")
	defer span.End()

	matchID := r.PathValue("matchID")
	aggregates, err := h.matchStatsService.Aggregates(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team aggregates failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamAggregateDTO, 0, len(aggregates))
	for _, a := range aggregates {
		items = append(items, teamAggregateToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RunBulkRecalc(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBulkRecalc")
	defer span.End()

	var req bulkRecalcRequest
	if r.ContentLength != 0 {
		if err := h.decodeRequest(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	result, err := h.recalcService.Run(ctx, usecase.BulkRecalcInput{
		MatchIDs:   req.MatchIDs,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk recalc failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type bulkRecalcRequest struct {
	MatchIDs   []string `json:"matchIds"`
	MaxWorkers int      `json:"maxWorkers" validate:"omitempty,min=1,max=64"`
}
