package httpapi

import (
	"net/http"
	"strings"

	"github.com/overtimehq/overtime-api/internal/domain/roster"
	"github.com/overtimehq/overtime-api/internal/usecase"
)

type rosterEntryDTO struct {
	ID       string `json:"id"`
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId"`
	TeamID   string `json:"teamId"`
}

func rosterEntryToDTO(e roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		ID:       e.ID,
		MatchID:  e.MatchID,
		PlayerID: e.PlayerID,
		TeamID:   e.TeamID,
	}
}

type assignRosterRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	TeamID   string `json:"teamId" validate:"required"`
}

func (h *Handler) ListRosterByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRosterByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	entries, err := h.rosterService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list roster failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, rosterEntryToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AssignRosterEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignRosterEntry")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req assignRosterRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.rosterService.Assign(ctx, usecase.AssignPlayerInput{
		MatchID:  matchID,
		PlayerID: req.PlayerID,
		TeamID:   req.TeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "assign roster entry failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterEntryToDTO(entry))
}

func (h *Handler) RemoveRosterEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveRosterEntry")
	defer span.End()

	entryID := strings.TrimSpace(r.PathValue("entryID"))
	if err := h.rosterService.Remove(ctx, entryID); err != nil {
		h.logger.WarnContext(ctx, "remove roster entry failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
