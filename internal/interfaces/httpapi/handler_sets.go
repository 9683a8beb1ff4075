package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/matchset"
	"github.com/overtimehq/overtime-api/internal/usecase"
)

type setDTO struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"matchId"`
	Number    int       `json:"number"`
	Status    string    `json:"status"`
	Winner    string    `json:"winner"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func setToDTO(s matchset.Set) setDTO {
	return setDTO{
		ID:        s.ID,
		MatchID:   s.MatchID,
		Number:    s.Number,
		Status:    s.Status,
		Winner:    s.Winner,
		UpdatedAt: s.UpdatedAt,
	}
}

type updateSetRequest struct {
	Status string `json:"status"`
	Winner string `json:"winner"`
}

func (h *Handler) ListSetsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSetsByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	sets, err := h.setService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list sets failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]setDTO, 0, len(sets))
	for _, s := range sets {
		items = append(items, setToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSet")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	set, err := h.setService.Create(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "create set failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, setToDTO(set))
}

func (h *Handler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSet")
	defer span.End()

	setID := strings.TrimSpace(r.PathValue("setID"))
	var req updateSetRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	set, err := h.setService.Update(ctx, setID, usecase.UpdateSetInput{
		Status: req.Status,
		Winner: req.Winner,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update set failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, setToDTO(set))
}

func (h *Handler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSet")
	defer span.End()

	setID := strings.TrimSpace(r.PathValue("setID"))
	if err := h.setService.Delete(ctx, setID); err != nil {
		h.logger.WarnContext(ctx, "delete set failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CopySetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CopySetRoster")
	defer span.End()

	setID := strings.TrimSpace(r.PathValue("setID"))
	lines, err := h.setService.CopyRosterFromPrevious(ctx, setID)
	if err != nil {
		h.logger.WarnContext(ctx, "copy set roster failed", "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]setLineDTO, 0, len(lines))
	for _, l := range lines {
		items = append(items, setLineToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
