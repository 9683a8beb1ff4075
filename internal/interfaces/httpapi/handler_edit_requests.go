package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/editrequest"
	"github.com/overtimehq/overtime-api/internal/usecase"
)

type editRequestDTO struct {
	ID              string         `json:"id"`
	Kind            string         `json:"kind"`
	TargetID        string         `json:"targetId,omitempty"`
	ProposedChanges map[string]any `json:"proposedChanges"`
	State           string         `json:"state"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	CreatedBy       string         `json:"createdBy"`
	DecidedBy       string         `json:"decidedBy,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	DecidedAt       *time.Time     `json:"decidedAt,omitempty"`
}

func editRequestToDTO(r editrequest.Request) editRequestDTO {
	return editRequestDTO{
		ID:              r.ID,
		Kind:            r.Kind,
		TargetID:        r.TargetID,
		ProposedChanges: r.ProposedChanges,
		State:           r.State,
		RejectionReason: r.RejectionReason,
		CreatedBy:       r.CreatedBy,
		DecidedBy:       r.DecidedBy,
		CreatedAt:       r.CreatedAt,
		DecidedAt:       r.DecidedAt,
	}
}

type createEditRequestRequest struct {
	Kind            string         `json:"kind" validate:"required"`
	TargetID        string         `json:"targetId"`
	ProposedChanges map[string]any `json:"proposedChanges" validate:"required,min=1"`
}

type rejectEditRequestRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (h *Handler) ListEditRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEditRequests")
	defer span.End()

	filter := editrequest.Filter{
		State: r.URL.Query().Get("state"),
		Kind:  r.URL.Query().Get("kind"),
	}
	items, err := h.editRequestService.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list edit requests failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]editRequestDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, editRequestToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) CreateEditRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEditRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req createEditRequestRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.editRequestService.Create(ctx, usecase.CreateEditRequestInput{
		Kind:            req.Kind,
		TargetID:        req.TargetID,
		ProposedChanges: req.ProposedChanges,
		CreatedBy:       principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create edit request failed", "kind", req.Kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, editRequestToDTO(created))
}

func (h *Handler) GetEditRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEditRequest")
	defer span.End()

	requestID := r.PathValue("requestID")
	item, err := h.editRequestService.GetByID(ctx, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get edit request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, editRequestToDTO(item))
}

func (h *Handler) EditRequestOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditRequestOptions")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.editRequestService.Options())
}

func (h *Handler) PendingEditRequestCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PendingEditRequestCount")
	defer span.End()

	count, err := h.editRequestService.PendingCount(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "pending edit request count failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"pending": count})
}

func (h *Handler) ApproveEditRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveEditRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	requestID := r.PathValue("requestID")
	item, err := h.editRequestService.Approve(ctx, requestID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "approve edit request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, editRequestToDTO(item))
}

func (h *Handler) RejectEditRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectEditRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req rejectEditRequestRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	requestID := r.PathValue("requestID")
	item, err := h.editRequestService.Reject(ctx, requestID, principal.UserID, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "reject edit request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, editRequestToDTO(item))
}

func (h *Handler) CancelEditRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelEditRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	requestID := r.PathValue("requestID")
	item, err := h.editRequestService.Cancel(ctx, requestID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel edit request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, editRequestToDTO(item))
}
