package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/overtimehq/overtime-api/internal/platform/logging"
	"github.com/overtimehq/overtime-api/internal/usecase"
)

type Handler struct {
	matchService       *usecase.MatchService
	setService         *usecase.SetService
	rosterService      *usecase.RosterService
	setStatsService    *usecase.SetStatsService
	matchStatsService  *usecase.MatchStatsService
	recalcService      *usecase.RecalcService
	editRequestService *usecase.EditRequestService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	setService *usecase.SetService,
	rosterService *usecase.RosterService,
	setStatsService *usecase.SetStatsService,
	matchStatsService *usecase.MatchStatsService,
	recalcService *usecase.RecalcService,
	editRequestService *usecase.EditRequestService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:       matchService,
		setService:         setService,
		rosterService:      rosterService,
		setStatsService:    setStatsService,
		matchStatsService:  matchStatsService,
		recalcService:      recalcService,
		editRequestService: editRequestService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
