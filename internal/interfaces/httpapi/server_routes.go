package httpapi

import (
	"net/http"

	"github.com/overtimehq/overtime-api/internal/domain/user"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/sets", handler.ListSetsByMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/roster", handler.ListRosterByMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/stats/sets", handler.ListSetLinesByMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/stats/aggregates", handler.ListTeamAggregates)
	mux.HandleFunc("GET /v1/matches/{matchID}/stats/{kind}", handler.ListMatchLines)
	mux.HandleFunc("GET /v1/sets/{setID}/stats", handler.ListSetLinesBySet)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerMatchAdminRoutes(mux, handler, verifier)
	registerCaptureRoutes(mux, handler, verifier)
	registerEditRequestRoutes(mux, handler, verifier)
}

func registerMatchAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches", RequireAuth(verifier, RequireRole(user.RoleAdmin, http.HandlerFunc(handler.CreateMatch))))
	mux.Handle("PATCH /v1/matches/{matchID}", RequireAuth(verifier, RequireRole(user.RoleAdmin, http.HandlerFunc(handler.PatchMatch))))
}

func registerCaptureRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches/{matchID}/sets", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.CreateSet))))
	mux.Handle("PUT /v1/sets/{setID}", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.UpdateSet))))
	mux.Handle("DELETE /v1/sets/{setID}", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.DeleteSet))))
	mux.Handle("POST /v1/sets/{setID}/copy-roster", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.CopySetRoster))))

	mux.Handle("POST /v1/matches/{matchID}/roster", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.AssignRosterEntry))))
	mux.Handle("DELETE /v1/roster/{entryID}", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.RemoveRosterEntry))))

	mux.Handle("POST /v1/matches/{matchID}/stats/sets", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.UpsertSetLine))))
	mux.Handle("PUT /v1/matches/{matchID}/stats/sets", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.UpsertSetLine))))
	mux.Handle("GET /v1/matches/{matchID}/stats/capture-seed", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.GetCaptureSeed))))
	mux.Handle("POST /v1/matches/{matchID}/stats/manual", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.SaveManualLines))))
	mux.Handle("PUT /v1/matches/{matchID}/stats/{kind}/{lineID}", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.UpdateMatchLine))))
	mux.Handle("POST /v1/matches/{matchID}/stats/recalculate", RequireAuth(verifier, RequireRole(user.RoleCapture, http.HandlerFunc(handler.RecalculateAggregates))))
}

func registerEditRequestRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/edit-requests", RequireAuth(verifier, http.HandlerFunc(handler.ListEditRequests)))
	mux.Handle("POST /v1/edit-requests", RequireAuth(verifier, http.HandlerFunc(handler.CreateEditRequest)))
	mux.Handle("GET /v1/edit-requests/options", RequireAuth(verifier, http.HandlerFunc(handler.EditRequestOptions)))
	mux.Handle("GET /v1/edit-requests/pending-count", RequireAuth(verifier, http.HandlerFunc(handler.PendingEditRequestCount)))
	mux.Handle("GET /v1/edit-requests/{requestID}", RequireAuth(verifier, http.HandlerFunc(handler.GetEditRequest)))
	mux.Handle("PUT /v1/edit-requests/{requestID}/approve", RequireAuth(verifier, RequireRole(user.RoleAdmin, http.HandlerFunc(handler.ApproveEditRequest))))
	mux.Handle("PUT /v1/edit-requests/{requestID}/reject", RequireAuth(verifier, RequireRole(user.RoleAdmin, http.HandlerFunc(handler.RejectEditRequest))))
	mux.Handle("PUT /v1/edit-requests/{requestID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelEditRequest)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/recalc/bulk", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBulkRecalc)))
}
