package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bandsite/pkg/config"
	apperrors "bandsite/pkg/errors"
	httputil "bandsite/pkg/http"
	"bandsite/pkg/logger"
	"bandsite/pkg/store"

	"github.com/julienschmidt/httprouter"
)

const (
	RootMessage  = "3D Musical Band API is running"
	HelloMessage = "Hello from the 3D Musical Band backend!"

	readyTimeout      = 2 * time.Second
	diagnosticTimeout = 5 * time.Second
)

const (
	DatabaseNotAvailable = "not available"
	DatabaseWorking      = "connected and working"
	StatusConnected      = "connected"
	StatusNotConnected   = "not connected"
	ValueSet             = "set"
	ValueNotSet          = "not set"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// DiagnosticsResponse is the body of GET /test. Every field is always present.
type DiagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type SystemHandler struct {
	store store.DocumentStore
	cfg   *config.Config
	log   *logger.Logger
}

func NewSystemHandler(docs store.DocumentStore, cfg *config.Config) *SystemHandler {
	return &SystemHandler{
		store: docs,
		cfg:   cfg,
		log:   cfg.Log,
	}
}

func (h *SystemHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/", h.Root)
	router.GET("/api/hello", h.Hello)
	router.GET("/test", h.Diagnostics)
}

func (h *SystemHandler) RegisterHealthRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *SystemHandler) Root(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteMessage(w, RootMessage)
}

func (h *SystemHandler) Hello(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteMessage(w, HelloMessage)
}

// Diagnostics reports storage configuration and connectivity. It always
// answers 200; failures are described in the body.
func (h *SystemHandler) Diagnostics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := h.baseDiagnostics()

	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("Diagnostics panicked", "panic", rec)
			resp.Database = "error: " + apperrors.Truncate(fmt.Sprint(rec), apperrors.MaxDiagnosticLength)
		}
		httputil.WriteSuccess(w, resp)
	}()

	ctx, cancel := context.WithTimeout(r.Context(), diagnosticTimeout)
	defer cancel()

	diag := h.store.Diagnose(ctx)
	h.log.Debug("Store diagnosed", "state", diag.State, "database", diag.DatabaseName)
	describe(&resp, diag)
}

func (h *SystemHandler) baseDiagnostics() DiagnosticsResponse {
	resp := DiagnosticsResponse{
		Backend:          "running",
		Database:         DatabaseNotAvailable,
		DatabaseURL:      ValueNotSet,
		DatabaseName:     ValueNotSet,
		ConnectionStatus: StatusNotConnected,
		Collections:      []string{},
	}
	if h.cfg.StoreConfigured() {
		resp.DatabaseURL = ValueSet
	}
	if h.cfg.DatabaseNameSet {
		resp.DatabaseName = ValueSet
	}
	return resp
}

func describe(resp *DiagnosticsResponse, diag store.Diagnostics) {
	if diag.State != store.StateConnected {
		if diag.Reason != nil {
			resp.Database = DatabaseNotAvailable + ": " + apperrors.Truncate(diag.Reason.Error(), apperrors.MaxDiagnosticLength)
		}
		return
	}

	resp.ConnectionStatus = StatusConnected
	if diag.Reason != nil {
		resp.Database = "connected but error: " + apperrors.Truncate(diag.Reason.Error(), apperrors.MaxDiagnosticLength)
		return
	}
	resp.Database = DatabaseWorking
	if diag.Collections != nil {
		resp.Collections = diag.Collections
	}
}

func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteSuccess(w, HealthResponse{Status: "ok"})
}

// Ready fails while the store cannot be pinged, so orchestrators can hold
// traffic until MongoDB is reachable.
func (h *SystemHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status, body := http.StatusOK, HealthResponse{Status: "ready", Database: "ok"}
	if err := h.store.Ping(ctx); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		status, body = http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "error"}
	}

	httputil.WriteJSON(w, status, body)
}
