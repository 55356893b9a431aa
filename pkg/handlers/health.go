package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/database"
)

// HealthHandler serves the unauthenticated health probe.
type HealthHandler struct {
	db      *database.DB
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *database.DB, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		logger:  logger,
	}
}

// RegisterRoutes registers the health route on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
}

// Health handles GET /health. It pings the database and reports 503
// when the pool is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		writeOrLog(h.logger, WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"version": h.version,
		}))
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	}))
}
