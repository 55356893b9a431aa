package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/auth"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/services"
)

// EntitiesHandler serves the master catalogs (people, projects, tasks)
// and their lifecycle endpoints. One handler covers all three kinds;
// the kind is bound at route registration.
type EntitiesHandler struct {
	entities  services.EntityService
	lifecycle services.LifecycleService
	logger    *zap.Logger
}

// NewEntitiesHandler creates a new master-entity handler.
func NewEntitiesHandler(entities services.EntityService, lifecycle services.LifecycleService, logger *zap.Logger) *EntitiesHandler {
	return &EntitiesHandler{
		entities:  entities,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// RegisterRoutes registers catalog routes for every entity kind.
// Reads are open to all authenticated roles; writes to admin and
// gestor; reactivation to admin only.
func (h *EntitiesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	writers := authMiddleware.RequireRole(models.RoleAdmin, models.RoleGestor)
	admin := authMiddleware.RequireRole(models.RoleAdmin)

	for _, kind := range models.Kinds {
		base := "/api/" + kind.Table()

		mux.HandleFunc("GET "+base, authMiddleware.RequireAuth(h.list(kind)))
		mux.HandleFunc("GET "+base+"/{id}", authMiddleware.RequireAuth(h.get(kind)))
		mux.HandleFunc("POST "+base, writers(h.create(kind)))
		mux.HandleFunc("DELETE "+base+"/{id}", writers(h.delete(kind)))
		mux.HandleFunc("PUT "+base+"/{id}/activate", admin(h.activate(kind)))
	}
}

// list handles GET /api/{kind}. Admins see inactive rows too.
func (h *EntitiesHandler) list(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := auth.GetClaims(r.Context())
		includeInactive := claims != nil && claims.Role == models.RoleAdmin

		entities, err := h.entities.List(r.Context(), kind, includeInactive)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
		if entities == nil {
			entities = []*models.MasterEntity{}
		}

		writeOrLog(h.logger, WriteJSON(w, http.StatusOK, entities))
	}
}

// get handles GET /api/{kind}/{id}.
func (h *EntitiesHandler) get(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, h.logger)
		if !ok {
			return
		}

		entity, err := h.entities.Get(r.Context(), kind, id)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}

		writeOrLog(h.logger, WriteJSON(w, http.StatusOK, entity))
	}
}

type createEntityRequest struct {
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	Description *string `json:"description"`
}

// create handles POST /api/{kind}.
func (h *EntitiesHandler) create(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEntityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
			return
		}

		entity := &models.MasterEntity{
			Name:        req.Name,
			Email:       req.Email,
			Description: req.Description,
		}
		if err := h.entities.Create(r.Context(), kind, entity); err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}

		writeOrLog(h.logger, WriteJSON(w, http.StatusCreated, entity))
	}
}

// delete handles DELETE /api/{kind}/{id}?cascade={true|false}. Without
// cascade the request is rejected while active work records still
// reference the entity.
func (h *EntitiesHandler) delete(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, h.logger)
		if !ok {
			return
		}
		cascade := r.URL.Query().Get("cascade") == "true"

		result, err := h.lifecycle.Deactivate(r.Context(), kind, id, cascade)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}

		writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message":        fmt.Sprintf("%s deleted", kind.Label()),
			"recordsDeleted": result.RecordsDeactivated,
		}))
	}
}

// activate handles PUT /api/{kind}/{id}/activate.
func (h *EntitiesHandler) activate(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, h.logger)
		if !ok {
			return
		}

		result, err := h.lifecycle.Reactivate(r.Context(), kind, id)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}

		writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message":             fmt.Sprintf("%s reactivated", kind.Label()),
			"recordsReactivated":  result.Reactivated,
			"totalRecordsChecked": result.TotalChecked,
		}))
	}
}

// pathID parses the {id} path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeOrLog(logger, ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid id"))
		return 0, false
	}
	return id, true
}
