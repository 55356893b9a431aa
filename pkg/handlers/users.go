package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/auth"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/services"
)

// UsersHandler serves the admin account CRUD endpoints.
type UsersHandler struct {
	users  services.UserService
	logger *zap.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(users services.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		users:  users,
		logger: logger,
	}
}

// RegisterRoutes registers user admin routes. All of them require the
// admin role.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	admin := authMiddleware.RequireRole(models.RoleAdmin)

	mux.HandleFunc("GET /api/users", admin(h.List))
	mux.HandleFunc("POST /api/users", admin(h.Create))
	mux.HandleFunc("GET /api/users/{id}", admin(h.Get))
	mux.HandleFunc("PUT /api/users/{id}", admin(h.Update))
	mux.HandleFunc("DELETE /api/users/{id}", admin(h.Delete))
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, users))
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, user))
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"))
		return
	}
	callerID, err := claims.UserID()
	if err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid token subject"))
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
		return
	}
	if req.Email == "" || req.Role == "" {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email and role are required"))
		return
	}

	user, err := h.users.Create(r.Context(), services.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, callerID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusCreated, user))
}

type updateUserRequest struct {
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

// Update handles PUT /api/users/{id}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
		return
	}

	user, err := h.users.Update(r.Context(), id, services.UpdateUserInput{
		Email:  req.Email,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, user))
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"))
		return
	}
	callerID, err := claims.UserID()
	if err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid token subject"))
		return
	}

	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id, callerID); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]string{
		"message": "user deleted",
	}))
}
