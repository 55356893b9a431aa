package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/auth"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/services"
)

// AuthHandler serves login and password management endpoints.
type AuthHandler struct {
	users  services.UserService
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger,
	}
}

// RegisterRoutes registers auth routes on the given mux. Login, the
// first-login password change and reset are unauthenticated by nature.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/change-password-first-login", h.ChangePasswordFirstLogin)
	mux.HandleFunc("POST /api/auth/reset-password", h.ResetPassword)
	mux.HandleFunc("POST /api/auth/change-password", authMiddleware.RequireAuth(h.ChangePassword))
	mux.HandleFunc("GET /api/auth/verify", authMiddleware.RequireAuth(h.Verify))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email and password are required"))
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, result))
}

type firstLoginRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePasswordFirstLogin handles POST /api/auth/change-password-first-login.
func (h *AuthHandler) ChangePasswordFirstLogin(w http.ResponseWriter, r *http.Request) {
	var req firstLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
		return
	}
	if req.Email == "" || req.CurrentPassword == "" || req.NewPassword == "" {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email, current and new password are required"))
		return
	}

	result, err := h.users.ChangePasswordFirstLogin(r.Context(), req.Email, req.CurrentPassword, req.NewPassword)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, result))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"))
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid token subject"))
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Current and new password are required"))
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]string{
		"message": "password updated",
	}))
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPassword handles POST /api/auth/reset-password. The response is
// the same whether or not the email exists.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
		return
	}
	if req.Email == "" {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email is required"))
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Email); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]string{
		"message": "if the account exists, a new temporary password has been sent",
	}))
}

// Verify handles GET /api/auth/verify, echoing the token's principal.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"))
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":    claims.Subject,
		"email": claims.Email,
		"role":  claims.Role,
	}))
}
