// Package handlers contains the HTTP layer: request decoding, error
// mapping and response shapes. Business rules live in services.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps a service error to its HTTP status and body.
// Unexpected errors are logged in full and surfaced as a generic 500.
func WriteServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		inUse      *apperrors.EntityInUseError
		dupName    *apperrors.DuplicateNameError
		validation *apperrors.ValidationError
	)

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeOrLog(logger, ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found"))

	case errors.Is(err, apperrors.ErrAlreadyActive):
		writeOrLog(logger, ErrorResponse(w, http.StatusBadRequest, "already_active", "Resource is already active"))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		writeOrLog(logger, ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password"))

	case errors.Is(err, apperrors.ErrUserExists):
		writeOrLog(logger, ErrorResponse(w, http.StatusConflict, "user_exists", "A user with this email already exists"))

	case errors.Is(err, apperrors.ErrInvalidRole):
		writeOrLog(logger, ErrorResponse(w, http.StatusBadRequest, "invalid_role", "Unknown role"))

	case errors.As(err, &inUse):
		writeOrLog(logger, WriteJSON(w, http.StatusConflict, map[string]interface{}{
			"error":           "entity_in_use",
			"count":           inUse.Count,
			"requiresCascade": true,
		}))

	case errors.As(err, &dupName):
		writeOrLog(logger, WriteJSON(w, http.StatusConflict, map[string]interface{}{
			"error": "duplicate_name",
			"id":    dupName.ID,
			"name":  dupName.Name,
		}))

	case errors.As(err, &validation):
		writeOrLog(logger, ErrorResponse(w, http.StatusBadRequest, "validation_error", validation.Message))

	default:
		logger.Error("Unhandled service error", zap.Error(err))
		writeOrLog(logger, ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error"))
	}
}

func writeOrLog(logger *zap.Logger, err error) {
	if err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
