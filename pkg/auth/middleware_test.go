package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
)

func authedRequest(t *testing.T, svc TokenService, role string) *http.Request {
	t.Helper()
	token, err := svc.Issue(&models.User{ID: 1, Email: "ana@example.com", Role: role})
	require.NoError(t, err)
	r := httptest.NewRequest("GET", "/api/records", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	m := NewMiddleware(tokens, zap.NewNop())

	called := false
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/api/records", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestRequireAuthSetsClaims(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	m := NewMiddleware(tokens, zap.NewNop())

	var got *Claims
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	})

	w := httptest.NewRecorder()
	handler(w, authedRequest(t, tokens, models.RoleGestor))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "ana@example.com", got.Email)
}

func TestRequireRole(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	m := NewMiddleware(tokens, zap.NewNop())

	admin := m.RequireRole(models.RoleAdmin)
	handler := admin(func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	handler(w, authedRequest(t, tokens, models.RoleVisor))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	handler(w, authedRequest(t, tokens, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleMultipleRoles(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	m := NewMiddleware(tokens, zap.NewNop())

	writers := m.RequireRole(models.RoleAdmin, models.RoleGestor)
	handler := writers(func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	handler(w, authedRequest(t, tokens, models.RoleGestor))
	assert.Equal(t, http.StatusOK, w.Code)
}
