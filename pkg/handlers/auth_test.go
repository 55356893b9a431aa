package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/auth"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/services"
)

func TestLoginReturnsToken(t *testing.T) {
	svc := &mockUserService{
		loginResult: &services.LoginResult{
			Token: "abc",
			User:  &models.User{ID: 1, Email: "ana@example.com", Role: models.RoleAdmin},
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	r := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"ana@example.com","password":"Secreta123!"}`))
	w := httptest.NewRecorder()

	h.Login(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["token"] != "abc" {
		t.Errorf("Expected token in response, got %v", body["token"])
	}
}

func TestLoginFirstLoginOmitsToken(t *testing.T) {
	svc := &mockUserService{
		loginResult: &services.LoginResult{
			MustChangePassword: true,
			User:               &models.User{ID: 1, Email: "nueva@example.com"},
		},
	}
	h := NewAuthHandler(svc, zap.NewNop())

	r := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"nueva@example.com","password":"Temporal123!"}`))
	w := httptest.NewRecorder()

	h.Login(w, r)

	body := decodeBody(t, w)
	if body["mustChangePassword"] != true {
		t.Errorf("Expected mustChangePassword true, got %v", body["mustChangePassword"])
	}
	if _, ok := body["token"]; ok {
		t.Error("Expected token to be omitted on first login")
	}
}

func TestLoginInvalidCredentialsReturns401(t *testing.T) {
	svc := &mockUserService{err: apperrors.ErrInvalidCredentials}
	h := NewAuthHandler(svc, zap.NewNop())

	r := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"ana@example.com","password":"mal"}`))
	w := httptest.NewRecorder()

	h.Login(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	h := NewAuthHandler(&mockUserService{}, zap.NewNop())

	r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"email":"ana@example.com"}`))
	w := httptest.NewRecorder()

	h.Login(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestVerifyEchoesPrincipal(t *testing.T) {
	h := NewAuthHandler(&mockUserService{}, zap.NewNop())

	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
		Email:            "ana@example.com",
		Role:             models.RoleGestor,
	}
	r := httptest.NewRequest("GET", "/api/auth/verify", nil)
	r = r.WithContext(auth.SetClaims(r.Context(), claims))
	w := httptest.NewRecorder()

	h.Verify(w, r)

	body := decodeBody(t, w)
	if body["email"] != "ana@example.com" {
		t.Errorf("Expected email in response, got %v", body["email"])
	}
	if body["role"] != models.RoleGestor {
		t.Errorf("Expected role in response, got %v", body["role"])
	}
}

func TestDeleteUserPassesCaller(t *testing.T) {
	svc := &mockUserService{}
	h := NewUsersHandler(svc, zap.NewNop())

	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "7"}, Role: models.RoleAdmin}
	r := httptest.NewRequest("DELETE", "/api/users/3", nil)
	r = r.WithContext(auth.SetClaims(r.Context(), claims))
	r.SetPathValue("id", "3")
	w := httptest.NewRecorder()

	h.Delete(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if svc.lastDeleteID != 3 || svc.lastCallerID != 7 {
		t.Errorf("Expected delete(3) by caller 7, got delete(%d) by %d", svc.lastDeleteID, svc.lastCallerID)
	}
}

func TestCreateUserHandler(t *testing.T) {
	svc := &mockUserService{}
	h := NewUsersHandler(svc, zap.NewNop())

	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}, Role: models.RoleAdmin}
	r := httptest.NewRequest("POST", "/api/users",
		strings.NewReader(`{"email":"nueva@example.com","role":"visor"}`))
	r = r.WithContext(auth.SetClaims(r.Context(), claims))
	w := httptest.NewRecorder()

	h.Create(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastCreate.Role != models.RoleVisor {
		t.Errorf("Expected role visor, got %q", svc.lastCreate.Role)
	}
}
