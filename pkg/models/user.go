package models

import "time"

// Role names, matching the seeded roles table.
const (
	RoleAdmin  = "admin"
	RoleGestor = "gestor"
	RoleVisor  = "visor"
)

// IsValidRole reports whether role is one of the known role names.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleGestor, RoleVisor:
		return true
	}
	return false
}

// User is an account that can authenticate against the API.
// PasswordHash is never serialized.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	RoleID       int64      `json:"role_id"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedBy    *int64     `json:"created_by"`
}

// IsFirstLogin reports whether the account has never completed a login.
// First-login users must change their password before receiving a token.
func (u *User) IsFirstLogin() bool {
	return u.LastLoginAt == nil
}
