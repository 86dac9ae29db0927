package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin       = "admin"
	RoleContributor = "contributor"
	RoleSeller      = "seller"
	RoleUser        = "user"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrInvalidRole        = errors.New("invalid role")
)

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleContributor, RoleSeller, RoleUser:
		return true
	}
	return false
}

// User models an authenticated actor in the system.
type User struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role"`
	Blocked       bool       `json:"blocked"`
	BlockedReason string     `json:"blocked_reason,omitempty"`
	BlockedAt     *time.Time `json:"blocked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CanManageCatalog reports whether the user may edit deals, stores,
// deal types and coupons from the dashboard.
func (u *User) CanManageCatalog() bool {
	return u.Role == RoleAdmin || u.Role == RoleContributor
}
