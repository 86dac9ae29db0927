package ports

import (
	"context"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// Actor is the authenticated caller as described by its token claims.
type Actor struct {
	UserID   string
	Username string
	Role     string
}

// RegisterInput carries self-service sign-up data.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // "user" or "seller"
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// UserService covers admin user management.
type UserService interface {
	List(ctx context.Context, filter UserFilter, page, limit int) ([]*domain.User, int64, error)
	Block(ctx context.Context, actor Actor, id, reason string) error
	Unblock(ctx context.Context, actor Actor, id string) error
	SetRole(ctx context.Context, actor Actor, id, role string) error
}
