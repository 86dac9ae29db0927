package ports

import (
	"context"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// UserFilter narrows user listings and exports.
type UserFilter struct {
	Search  string // partial match on username or email
	Role    string
	Blocked *bool
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Find(ctx context.Context, filter UserFilter, sort domain.Sort, page domain.Page) ([]*domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	// SetBlocked toggles the block state. at is nil when unblocking.
	SetBlocked(ctx context.Context, id string, blocked bool, reason string, at *time.Time) error
	SetRole(ctx context.Context, id, role string) error
}

// UserSortFields are the API-level sort keys accepted for users.
var UserSortFields = []string{"createdAt", "username", "email", "role"}
