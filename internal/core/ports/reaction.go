package ports

import (
	"context"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// ReactionRepository stores one reaction per (kind, target, user).
type ReactionRepository interface {
	// Put stores r and returns the previous value, or 0 when none existed.
	Put(ctx context.Context, r *domain.Reaction) (int, error)
}
