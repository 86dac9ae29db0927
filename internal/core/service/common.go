package service

import (
	"context"
	"fmt"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// maxSlugAttempts bounds the -2, -3, ... suffix search.
const maxSlugAttempts = 100

// uniqueSlug derives a slug from text and appends a numeric suffix until
// taken reports it free. keep is a slug the caller already owns and may reuse.
func uniqueSlug(ctx context.Context, text, keep string, taken func(context.Context, string) (bool, error)) (string, error) {
	base := domain.Slugify(text)
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := domain.SlugCandidate(base, n)
		if candidate == keep {
			return candidate, nil
		}
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", domain.ErrSlugTaken
}

func canManageCatalog(actor ports.Actor) bool {
	return actor.Role == domain.RoleAdmin || actor.Role == domain.RoleContributor
}

// activeUser loads the actor's account and rejects blocked users. Blocking
// takes effect immediately even while the user's token is still valid.
func activeUser(ctx context.Context, users ports.UserRepository, actor ports.Actor) (*domain.User, error) {
	u, err := users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if u.Blocked {
		return nil, domain.ErrUserBlocked
	}
	return u, nil
}
