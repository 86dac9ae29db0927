package ports

import (
	"context"

	"github.com/dealspot/dealspot/internal/core/domain"
)

var SubscriberSortFields = []string{"email", "subscribedAt"}

type SubscriberFilter struct {
	Search string
	Active *bool
}

type SubscriberRepository interface {
	Create(ctx context.Context, s *domain.Subscriber) error
	Update(ctx context.Context, s *domain.Subscriber) error
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	Find(ctx context.Context, filter SubscriberFilter, sort domain.Sort, page domain.Page) ([]*domain.Subscriber, error)
	Count(ctx context.Context, filter SubscriberFilter) (int64, error)
}

type SubscriberService interface {
	Subscribe(ctx context.Context, email string) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}
