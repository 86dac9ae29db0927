package ports

import (
	"context"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// ActivityRepository handles counter updates and the activity audit trail.
type ActivityRepository interface {
	// IncrementCounter bumps the deal counter matching kind by one.
	IncrementCounter(ctx context.Context, dealID string, kind domain.ActivityKind) error
	// InsertEvent persists an event to the deal_activity audit collection.
	InsertEvent(ctx context.Context, event *domain.ActivityEvent) error
}

// ActivityInput is the DTO passed from the transport layer to ActivityService.
type ActivityInput struct {
	DealID    string
	Kind      string
	VisitorID string
	Timestamp time.Time
	Referrer  string
}

// ActivityService processes view and click events.
type ActivityService interface {
	Process(ctx context.Context, in ActivityInput) error
}
