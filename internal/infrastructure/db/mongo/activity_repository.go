package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	db *mongo.Database
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) ports.ActivityRepository {
	return &ActivityRepository{db: db}
}

// IncrementCounter bumps the view or click counter of a deal.
func (r *ActivityRepository) IncrementCounter(ctx context.Context, dealID string, kind domain.ActivityKind) error {
	field, err := kind.CounterField()
	if err != nil {
		return err
	}
	return updateByID(ctx, r.db.Collection(collectionDeals), dealID,
		bson.M{"$inc": bson.M{field: 1}}, domain.ErrDealNotFound)
}

// InsertEvent persists an activity event to the deal_activity audit collection.
func (r *ActivityRepository) InsertEvent(ctx context.Context, event *domain.ActivityEvent) error {
	doc := bson.M{
		"deal_id":      event.DealID,
		"kind":         string(event.Kind),
		"visitor_id":   event.VisitorID,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.Referrer != "" {
		doc["referrer"] = event.Referrer
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Collection(collectionActivity).InsertOne(ctx, doc)
	return err
}
