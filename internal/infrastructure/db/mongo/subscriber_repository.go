package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

type SubscriberRepository struct {
	col *mongo.Collection
}

func NewSubscriberRepository(db *mongo.Database) *SubscriberRepository {
	return &SubscriberRepository{col: db.Collection(collectionSubscribers)}
}

var _ ports.SubscriberRepository = (*SubscriberRepository)(nil)

type subscriberDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	Active         bool               `bson:"active"`
	SubscribedAt   time.Time          `bson:"subscribed_at"`
	UnsubscribedAt *time.Time         `bson:"unsubscribed_at"`
}

func (doc *subscriberDoc) toDomain() *domain.Subscriber {
	return &domain.Subscriber{
		ID:             doc.ID.Hex(),
		Email:          doc.Email,
		Active:         doc.Active,
		SubscribedAt:   doc.SubscribedAt,
		UnsubscribedAt: doc.UnsubscribedAt,
	}
}

func (r *SubscriberRepository) Create(ctx context.Context, s *domain.Subscriber) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, subscriberDoc{
		Email:        s.Email,
		Active:       s.Active,
		SubscribedAt: s.SubscribedAt.UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSubscriberExists
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	s.ID = insertedHex(res)
	return nil
}

func (r *SubscriberRepository) Update(ctx context.Context, s *domain.Subscriber) error {
	return updateByID(ctx, r.col, s.ID, bson.M{"$set": bson.M{
		"active":          s.Active,
		"subscribed_at":   s.SubscribedAt.UTC(),
		"unsubscribed_at": utcPtr(s.UnsubscribedAt),
	}}, domain.ErrSubscriberMissing)
}

func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var doc subscriberDoc
	if err := findOne(ctx, r.col, bson.M{"email": email}, &doc, domain.ErrSubscriberMissing); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *SubscriberRepository) Find(ctx context.Context, filter ports.SubscriberFilter, sort domain.Sort, page domain.Page) ([]*domain.Subscriber, error) {
	return findAll(ctx, r.col, subscriberFilter(filter), findOptions(sort, subscriberSortFields, page), (*subscriberDoc).toDomain)
}

func (r *SubscriberRepository) Count(ctx context.Context, filter ports.SubscriberFilter) (int64, error) {
	return count(ctx, r.col, subscriberFilter(filter))
}
