package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// ReactionRepository stores deal votes and comment likes, one document per
// (kind, target, user) enforced by a unique index.
type ReactionRepository struct {
	col *mongo.Collection
}

func NewReactionRepository(db *mongo.Database) *ReactionRepository {
	return &ReactionRepository{col: db.Collection(collectionReactions)}
}

var _ ports.ReactionRepository = (*ReactionRepository)(nil)

type reactionDoc struct {
	Kind      string    `bson:"kind"`
	TargetID  string    `bson:"target_id"`
	UserID    string    `bson:"user_id"`
	Value     int       `bson:"value"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Put upserts the reaction and returns the value it replaced, 0 if new.
func (r *ReactionRepository) Put(ctx context.Context, rx *domain.Reaction) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	at := rx.CreatedAt.UTC()
	filter := bson.M{"kind": string(rx.Kind), "target_id": rx.TargetID, "user_id": rx.UserID}
	update := bson.M{
		"$set":         bson.M{"value": rx.Value, "updated_at": at},
		"$setOnInsert": bson.M{"created_at": at},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)

	var prev reactionDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&prev)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("put reaction: %w", err)
	}
	return prev.Value, nil
}
