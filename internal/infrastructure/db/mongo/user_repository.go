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

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(collectionUsers)}
}

var _ ports.UserRepository = (*MongoUserRepository)(nil)

type mongoUser struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash"`
	Role          string             `bson:"role"`
	Blocked       bool               `bson:"blocked"`
	BlockedReason string             `bson:"blocked_reason,omitempty"`
	BlockedAt     *time.Time         `bson:"blocked_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:            mu.ID.Hex(),
		Username:      mu.Username,
		Email:         mu.Email,
		PasswordHash:  mu.PasswordHash,
		Role:          mu.Role,
		Blocked:       mu.Blocked,
		BlockedReason: mu.BlockedReason,
		BlockedAt:     mu.BlockedAt,
		CreatedAt:     mu.CreatedAt,
		UpdatedAt:     mu.UpdatedAt,
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// fetch back to get ID
	return r.FindByEmail(ctx, user.Email)
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := findOne(ctx, r.coll, bson.M{"email": email}, &mu, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	var mu mongoUser
	if err := findOne(ctx, r.coll, bson.M{"_id": oid}, &mu, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) Find(ctx context.Context, filter ports.UserFilter, sort domain.Sort, page domain.Page) ([]*domain.User, error) {
	return findAll(ctx, r.coll, userFilter(filter), findOptions(sort, userSortFields, page), (*mongoUser).toDomain)
}

func (r *MongoUserRepository) Count(ctx context.Context, filter ports.UserFilter) (int64, error) {
	return count(ctx, r.coll, userFilter(filter))
}

func (r *MongoUserRepository) SetBlocked(ctx context.Context, id string, blocked bool, reason string, at *time.Time) error {
	now := time.Now().UTC()
	var update bson.M
	if blocked {
		update = bson.M{"$set": bson.M{
			"blocked":        true,
			"blocked_reason": reason,
			"blocked_at":     utcPtr(at),
			"updated_at":     now,
		}}
	} else {
		update = bson.M{
			"$set":   bson.M{"blocked": false, "updated_at": now},
			"$unset": bson.M{"blocked_reason": "", "blocked_at": ""},
		}
	}
	return updateByID(ctx, r.coll, id, update, domain.ErrUserNotFound)
}

func (r *MongoUserRepository) SetRole(ctx context.Context, id, role string) error {
	return updateByID(ctx, r.coll, id, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}}, domain.ErrUserNotFound)
}
