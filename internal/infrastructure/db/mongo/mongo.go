package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Collection names.
const (
	collectionDeals       = "deals"
	collectionStores      = "stores"
	collectionDealTypes   = "deal_types"
	collectionCoupons     = "coupons"
	collectionUserStores  = "user_stores"
	collectionUsers       = "users"
	collectionComments    = "comments"
	collectionReactions   = "reactions"
	collectionSubscribers = "subscribers"
	collectionSettings    = "settings"
	collectionActivity    = "deal_activity"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes of every collection the service uses.
// It is safe to run repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		collectionDeals: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "store_id", Value: 1}}},
			{Keys: bson.D{{Key: "deal_type_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_store_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expires_at", Value: 1}}},
			{Keys: bson.D{{Key: "click_count", Value: -1}}},
		},
		collectionStores:    {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		collectionDealTypes: {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		collectionCoupons:   {{Keys: bson.D{{Key: "store_id", Value: 1}}}},
		collectionUserStores: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		collectionComments: {
			{Keys: bson.D{{Key: "deal_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
		},
		collectionReactions: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "target_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
		},
		collectionSubscribers: {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		collectionActivity: {
			{Keys: bson.D{{Key: "deal_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// objectID parses a hex id. Malformed ids are reported as notFound, since no
// document can carry them.
func objectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

// findOne decodes a single document into out, mapping a miss to notFound.
func findOne(ctx context.Context, coll *mongo.Collection, filter any, out any, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := coll.FindOne(ctx, filter).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return notFound
		}
		return fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return nil
}

// findAll runs a query and decodes every document, converting each with conv.
func findAll[D any, T any](ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptions, conv func(*D) *T) ([]*T, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := make([]*T, 0)
	for cur.Next(ctx) {
		var doc D
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
		}
		out = append(out, conv(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", coll.Name(), err)
	}
	return out, nil
}

// exists reports whether any document matches filter.
func exists(ctx context.Context, coll *mongo.Collection, filter any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return n > 0, nil
}

func count(ctx context.Context, coll *mongo.Collection, filter any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return n, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string, notFound error) error {
	oid, err := objectID(id, notFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

// updateByID applies update to the document with the given id.
func updateByID(ctx context.Context, coll *mongo.Collection, id string, update any, notFound error) error {
	oid, err := objectID(id, notFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errDuplicate
		}
		return fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

// errDuplicate is translated by each repository into its own conflict error.
var errDuplicate = errors.New("duplicate key")
