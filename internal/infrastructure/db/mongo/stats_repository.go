package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// StatsRepository runs the dashboard aggregations across collections.
type StatsRepository struct {
	db *mongo.Database
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

var _ ports.StatsRepository = (*StatsRepository)(nil)

func (r *StatsRepository) Totals(ctx context.Context) (domain.StatsTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.StatsTotals
	targets := []struct {
		coll string
		dst  *int64
	}{
		{collectionDeals, &t.Deals},
		{collectionStores, &t.Stores},
		{collectionUsers, &t.Users},
		{collectionComments, &t.Comments},
		{collectionSubscribers, &t.Subscribers},
	}
	for _, target := range targets {
		n, err := r.db.Collection(target.coll).EstimatedDocumentCount(ctx)
		if err != nil {
			return t, fmt.Errorf("count %s: %w", target.coll, err)
		}
		*target.dst = n
	}
	return t, nil
}

func (r *StatsRepository) DealsByStatus(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := r.aggregate(ctx, collectionDeals, pipeline, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// TopStores ranks stores by number of deals. Store ids are kept as hex
// strings on deals, hence the $toObjectId before the lookup.
func (r *StatsRepository) TopStores(ctx context.Context, limit int) ([]domain.StoreStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"store_id": bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$store_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$addFields", Value: bson.M{"oid": bson.M{"$toObjectId": "$_id"}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionStores,
			"localField":   "oid",
			"foreignField": "_id",
			"as":           "store",
		}}},
		{{Key: "$project", Value: bson.M{
			"count": 1,
			"name":  bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$store.name", 0}}, ""}},
		}}},
	}

	var rows []struct {
		StoreID string `bson:"_id"`
		Name    string `bson:"name"`
		Count   int    `bson:"count"`
	}
	if err := r.aggregate(ctx, collectionDeals, pipeline, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.StoreStat, len(rows))
	for i, row := range rows {
		out[i] = domain.StoreStat{StoreID: row.StoreID, Name: row.Name, DealCount: row.Count}
	}
	return out, nil
}

func (r *StatsRepository) TopDeals(ctx context.Context, limit int) ([]domain.DealStat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "click_count", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"title": 1, "slug": 1, "click_count": 1, "view_count": 1})

	deals, err := findAll(ctx, r.db.Collection(collectionDeals), bson.M{}, opts, (*dealDoc).toDomain)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DealStat, len(deals))
	for i, d := range deals {
		out[i] = domain.DealStat{DealID: d.ID, Title: d.Title, Slug: d.Slug, Clicks: d.ClickCount, Views: d.ViewCount}
	}
	return out, nil
}

func (r *StatsRepository) DailyNewDeals(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": since.UTC()}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	var rows []struct {
		Day   string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := r.aggregate(ctx, collectionDeals, pipeline, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.DailyCount, len(rows))
	for i, row := range rows {
		out[i] = domain.DailyCount{Day: row.Day, Count: row.Count}
	}
	return out, nil
}

func (r *StatsRepository) aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", coll, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s aggregation: %w", coll, err)
	}
	return nil
}
