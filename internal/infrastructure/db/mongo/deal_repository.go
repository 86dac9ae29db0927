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

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// DealRepository implements ports.DealRepository using MongoDB.
type DealRepository struct {
	col *mongo.Collection
}

func NewDealRepository(db *mongo.Database) *DealRepository {
	return &DealRepository{col: db.Collection(collectionDeals)}
}

var _ ports.DealRepository = (*DealRepository)(nil)

type dealDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Slug            string             `bson:"slug"`
	Description     string             `bson:"description"`
	Price           float64            `bson:"price"`
	OriginalPrice   float64            `bson:"original_price"`
	DiscountPercent int                `bson:"discount_percent"`
	Currency        string             `bson:"currency"`
	URL             string             `bson:"url"`
	OriginalURL     string             `bson:"original_url"`
	ImageURL        string             `bson:"image_url,omitempty"`
	CouponCode      string             `bson:"coupon_code,omitempty"`
	DealTypeID      string             `bson:"deal_type_id,omitempty"`
	StoreID         string             `bson:"store_id,omitempty"`
	UserStoreID     string             `bson:"user_store_id,omitempty"`
	CouponID        string             `bson:"coupon_id,omitempty"`
	AuthorID        string             `bson:"author_id"`
	Featured        bool               `bson:"featured"`
	Exclusive       bool               `bson:"exclusive"`
	FreeShipping    bool               `bson:"free_shipping"`
	Status          string             `bson:"status"`
	NeverExpires    bool               `bson:"never_expires"`
	ExpiresAt       *time.Time         `bson:"expires_at"`
	LikeCount       int64              `bson:"like_count"`
	DislikeCount    int64              `bson:"dislike_count"`
	Score           int64              `bson:"score"`
	CommentCount    int64              `bson:"comment_count"`
	ViewCount       int64              `bson:"view_count"`
	ClickCount      int64              `bson:"click_count"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toDealDoc(d *domain.Deal) dealDoc {
	return dealDoc{
		Title:           d.Title,
		Slug:            d.Slug,
		Description:     d.Description,
		Price:           d.Price,
		OriginalPrice:   d.OriginalPrice,
		DiscountPercent: d.DiscountPercent,
		Currency:        d.Currency,
		URL:             d.URL,
		OriginalURL:     d.OriginalURL,
		ImageURL:        d.ImageURL,
		CouponCode:      d.CouponCode,
		DealTypeID:      d.DealTypeID,
		StoreID:         d.StoreID,
		UserStoreID:     d.UserStoreID,
		CouponID:        d.CouponID,
		AuthorID:        d.AuthorID,
		Featured:        d.Featured,
		Exclusive:       d.Exclusive,
		FreeShipping:    d.FreeShipping,
		Status:          string(d.Status),
		NeverExpires:    d.NeverExpires,
		ExpiresAt:       utcPtr(d.ExpiresAt),
		LikeCount:       d.LikeCount,
		DislikeCount:    d.DislikeCount,
		Score:           d.Score(),
		CommentCount:    d.CommentCount,
		ViewCount:       d.ViewCount,
		ClickCount:      d.ClickCount,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

func (doc *dealDoc) toDomain() *domain.Deal {
	return &domain.Deal{
		ID:              doc.ID.Hex(),
		Title:           doc.Title,
		Slug:            doc.Slug,
		Description:     doc.Description,
		Price:           doc.Price,
		OriginalPrice:   doc.OriginalPrice,
		DiscountPercent: doc.DiscountPercent,
		Currency:        doc.Currency,
		URL:             doc.URL,
		OriginalURL:     doc.OriginalURL,
		ImageURL:        doc.ImageURL,
		CouponCode:      doc.CouponCode,
		DealTypeID:      doc.DealTypeID,
		StoreID:         doc.StoreID,
		UserStoreID:     doc.UserStoreID,
		CouponID:        doc.CouponID,
		AuthorID:        doc.AuthorID,
		Featured:        doc.Featured,
		Exclusive:       doc.Exclusive,
		FreeShipping:    doc.FreeShipping,
		Status:          domain.DealStatus(doc.Status),
		NeverExpires:    doc.NeverExpires,
		ExpiresAt:       doc.ExpiresAt,
		LikeCount:       doc.LikeCount,
		DislikeCount:    doc.DislikeCount,
		CommentCount:    doc.CommentCount,
		ViewCount:       doc.ViewCount,
		ClickCount:      doc.ClickCount,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Create inserts a new deal and sets its ID.
func (r *DealRepository) Create(ctx context.Context, d *domain.Deal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toDealDoc(d))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert deal: %w", err)
	}
	d.ID = insertedHex(res)
	return nil
}

// Update rewrites the editable fields. Counters are left alone so concurrent
// votes and clicks are not lost.
func (r *DealRepository) Update(ctx context.Context, d *domain.Deal) error {
	set := bson.M{
		"title":            d.Title,
		"slug":             d.Slug,
		"description":      d.Description,
		"price":            d.Price,
		"original_price":   d.OriginalPrice,
		"discount_percent": d.DiscountPercent,
		"currency":         d.Currency,
		"url":              d.URL,
		"original_url":     d.OriginalURL,
		"image_url":        d.ImageURL,
		"coupon_code":      d.CouponCode,
		"deal_type_id":     d.DealTypeID,
		"store_id":         d.StoreID,
		"coupon_id":        d.CouponID,
		"featured":         d.Featured,
		"exclusive":        d.Exclusive,
		"free_shipping":    d.FreeShipping,
		"status":           string(d.Status),
		"never_expires":    d.NeverExpires,
		"expires_at":       utcPtr(d.ExpiresAt),
		"updated_at":       d.UpdatedAt.UTC(),
	}

	err := updateByID(ctx, r.col, d.ID, bson.M{"$set": set}, domain.ErrDealNotFound)
	if errors.Is(err, errDuplicate) {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *DealRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrDealNotFound)
}

func (r *DealRepository) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	oid, err := objectID(id, domain.ErrDealNotFound)
	if err != nil {
		return nil, err
	}
	var doc dealDoc
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &doc, domain.ErrDealNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *DealRepository) FindBySlug(ctx context.Context, slug string) (*domain.Deal, error) {
	var doc dealDoc
	if err := findOne(ctx, r.col, bson.M{"slug": slug}, &doc, domain.ErrDealNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *DealRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.col, bson.M{"slug": slug})
}

// Find returns the deals matching filter in sort order within page. The
// caller's context bounds the query so long exports are not cut short.
func (r *DealRepository) Find(ctx context.Context, filter ports.DealFilter, sort domain.Sort, page domain.Page) ([]*domain.Deal, error) {
	opts := findOptions(sort, dealSortFields, page)
	return findAll(ctx, r.col, dealFilter(filter), opts, (*dealDoc).toDomain)
}

func (r *DealRepository) Count(ctx context.Context, filter ports.DealFilter) (int64, error) {
	return count(ctx, r.col, dealFilter(filter))
}

// AdjustVotes applies like/dislike deltas atomically and keeps score in step.
func (r *DealRepository) AdjustVotes(ctx context.Context, id string, likes, dislikes int64) (*domain.Deal, error) {
	oid, err := objectID(id, domain.ErrDealNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$inc": bson.M{
		"like_count":    likes,
		"dislike_count": dislikes,
		"score":         likes - dislikes,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc dealDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDealNotFound
		}
		return nil, fmt.Errorf("adjust votes: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DealRepository) AdjustCommentCount(ctx context.Context, id string, by int64) error {
	return updateByID(ctx, r.col, id, bson.M{"$inc": bson.M{"comment_count": by}}, domain.ErrDealNotFound)
}

// ExpirePast flips published deals whose expiry is not after now to expired.
func (r *DealRepository) ExpirePast(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"status":        string(domain.DealPublished),
		"never_expires": bson.M{"$ne": true},
		"expires_at":    bson.M{"$ne": nil, "$lte": now.UTC()},
	}
	update := bson.M{"$set": bson.M{
		"status":     string(domain.DealExpired),
		"updated_at": now.UTC(),
	}}

	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("expire deals: %w", err)
	}
	return res.ModifiedCount, nil
}
