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

// --- stores ---

type StoreRepository struct {
	col *mongo.Collection
}

func NewStoreRepository(db *mongo.Database) *StoreRepository {
	return &StoreRepository{col: db.Collection(collectionStores)}
}

var _ ports.StoreRepository = (*StoreRepository)(nil)

type storeDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Website     string             `bson:"website,omitempty"`
	LogoURL     string             `bson:"logo_url,omitempty"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (doc *storeDoc) toDomain() *domain.Store {
	return &domain.Store{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Slug:        doc.Slug,
		Website:     doc.Website,
		LogoURL:     doc.LogoURL,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (r *StoreRepository) Create(ctx context.Context, s *domain.Store) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, storeDoc{
		Name:        s.Name,
		Slug:        s.Slug,
		Website:     s.Website,
		LogoURL:     s.LogoURL,
		Description: s.Description,
		CreatedAt:   s.CreatedAt.UTC(),
		UpdatedAt:   s.UpdatedAt.UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert store: %w", err)
	}
	s.ID = insertedHex(res)
	return nil
}

func (r *StoreRepository) Update(ctx context.Context, s *domain.Store) error {
	err := updateByID(ctx, r.col, s.ID, bson.M{"$set": bson.M{
		"name":        s.Name,
		"slug":        s.Slug,
		"website":     s.Website,
		"logo_url":    s.LogoURL,
		"description": s.Description,
		"updated_at":  s.UpdatedAt.UTC(),
	}}, domain.ErrStoreNotFound)
	if errors.Is(err, errDuplicate) {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrStoreNotFound)
}

func (r *StoreRepository) FindByID(ctx context.Context, id string) (*domain.Store, error) {
	oid, err := objectID(id, domain.ErrStoreNotFound)
	if err != nil {
		return nil, err
	}
	var doc storeDoc
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &doc, domain.ErrStoreNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *StoreRepository) FindBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	var doc storeDoc
	if err := findOne(ctx, r.col, bson.M{"slug": slug}, &doc, domain.ErrStoreNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *StoreRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.col, bson.M{"slug": slug})
}

func (r *StoreRepository) Find(ctx context.Context, filter ports.StoreFilter, sort domain.Sort, page domain.Page) ([]*domain.Store, error) {
	return findAll(ctx, r.col, storeFilter(filter), findOptions(sort, storeSortFields, page), (*storeDoc).toDomain)
}

func (r *StoreRepository) Count(ctx context.Context, filter ports.StoreFilter) (int64, error) {
	return count(ctx, r.col, storeFilter(filter))
}

// --- deal types ---

type DealTypeRepository struct {
	col *mongo.Collection
}

func NewDealTypeRepository(db *mongo.Database) *DealTypeRepository {
	return &DealTypeRepository{col: db.Collection(collectionDealTypes)}
}

var _ ports.DealTypeRepository = (*DealTypeRepository)(nil)

type dealTypeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (doc *dealTypeDoc) toDomain() *domain.DealType {
	return &domain.DealType{ID: doc.ID.Hex(), Name: doc.Name, Slug: doc.Slug, CreatedAt: doc.CreatedAt}
}

func (r *DealTypeRepository) Create(ctx context.Context, t *domain.DealType) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, dealTypeDoc{Name: t.Name, Slug: t.Slug, CreatedAt: t.CreatedAt.UTC()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert deal type: %w", err)
	}
	t.ID = insertedHex(res)
	return nil
}

func (r *DealTypeRepository) Update(ctx context.Context, t *domain.DealType) error {
	err := updateByID(ctx, r.col, t.ID, bson.M{"$set": bson.M{"name": t.Name, "slug": t.Slug}}, domain.ErrDealTypeNotFound)
	if errors.Is(err, errDuplicate) {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *DealTypeRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrDealTypeNotFound)
}

func (r *DealTypeRepository) FindByID(ctx context.Context, id string) (*domain.DealType, error) {
	oid, err := objectID(id, domain.ErrDealTypeNotFound)
	if err != nil {
		return nil, err
	}
	var doc dealTypeDoc
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &doc, domain.ErrDealTypeNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *DealTypeRepository) FindBySlug(ctx context.Context, slug string) (*domain.DealType, error) {
	var doc dealTypeDoc
	if err := findOne(ctx, r.col, bson.M{"slug": slug}, &doc, domain.ErrDealTypeNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *DealTypeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.col, bson.M{"slug": slug})
}

// All returns every deal type ordered by name.
func (r *DealTypeRepository) All(ctx context.Context) ([]*domain.DealType, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll(ctx, r.col, bson.M{}, opts, (*dealTypeDoc).toDomain)
}

// --- coupons ---

type CouponRepository struct {
	col *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{col: db.Collection(collectionCoupons)}
}

var _ ports.CouponRepository = (*CouponRepository)(nil)

type couponDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Code        string             `bson:"code"`
	StoreID     string             `bson:"store_id"`
	Description string             `bson:"description,omitempty"`
	ExpiresAt   *time.Time         `bson:"expires_at"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (doc *couponDoc) toDomain() *domain.Coupon {
	return &domain.Coupon{
		ID:          doc.ID.Hex(),
		Code:        doc.Code,
		StoreID:     doc.StoreID,
		Description: doc.Description,
		ExpiresAt:   doc.ExpiresAt,
		CreatedAt:   doc.CreatedAt,
	}
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, couponDoc{
		Code:        c.Code,
		StoreID:     c.StoreID,
		Description: c.Description,
		ExpiresAt:   utcPtr(c.ExpiresAt),
		CreatedAt:   c.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	c.ID = insertedHex(res)
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, c *domain.Coupon) error {
	return updateByID(ctx, r.col, c.ID, bson.M{"$set": bson.M{
		"code":        c.Code,
		"store_id":    c.StoreID,
		"description": c.Description,
		"expires_at":  utcPtr(c.ExpiresAt),
	}}, domain.ErrCouponNotFound)
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrCouponNotFound)
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*domain.Coupon, error) {
	oid, err := objectID(id, domain.ErrCouponNotFound)
	if err != nil {
		return nil, err
	}
	var doc couponDoc
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &doc, domain.ErrCouponNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CouponRepository) ListByStore(ctx context.Context, storeID string) ([]*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if storeID != "" {
		filter["store_id"] = storeID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll(ctx, r.col, filter, opts, (*couponDoc).toDomain)
}

// --- user stores ---

type UserStoreRepository struct {
	col *mongo.Collection
}

func NewUserStoreRepository(db *mongo.Database) *UserStoreRepository {
	return &UserStoreRepository{col: db.Collection(collectionUserStores)}
}

var _ ports.UserStoreRepository = (*UserStoreRepository)(nil)

type userStoreDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description,omitempty"`
	Approved    bool               `bson:"approved"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (doc *userStoreDoc) toDomain() *domain.UserStore {
	return &domain.UserStore{
		ID:          doc.ID.Hex(),
		OwnerID:     doc.OwnerID,
		Name:        doc.Name,
		Slug:        doc.Slug,
		Description: doc.Description,
		Approved:    doc.Approved,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// Create inserts a storefront. The unique owner index turns a second store
// for the same seller into domain.ErrUserStoreExists.
func (r *UserStoreRepository) Create(ctx context.Context, s *domain.UserStore) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, userStoreDoc{
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Approved:    s.Approved,
		CreatedAt:   s.CreatedAt.UTC(),
		UpdatedAt:   s.UpdatedAt.UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserStoreExists
		}
		return fmt.Errorf("insert user store: %w", err)
	}
	s.ID = insertedHex(res)
	return nil
}

func (r *UserStoreRepository) Update(ctx context.Context, s *domain.UserStore) error {
	err := updateByID(ctx, r.col, s.ID, bson.M{"$set": bson.M{
		"name":        s.Name,
		"slug":        s.Slug,
		"description": s.Description,
		"approved":    s.Approved,
		"updated_at":  s.UpdatedAt.UTC(),
	}}, domain.ErrUserStoreNotFound)
	if errors.Is(err, errDuplicate) {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *UserStoreRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.UserStore, error) {
	var doc userStoreDoc
	if err := findOne(ctx, r.col, bson.M{"owner_id": ownerID}, &doc, domain.ErrUserStoreNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserStoreRepository) FindByID(ctx context.Context, id string) (*domain.UserStore, error) {
	oid, err := objectID(id, domain.ErrUserStoreNotFound)
	if err != nil {
		return nil, err
	}
	var doc userStoreDoc
	if err := findOne(ctx, r.col, bson.M{"_id": oid}, &doc, domain.ErrUserStoreNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserStoreRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.col, bson.M{"slug": slug})
}

// Find lists storefronts oldest first, so the review queue is worked in
// arrival order.
func (r *UserStoreRepository) Find(ctx context.Context, filter ports.UserStoreFilter, page domain.Page) ([]*domain.UserStore, error) {
	opts := findOptions(domain.Sort{Field: "createdAt"}, userStoreSortFields, page)
	return findAll(ctx, r.col, userStoreFilter(filter), opts, (*userStoreDoc).toDomain)
}

func (r *UserStoreRepository) Count(ctx context.Context, filter ports.UserStoreFilter) (int64, error) {
	return count(ctx, r.col, userStoreFilter(filter))
}
