package ports

import (
	"context"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
)

var StoreSortFields = []string{"name", "createdAt", "updatedAt"}

type StoreFilter struct {
	Search string
}

type StoreRepository interface {
	Create(ctx context.Context, s *domain.Store) error
	Update(ctx context.Context, s *domain.Store) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Store, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Store, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Find(ctx context.Context, filter StoreFilter, sort domain.Sort, page domain.Page) ([]*domain.Store, error)
	Count(ctx context.Context, filter StoreFilter) (int64, error)
}

type DealTypeRepository interface {
	Create(ctx context.Context, t *domain.DealType) error
	Update(ctx context.Context, t *domain.DealType) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.DealType, error)
	FindBySlug(ctx context.Context, slug string) (*domain.DealType, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	All(ctx context.Context) ([]*domain.DealType, error)
}

type CouponRepository interface {
	Create(ctx context.Context, c *domain.Coupon) error
	Update(ctx context.Context, c *domain.Coupon) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Coupon, error)
	// ListByStore returns coupons for storeID, or all coupons when storeID is empty.
	ListByStore(ctx context.Context, storeID string) ([]*domain.Coupon, error)
}

type UserStoreRepository interface {
	Create(ctx context.Context, s *domain.UserStore) error
	Update(ctx context.Context, s *domain.UserStore) error
	FindByID(ctx context.Context, id string) (*domain.UserStore, error)
	FindByOwner(ctx context.Context, ownerID string) (*domain.UserStore, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Find(ctx context.Context, filter UserStoreFilter, page domain.Page) ([]*domain.UserStore, error)
	Count(ctx context.Context, filter UserStoreFilter) (int64, error)
}

// UserStoreFilter narrows the storefront review queue.
type UserStoreFilter struct {
	Approved *bool
}

type StoreInput struct {
	Name        string
	Website     string
	LogoURL     string
	Description string
}

type CouponInput struct {
	Code        string
	StoreID     string
	Description string
	ExpiresAt   *time.Time
}

type UserStoreInput struct {
	Name        string
	Description string
}

// CatalogService manages stores, deal types and coupons.
type CatalogService interface {
	ListStores(ctx context.Context, search string, page, limit int) ([]*domain.Store, int64, error)
	GetStore(ctx context.Context, slug string) (*domain.Store, error)
	CreateStore(ctx context.Context, in StoreInput) (*domain.Store, error)
	UpdateStore(ctx context.Context, id string, in StoreInput) (*domain.Store, error)
	DeleteStore(ctx context.Context, id string) error

	ListDealTypes(ctx context.Context) ([]*domain.DealType, error)
	CreateDealType(ctx context.Context, name string) (*domain.DealType, error)
	UpdateDealType(ctx context.Context, id, name string) (*domain.DealType, error)
	DeleteDealType(ctx context.Context, id string) error

	ListCoupons(ctx context.Context, storeSlug string) ([]*domain.Coupon, error)
	CreateCoupon(ctx context.Context, in CouponInput) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, in CouponInput) (*domain.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
}

// UserStoreService backs the seller my-store portal and the storefront
// review queue of the dashboard.
type UserStoreService interface {
	Create(ctx context.Context, actor Actor, in UserStoreInput) (*domain.UserStore, error)
	Get(ctx context.Context, actor Actor) (*domain.UserStore, error)
	Update(ctx context.Context, actor Actor, in UserStoreInput) (*domain.UserStore, error)

	List(ctx context.Context, actor Actor, filter UserStoreFilter, page, limit int) ([]*domain.UserStore, int64, error)
	SetApproved(ctx context.Context, actor Actor, id string, approved bool) (*domain.UserStore, error)
}
