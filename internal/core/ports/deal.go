package ports

import (
	"context"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// DealSortFields are the API-level sort keys accepted for deals.
var DealSortFields = []string{"createdAt", "updatedAt", "title", "price", "discount", "likes", "score", "clicks", "views", "expiresAt"}

// DealFilter carries every supported deal predicate. Zero values are ignored.
type DealFilter struct {
	Search      string
	StoreID     string
	DealTypeID  string
	UserStoreID string
	AuthorID    string
	Statuses    []domain.DealStatus
	Featured    *bool
	MinPrice    *float64
	MaxPrice    *float64
	ActiveAt    time.Time // excludes deals already expired at this instant
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// DealRepository defines persistence operations for deals.
type DealRepository interface {
	Create(ctx context.Context, d *domain.Deal) error
	Update(ctx context.Context, d *domain.Deal) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Deal, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Deal, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Find(ctx context.Context, filter DealFilter, sort domain.Sort, page domain.Page) ([]*domain.Deal, error)
	Count(ctx context.Context, filter DealFilter) (int64, error)
	// AdjustVotes applies counter deltas and returns the updated deal.
	AdjustVotes(ctx context.Context, id string, likes, dislikes int64) (*domain.Deal, error)
	AdjustCommentCount(ctx context.Context, id string, by int64) error
	// ExpirePast marks published deals whose expiry lies before now as expired.
	ExpirePast(ctx context.Context, now time.Time) (int64, error)
}

// DealInput is the editable part of a deal.
type DealInput struct {
	Title         string
	Description   string
	Price         float64
	OriginalPrice float64
	Currency      string
	URL           string
	ImageURL      string
	CouponCode    string
	DealTypeID    string
	StoreID       string
	CouponID      string
	Featured      bool
	Exclusive     bool
	FreeShipping  bool
	NeverExpires  bool
	ExpiresAt     *time.Time
}

// ListDealsInput carries the public/dashboard list parameters.
type ListDealsInput struct {
	Search    string
	StoreSlug string
	TypeSlug  string
	Featured  *bool
	MinPrice  *float64
	MaxPrice  *float64
	Sort      string // newest, popular, price_asc, price_desc, expiring
	Page      int
	Limit     int
	// Statuses restricts by status; empty means published and active only.
	Statuses    []domain.DealStatus
	UserStoreID string
}

// DealPage is a page of deals with pagination metadata.
type DealPage struct {
	Items      []*domain.Deal
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// DealService defines deal use cases for the public site, the dashboard
// and the my-store portal.
type DealService interface {
	List(ctx context.Context, in ListDealsInput) (*DealPage, error)
	ListMine(ctx context.Context, actor Actor, page, limit int) (*DealPage, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Deal, error)
	GetByID(ctx context.Context, id string) (*domain.Deal, error)
	Create(ctx context.Context, actor Actor, in DealInput) (*domain.Deal, error)
	Update(ctx context.Context, actor Actor, id string, in DealInput) (*domain.Deal, error)
	Delete(ctx context.Context, actor Actor, id string) error
	SetStatus(ctx context.Context, actor Actor, id string, status domain.DealStatus) (*domain.Deal, error)
	Vote(ctx context.Context, actor Actor, id string, value int) (*domain.Deal, error)
	ExpireDeals(ctx context.Context) (int64, error)
}
