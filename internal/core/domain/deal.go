package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealStatus is the moderation/lifecycle state of a deal.
type DealStatus string

const (
	DealPending   DealStatus = "pending"
	DealPublished DealStatus = "published"
	DealRejected  DealStatus = "rejected"
	DealExpired   DealStatus = "expired"
)

// Valid reports whether s is one of the known statuses.
func (s DealStatus) Valid() bool {
	switch s {
	case DealPending, DealPublished, DealRejected, DealExpired:
		return true
	}
	return false
}

// Deal is a posted discount or offer.
type Deal struct {
	ID              string
	Title           string
	Slug            string
	Description     string
	Price           float64
	OriginalPrice   float64
	DiscountPercent int
	Currency        string
	URL             string // outbound, affiliate-rewritten
	OriginalURL     string // as submitted
	ImageURL        string
	CouponCode      string

	DealTypeID  string
	StoreID     string
	UserStoreID string
	CouponID    string
	AuthorID    string

	Featured     bool
	Exclusive    bool
	FreeShipping bool
	Status       DealStatus

	NeverExpires bool
	ExpiresAt    *time.Time

	LikeCount    int64
	DislikeCount int64
	CommentCount int64
	ViewCount    int64
	ClickCount   int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Score is the net vote count used for popularity sorting.
func (d *Deal) Score() int64 {
	return d.LikeCount - d.DislikeCount
}

// IsExpired reports whether the deal is past its expiry at now.
func (d *Deal) IsExpired(now time.Time) bool {
	if d.Status == DealExpired {
		return true
	}
	if d.NeverExpires || d.ExpiresAt == nil {
		return false
	}
	return !d.ExpiresAt.After(now)
}

// NormalizeExpiry applies the expiry rules: never-expiring deals carry no
// expiry date, and a new expiry must lie in the future.
func (d *Deal) NormalizeExpiry(now time.Time) error {
	if d.NeverExpires {
		d.ExpiresAt = nil
		return nil
	}
	if d.ExpiresAt != nil && !d.ExpiresAt.After(now) {
		return ErrInvalidExpiry
	}
	return nil
}

// ApplyPricing validates the price pair and derives DiscountPercent.
func (d *Deal) ApplyPricing() error {
	if d.Price < 0 || d.OriginalPrice < 0 {
		return ErrInvalidPrice
	}
	if d.OriginalPrice == 0 {
		d.DiscountPercent = 0
		return nil
	}
	if d.OriginalPrice < d.Price {
		return ErrInvalidPrice
	}
	d.DiscountPercent = DiscountPercent(d.Price, d.OriginalPrice)
	return nil
}

// DiscountPercent returns the whole-percent discount of price against
// original, rounded half up.
func DiscountPercent(price, original float64) int {
	if original <= 0 {
		return 0
	}
	p := decimal.NewFromFloat(price)
	o := decimal.NewFromFloat(original)
	pct := o.Sub(p).Div(o).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}
