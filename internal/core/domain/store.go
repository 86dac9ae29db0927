package domain

import "time"

// Store is a retailer deals are posted for.
type Store struct {
	ID          string
	Name        string
	Slug        string
	Website     string
	LogoURL     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DealType classifies deals (category).
type DealType struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Coupon is a reusable discount code for a store.
type Coupon struct {
	ID          string
	Code        string
	StoreID     string
	Description string
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

// UserStore is a seller-owned storefront grouping independently posted deals.
type UserStore struct {
	ID          string
	OwnerID     string
	Name        string
	Slug        string
	Description string
	Approved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
