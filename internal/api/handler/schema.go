package handler

import (
	"time"

	"github.com/labstack/echo/v4"
)

// pageQuery is the pagination shared by every list endpoint.
type pageQuery struct {
	Page  int `query:"page"  validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=0"`
}

func (q *pageQuery) fill(b *echo.ValueBinder) *echo.ValueBinder {
	return b.Int("page", &q.Page).Int("limit", &q.Limit)
}

// listDealsQuery is the public deal search.
type listDealsQuery struct {
	pageQuery
	Search   string  `query:"q"`
	Store    string  `query:"store"`
	Type     string  `query:"type"`
	Sort     string  `query:"sort"`
	Featured bool    `query:"featured"`
	MinPrice float64 `query:"minPrice" validate:"gte=0"`
	MaxPrice float64 `query:"maxPrice" validate:"gte=0"`
}

func (q *listDealsQuery) fill(b *echo.ValueBinder) *echo.ValueBinder {
	return q.pageQuery.fill(b).
		String("q", &q.Search).
		String("store", &q.Store).
		String("type", &q.Type).
		String("sort", &q.Sort).
		Bool("featured", &q.Featured).
		Float64("minPrice", &q.MinPrice).
		Float64("maxPrice", &q.MaxPrice)
}

// listUsersQuery is the admin user search.
type listUsersQuery struct {
	pageQuery
	Search  string `query:"q"`
	Role    string `query:"role" validate:"omitempty,oneof=admin contributor seller user"`
	Blocked bool   `query:"blocked"`
}

func (q *listUsersQuery) fill(b *echo.ValueBinder) *echo.ValueBinder {
	return q.pageQuery.fill(b).
		String("q", &q.Search).
		String("role", &q.Role).
		Bool("blocked", &q.Blocked)
}

type listUserStoresQuery struct {
	pageQuery
	Approved bool `query:"approved"`
}

func (q *listUserStoresQuery) fill(b *echo.ValueBinder) *echo.ValueBinder {
	return q.pageQuery.fill(b).Bool("approved", &q.Approved)
}

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// --- Deals ---

type dealRequest struct {
	Title         string     `json:"title"          validate:"required,max=200"`
	Description   string     `json:"description"    validate:"max=5000"`
	Price         float64    `json:"price"          validate:"gte=0"`
	OriginalPrice float64    `json:"original_price" validate:"gte=0"`
	Currency      string     `json:"currency"       validate:"omitempty,len=3"`
	URL           string     `json:"url"            validate:"required,url"`
	ImageURL      string     `json:"image_url"      validate:"omitempty,url"`
	CouponCode    string     `json:"coupon_code"    validate:"max=64"`
	DealTypeID    string     `json:"deal_type_id"`
	StoreID       string     `json:"store_id"`
	CouponID      string     `json:"coupon_id"`
	Featured      bool       `json:"featured"`
	Exclusive     bool       `json:"exclusive"`
	FreeShipping  bool       `json:"free_shipping"`
	NeverExpires  bool       `json:"never_expires"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

type dealStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending published rejected expired"`
}

type voteRequest struct {
	Value int `json:"value" validate:"required,oneof=1 -1"`
}

type dealLinks struct {
	Self     string `json:"self"`
	Go       string `json:"go"`
	Comments string `json:"comments"`
}

type dealResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description,omitempty"`
	Price           float64    `json:"price"`
	OriginalPrice   float64    `json:"original_price,omitempty"`
	DiscountPercent int        `json:"discount_percent"`
	Currency        string     `json:"currency"`
	URL             string     `json:"url"`
	OriginalURL     string     `json:"original_url,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	CouponCode      string     `json:"coupon_code,omitempty"`
	DealTypeID      string     `json:"deal_type_id,omitempty"`
	StoreID         string     `json:"store_id,omitempty"`
	UserStoreID     string     `json:"user_store_id,omitempty"`
	CouponID        string     `json:"coupon_id,omitempty"`
	AuthorID        string     `json:"author_id,omitempty"`
	Featured        bool       `json:"featured"`
	Exclusive       bool       `json:"exclusive"`
	FreeShipping    bool       `json:"free_shipping"`
	Status          string     `json:"status"`
	NeverExpires    bool       `json:"never_expires"`
	ExpiresAt       *time.Time `json:"expires_at"`
	Likes           int64      `json:"likes"`
	Dislikes        int64      `json:"dislikes"`
	Score           int64      `json:"score"`
	Comments        int64      `json:"comments"`
	Views           int64      `json:"views"`
	Clicks          int64      `json:"clicks"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Links           dealLinks  `json:"_links"`
}

type listDealsResponse struct {
	Data       []dealResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type voteResponse struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
	Score    int64 `json:"score"`
}

// --- Comments ---

type commentRequest struct {
	Body     string `json:"body"      validate:"required,max=2000"`
	ParentID string `json:"parent_id"`
}

type commentResponse struct {
	ID        string            `json:"id"`
	DealID    string            `json:"deal_id"`
	ParentID  *string           `json:"parent_id"`
	Author    string            `json:"author"`
	Body      string            `json:"body"`
	Likes     int64             `json:"likes"`
	Deleted   bool              `json:"deleted"`
	CreatedAt time.Time         `json:"created_at"`
	Replies   []commentResponse `json:"replies,omitempty"`
}

// --- Catalog ---

type storeRequest struct {
	Name        string `json:"name"        validate:"required,max=120"`
	Website     string `json:"website"     validate:"omitempty,url"`
	LogoURL     string `json:"logo_url"    validate:"omitempty,url"`
	Description string `json:"description" validate:"max=2000"`
}

type storeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Website     string    `json:"website,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type listStoresResponse struct {
	Data       []storeResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type dealTypeRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type dealTypeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type couponRequest struct {
	Code        string     `json:"code"        validate:"required,max=64"`
	StoreID     string     `json:"store_id"    validate:"required"`
	Description string     `json:"description" validate:"max=500"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type couponResponse struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	StoreID     string     `json:"store_id"`
	Description string     `json:"description,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// --- My store ---

type userStoreRequest struct {
	Name        string `json:"name"        validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

type userStoreApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type listUserStoresResponse struct {
	Data       []userStoreResponse `json:"data"`
	Pagination paginationResponse  `json:"pagination"`
}

type userStoreResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// --- Subscribers ---

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type subscriberResponse struct {
	Email        string    `json:"email"`
	Active       bool      `json:"active"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// --- Admin ---

type blockRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin contributor seller user"`
}

type settingsRequest struct {
	SiteName         string `json:"site_name"         validate:"required,max=80"`
	DealsPerPage     int    `json:"deals_per_page"    validate:"gte=1,lte=100"`
	AutoPublish      bool   `json:"auto_publish"`
	AffiliateEnabled bool   `json:"affiliate_enabled"`
}
