package export

import (
	"strconv"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// Exporter knows the columns of one entity and how to render a record as a
// text row or a spreadsheet row. Both row renderings must have len(Headers())
// cells.
type Exporter[T any] interface {
	// Name is used as the file name prefix and the sheet name.
	Name() string
	Headers() []string
	TextRow(item T) []string
	SheetRow(item T) []any
}

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// --- Deals ---

// DealExporter resolves store and deal type ids to names through the
// supplied lookup tables; unknown ids are rendered as-is.
type DealExporter struct {
	stores map[string]string
	types  map[string]string
}

func NewDealExporter(storeNames, typeNames map[string]string) *DealExporter {
	return &DealExporter{stores: storeNames, types: typeNames}
}

func (e *DealExporter) Name() string { return "deals" }

func (e *DealExporter) Headers() []string {
	return []string{
		"ID", "Title", "Slug", "Status", "Store", "Type",
		"Price", "Original Price", "Discount %", "Currency", "Coupon Code", "URL",
		"Featured", "Exclusive", "Free Shipping", "Expires At",
		"Likes", "Dislikes", "Comments", "Views", "Clicks", "Created At",
	}
}

func (e *DealExporter) lookup(table map[string]string, id string) string {
	if name, ok := table[id]; ok {
		return name
	}
	return id
}

func (e *DealExporter) expiry(d *domain.Deal) string {
	if d.NeverExpires {
		return "never"
	}
	return formatTimePtr(d.ExpiresAt)
}

func (e *DealExporter) TextRow(d *domain.Deal) []string {
	return []string{
		d.ID, d.Title, d.Slug, string(d.Status),
		e.lookup(e.stores, d.StoreID), e.lookup(e.types, d.DealTypeID),
		formatMoney(d.Price), formatMoney(d.OriginalPrice), strconv.Itoa(d.DiscountPercent),
		d.Currency, d.CouponCode, d.URL,
		formatBool(d.Featured), formatBool(d.Exclusive), formatBool(d.FreeShipping),
		e.expiry(d),
		strconv.FormatInt(d.LikeCount, 10), strconv.FormatInt(d.DislikeCount, 10),
		strconv.FormatInt(d.CommentCount, 10), strconv.FormatInt(d.ViewCount, 10),
		strconv.FormatInt(d.ClickCount, 10),
		formatTime(d.CreatedAt),
	}
}

func (e *DealExporter) SheetRow(d *domain.Deal) []any {
	return []any{
		d.ID, d.Title, d.Slug, string(d.Status),
		e.lookup(e.stores, d.StoreID), e.lookup(e.types, d.DealTypeID),
		d.Price, d.OriginalPrice, d.DiscountPercent,
		d.Currency, d.CouponCode, d.URL,
		d.Featured, d.Exclusive, d.FreeShipping,
		e.expiry(d),
		d.LikeCount, d.DislikeCount, d.CommentCount, d.ViewCount, d.ClickCount,
		formatTime(d.CreatedAt),
	}
}

// --- Users ---

type UserExporter struct{}

func (UserExporter) Name() string { return "users" }

func (UserExporter) Headers() []string {
	return []string{"ID", "Username", "Email", "Role", "Blocked", "Blocked Reason", "Created At"}
}

func (UserExporter) TextRow(u *domain.User) []string {
	return []string{u.ID, u.Username, u.Email, u.Role, formatBool(u.Blocked), u.BlockedReason, formatTime(u.CreatedAt)}
}

func (UserExporter) SheetRow(u *domain.User) []any {
	return []any{u.ID, u.Username, u.Email, u.Role, u.Blocked, u.BlockedReason, formatTime(u.CreatedAt)}
}

// --- Subscribers ---

type SubscriberExporter struct{}

func (SubscriberExporter) Name() string { return "subscribers" }

func (SubscriberExporter) Headers() []string {
	return []string{"Email", "Active", "Subscribed At", "Unsubscribed At"}
}

func (SubscriberExporter) TextRow(s *domain.Subscriber) []string {
	return []string{s.Email, formatBool(s.Active), formatTime(s.SubscribedAt), formatTimePtr(s.UnsubscribedAt)}
}

func (SubscriberExporter) SheetRow(s *domain.Subscriber) []any {
	return []any{s.Email, s.Active, formatTime(s.SubscribedAt), formatTimePtr(s.UnsubscribedAt)}
}

// --- Stores ---

type StoreExporter struct{}

func (StoreExporter) Name() string { return "stores" }

func (StoreExporter) Headers() []string {
	return []string{"ID", "Name", "Slug", "Website", "Created At"}
}

func (StoreExporter) TextRow(s *domain.Store) []string {
	return []string{s.ID, s.Name, s.Slug, s.Website, formatTime(s.CreatedAt)}
}

func (StoreExporter) SheetRow(s *domain.Store) []any {
	return []any{s.ID, s.Name, s.Slug, s.Website, formatTime(s.CreatedAt)}
}

// --- Comments ---

type CommentExporter struct{}

func (CommentExporter) Name() string { return "comments" }

func (CommentExporter) Headers() []string {
	return []string{"ID", "Deal ID", "Author", "Parent ID", "Body", "Likes", "Deleted", "Created At"}
}

func (CommentExporter) parent(c *domain.Comment) string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

func (e CommentExporter) TextRow(c *domain.Comment) []string {
	return []string{
		c.ID, c.DealID, c.AuthorName, e.parent(c), c.Body,
		strconv.FormatInt(c.LikeCount, 10), formatBool(c.Deleted), formatTime(c.CreatedAt),
	}
}

func (e CommentExporter) SheetRow(c *domain.Comment) []any {
	return []any{c.ID, c.DealID, c.AuthorName, e.parent(c), c.Body, c.LikeCount, c.Deleted, formatTime(c.CreatedAt)}
}
