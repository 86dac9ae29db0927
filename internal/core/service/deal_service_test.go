package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

type prefixRewriter struct{}

func (prefixRewriter) Rewrite(raw string) string { return raw + "?tag=dealspot-20" }

type dealFixture struct {
	svc        *DealService
	deals      *stubDealRepo
	users      *stubUserRepo
	settings   *stubSettingsRepo
	userStores *stubUserStoreRepo
	now        time.Time
}

var (
	admin  = ports.Actor{UserID: "admin-1", Username: "root", Role: domain.RoleAdmin}
	seller = ports.Actor{UserID: "seller-1", Username: "shop", Role: domain.RoleSeller}
	rival  = ports.Actor{UserID: "seller-2", Username: "other", Role: domain.RoleSeller}
	member = ports.Actor{UserID: "user-1", Username: "joe", Role: domain.RoleUser}
)

func newDealFixture() *dealFixture {
	users := newStubUserRepo()
	for _, a := range []ports.Actor{admin, seller, rival, member} {
		users.add(&domain.User{ID: a.UserID, Username: a.Username, Role: a.Role})
	}
	f := &dealFixture{
		deals:    newStubDealRepo(),
		users:    users,
		settings: newStubSettingsRepo(),
		userStores: newStubUserStoreRepo(
			&domain.UserStore{ID: "us-1", OwnerID: seller.UserID, Slug: "shop", Approved: true},
			&domain.UserStore{ID: "us-2", OwnerID: rival.UserID, Slug: "other", Approved: true},
		),
		now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewDealService(DealDeps{
		Deals:      f.deals,
		Stores:     newStubStoreRepo(&domain.Store{ID: "store-1", Slug: "acme", Name: "Acme"}),
		Types:      newStubTypeRepo(&domain.DealType{ID: "type-1", Slug: "tech", Name: "Tech"}),
		UserStores: f.userStores,
		Users:      users,
		Reactions:  newStubReactionRepo(),
		Settings:   f.settings,
		Rewriter:   prefixRewriter{},
	}, zerolog.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func dealInput(title string) ports.DealInput {
	return ports.DealInput{
		Title:         title,
		Price:         75,
		OriginalPrice: 100,
		Currency:      "usd",
		URL:           "https://www.amazon.com/dp/B000",
		StoreID:       "store-1",
		DealTypeID:    "type-1",
		NeverExpires:  true,
	}
}

func TestDealService_Create_Admin(t *testing.T) {
	f := newDealFixture()

	d, err := f.svc.Create(context.Background(), admin, dealInput("4K TV Deal"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Slug != "4k-tv-deal" {
		t.Errorf("unexpected slug %q", d.Slug)
	}
	if d.Status != domain.DealPublished {
		t.Errorf("expected published, got %s", d.Status)
	}
	if d.DiscountPercent != 25 {
		t.Errorf("expected 25%% discount, got %d", d.DiscountPercent)
	}
	if d.Currency != "USD" {
		t.Errorf("expected upper-cased currency, got %s", d.Currency)
	}
	if d.OriginalURL != "https://www.amazon.com/dp/B000" || !strings.HasSuffix(d.URL, "tag=dealspot-20") {
		t.Errorf("unexpected urls: %s / %s", d.OriginalURL, d.URL)
	}
	if d.ExpiresAt != nil {
		t.Errorf("never-expiring deal must not carry an expiry")
	}
}

func TestDealService_Create_SlugSuffix(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()

	for i, want := range []string{"same-title", "same-title-2", "same-title-3"} {
		d, err := f.svc.Create(ctx, admin, dealInput("Same Title"))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if d.Slug != want {
			t.Errorf("create %d: expected slug %q, got %q", i, want, d.Slug)
		}
	}
}

func TestDealService_Create_AffiliateDisabled(t *testing.T) {
	f := newDealFixture()
	f.settings.settings.AffiliateEnabled = false

	d, err := f.svc.Create(context.Background(), admin, dealInput("Plain"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.URL != d.OriginalURL {
		t.Errorf("expected untouched url, got %s", d.URL)
	}
}

func TestDealService_Create_Validation(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()

	in := dealInput("Bad price")
	in.OriginalPrice = 10
	if _, err := f.svc.Create(ctx, admin, in); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}

	in = dealInput("Past expiry")
	in.NeverExpires = false
	past := f.now.Add(-time.Hour)
	in.ExpiresAt = &past
	if _, err := f.svc.Create(ctx, admin, in); !errors.Is(err, domain.ErrInvalidExpiry) {
		t.Errorf("expected ErrInvalidExpiry, got %v", err)
	}

	in = dealInput("Unknown store")
	in.StoreID = "nope"
	if _, err := f.svc.Create(ctx, admin, in); !errors.Is(err, domain.ErrStoreNotFound) {
		t.Errorf("expected ErrStoreNotFound, got %v", err)
	}

	if _, err := f.svc.Create(ctx, member, dealInput("Member")); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for plain user, got %v", err)
	}
}

func TestDealService_Create_SellerPendingUnlessAutoPublish(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()

	d, err := f.svc.Create(ctx, seller, dealInput("Seller deal"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != domain.DealPending || d.UserStoreID != "us-1" {
		t.Errorf("expected pending deal in us-1, got %s in %q", d.Status, d.UserStoreID)
	}

	f.settings.settings.AutoPublish = true
	d, err = f.svc.Create(ctx, seller, dealInput("Seller deal 2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != domain.DealPublished {
		t.Errorf("expected published with auto-publish, got %s", d.Status)
	}
}

func TestDealService_UnapprovedUserStore(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()

	d, err := f.svc.Create(ctx, seller, dealInput("Before review"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	us, _ := f.userStores.FindByOwner(ctx, seller.UserID)
	us.Approved = false
	_ = f.userStores.Update(ctx, us)

	if _, err := f.svc.Create(ctx, seller, dealInput("After revoke")); !errors.Is(err, domain.ErrUserStorePending) {
		t.Errorf("expected ErrUserStorePending on create, got %v", err)
	}
	if _, err := f.svc.Update(ctx, seller, d.ID, dealInput("Edited")); !errors.Is(err, domain.ErrUserStorePending) {
		t.Errorf("expected ErrUserStorePending on update, got %v", err)
	}
	if _, err := f.svc.Update(ctx, admin, d.ID, dealInput("Edited by admin")); err != nil {
		t.Errorf("catalog managers are not gated by storefront review: %v", err)
	}
}

func TestDealService_Create_BlockedUser(t *testing.T) {
	f := newDealFixture()
	_ = f.users.SetBlocked(context.Background(), seller.UserID, true, "spam", nil)

	if _, err := f.svc.Create(context.Background(), seller, dealInput("x")); !errors.Is(err, domain.ErrUserBlocked) {
		t.Fatalf("expected ErrUserBlocked, got %v", err)
	}
}

func TestDealService_Update_SellerScoping(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()

	d, err := f.svc.Create(ctx, seller, dealInput("Mine"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.Update(ctx, rival, d.ID, dealInput("Stolen")); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for other seller, got %v", err)
	}
	if err := f.svc.Delete(ctx, rival, d.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden on delete, got %v", err)
	}

	updated, err := f.svc.Update(ctx, seller, d.ID, dealInput("Mine Renamed"))
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Slug != "mine-renamed" {
		t.Errorf("expected slug to follow title, got %q", updated.Slug)
	}

	adminDeal, _ := f.svc.Create(ctx, admin, dealInput("Admin"))
	if _, err := f.svc.Update(ctx, seller, adminDeal.ID, dealInput("Hijack")); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden on catalog deal, got %v", err)
	}
}

func TestDealService_Update_KeepsSlugWhenTitleUnchanged(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()

	_, _ = f.svc.Create(ctx, admin, dealInput("Twin"))
	second, _ := f.svc.Create(ctx, admin, dealInput("Twin"))

	updated, err := f.svc.Update(ctx, admin, second.ID, dealInput("Twin"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "twin-2" {
		t.Errorf("expected slug to stay twin-2, got %q", updated.Slug)
	}
}

func TestDealService_SetStatus(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()
	d, _ := f.svc.Create(ctx, seller, dealInput("Pending"))

	if _, err := f.svc.SetStatus(ctx, seller, d.ID, domain.DealPublished); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.SetStatus(ctx, admin, d.ID, "bogus"); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
	got, err := f.svc.SetStatus(ctx, admin, d.ID, domain.DealPublished)
	if err != nil || got.Status != domain.DealPublished {
		t.Fatalf("expected published, got %v (%v)", got, err)
	}
}

func TestDealService_Vote(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()
	d, _ := f.svc.Create(ctx, admin, dealInput("Votable"))

	got, err := f.svc.Vote(ctx, member, d.ID, 1)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if got.LikeCount != 1 || got.DislikeCount != 0 {
		t.Fatalf("unexpected counters after upvote: %d/%d", got.LikeCount, got.DislikeCount)
	}

	if _, err := f.svc.Vote(ctx, member, d.ID, 1); !errors.Is(err, domain.ErrAlreadyReacted) {
		t.Fatalf("expected ErrAlreadyReacted, got %v", err)
	}

	got, err = f.svc.Vote(ctx, member, d.ID, -1)
	if err != nil {
		t.Fatalf("switch vote: %v", err)
	}
	if got.LikeCount != 0 || got.DislikeCount != 1 {
		t.Fatalf("unexpected counters after switch: %d/%d", got.LikeCount, got.DislikeCount)
	}

	if _, err := f.svc.Vote(ctx, member, d.ID, 3); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestDealService_Vote_PendingDealHidden(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()
	d, _ := f.svc.Create(ctx, seller, dealInput("Pending"))

	if _, err := f.svc.Vote(ctx, member, d.ID, 1); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestDealService_List(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, _ = f.svc.Create(ctx, admin, dealInput(title))
	}
	_, _ = f.svc.Create(ctx, seller, dealInput("pending one"))

	page, err := f.svc.List(ctx, ports.ListDealsInput{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("expected 3 published deals, got %d", page.Total)
	}
	if len(page.Items) != 2 || page.TotalPages != 2 {
		t.Errorf("unexpected page: %d items, %d pages", len(page.Items), page.TotalPages)
	}

	if _, err := f.svc.List(ctx, ports.ListDealsInput{Sort: "random"}); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery for unknown sort, got %v", err)
	}

	empty, err := f.svc.List(ctx, ports.ListDealsInput{StoreSlug: "missing"})
	if err != nil || empty.Total != 0 || len(empty.Items) != 0 {
		t.Errorf("expected empty page for unknown store, got %+v (%v)", empty, err)
	}
}

func TestDealService_ListMine(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()
	_, _ = f.svc.Create(ctx, seller, dealInput("mine"))
	_, _ = f.svc.Create(ctx, rival, dealInput("theirs"))

	page, err := f.svc.ListMine(ctx, seller, 1, 10)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if page.Total != 1 || page.Items[0].Title != "mine" {
		t.Fatalf("unexpected deals: %+v", page.Items)
	}
}

func TestDealService_GetBySlug_HidesPending(t *testing.T) {
	f := newDealFixture()
	ctx := context.Background()
	d, _ := f.svc.Create(ctx, seller, dealInput("secret"))

	if _, err := f.svc.GetBySlug(ctx, d.Slug); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestDealService_ExpireDeals(t *testing.T) {
	f := newDealFixture()
	f.deals.expired = 4

	n, err := f.svc.ExpireDeals(context.Background())
	if err != nil || n != 4 {
		t.Fatalf("expected 4 expired, got %d (%v)", n, err)
	}
	if !f.deals.expiredAt.Equal(f.now) {
		t.Errorf("expected cutoff %v, got %v", f.now, f.deals.expiredAt)
	}
}
