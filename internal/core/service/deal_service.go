package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/api/metrics"
	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// LinkRewriter turns a submitted URL into its affiliate form.
type LinkRewriter interface {
	Rewrite(raw string) string
}

// DealDeps groups the collaborators of DealService.
type DealDeps struct {
	Deals      ports.DealRepository
	Stores     ports.StoreRepository
	Types      ports.DealTypeRepository
	UserStores ports.UserStoreRepository
	Users      ports.UserRepository
	Reactions  ports.ReactionRepository
	Settings   ports.SettingsRepository
	Rewriter   LinkRewriter
}

type DealService struct {
	deps DealDeps
	log  zerolog.Logger
	now  func() time.Time
}

func NewDealService(deps DealDeps, log zerolog.Logger) *DealService {
	return &DealService{deps: deps, log: log, now: time.Now}
}

var _ ports.DealService = (*DealService)(nil)

// listSorts maps the public sort names onto repository sorts.
var listSorts = map[string]domain.Sort{
	"":           {Field: "createdAt", Desc: true},
	"newest":     {Field: "createdAt", Desc: true},
	"popular":    {Field: "score", Desc: true},
	"price_asc":  {Field: "price"},
	"price_desc": {Field: "price", Desc: true},
	"expiring":   {Field: "expiresAt"},
}

// List returns a page of deals. Without explicit statuses only published,
// unexpired deals are listed.
func (s *DealService) List(ctx context.Context, in ports.ListDealsInput) (*ports.DealPage, error) {
	sort, ok := listSorts[in.Sort]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidQuery, in.Sort)
	}

	filter := ports.DealFilter{
		Search:      strings.TrimSpace(in.Search),
		Featured:    in.Featured,
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		Statuses:    in.Statuses,
		UserStoreID: in.UserStoreID,
	}
	if len(filter.Statuses) == 0 {
		filter.Statuses = []domain.DealStatus{domain.DealPublished}
		filter.ActiveAt = s.now().UTC()
	}
	if in.Sort == "expiring" {
		filter.ActiveAt = s.now().UTC()
	}

	if in.StoreSlug != "" {
		store, err := s.deps.Stores.FindBySlug(ctx, in.StoreSlug)
		if errors.Is(err, domain.ErrStoreNotFound) {
			return s.emptyPage(in.Page, in.Limit), nil
		}
		if err != nil {
			return nil, fmt.Errorf("list deals: %w", err)
		}
		filter.StoreID = store.ID
	}
	if in.TypeSlug != "" {
		dt, err := s.deps.Types.FindBySlug(ctx, in.TypeSlug)
		if errors.Is(err, domain.ErrDealTypeNotFound) {
			return s.emptyPage(in.Page, in.Limit), nil
		}
		if err != nil {
			return nil, fmt.Errorf("list deals: %w", err)
		}
		filter.DealTypeID = dt.ID
	}

	limit := in.Limit
	if limit <= 0 {
		limit = s.defaultLimit(ctx)
	}
	return s.page(ctx, filter, sort, in.Page, limit)
}

// ListMine lists every deal of the seller's storefront regardless of status.
func (s *DealService) ListMine(ctx context.Context, actor ports.Actor, page, limit int) (*ports.DealPage, error) {
	us, err := s.deps.UserStores.FindByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.defaultLimit(ctx)
	}
	filter := ports.DealFilter{UserStoreID: us.ID}
	return s.page(ctx, filter, domain.Sort{Field: "createdAt", Desc: true}, page, limit)
}

func (s *DealService) page(ctx context.Context, filter ports.DealFilter, sort domain.Sort, page, limit int) (*ports.DealPage, error) {
	window := domain.PageFor(page, limit)
	total, err := s.deps.Deals.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count deals: %w", err)
	}
	items, err := s.deps.Deals.Find(ctx, filter, sort, window)
	if err != nil {
		return nil, fmt.Errorf("find deals: %w", err)
	}
	if page < 1 {
		page = 1
	}
	return &ports.DealPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      int(window.Limit),
		TotalPages: domain.TotalPages(total, int(window.Limit)),
	}, nil
}

func (s *DealService) emptyPage(page, limit int) *ports.DealPage {
	window := domain.PageFor(page, limit)
	if page < 1 {
		page = 1
	}
	return &ports.DealPage{Items: []*domain.Deal{}, Page: page, Limit: int(window.Limit)}
}

func (s *DealService) defaultLimit(ctx context.Context) int {
	settings, err := s.deps.Settings.Get(ctx)
	if err != nil || settings.DealsPerPage <= 0 {
		return domain.DefaultPageSize
	}
	return settings.DealsPerPage
}

// GetBySlug returns a publicly visible deal. Pending and rejected deals are
// hidden from the public site.
func (s *DealService) GetBySlug(ctx context.Context, slug string) (*domain.Deal, error) {
	d, err := s.deps.Deals.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.DealPublished && d.Status != domain.DealExpired {
		return nil, domain.ErrDealNotFound
	}
	return d, nil
}

func (s *DealService) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	return s.deps.Deals.FindByID(ctx, id)
}

// Create posts a new deal. Admins and contributors publish directly; sellers
// post into their own approved storefront and wait for moderation unless
// auto-publish is on.
func (s *DealService) Create(ctx context.Context, actor ports.Actor, in ports.DealInput) (*domain.Deal, error) {
	if _, err := activeUser(ctx, s.deps.Users, actor); err != nil {
		return nil, err
	}
	settings, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}

	now := s.now().UTC()
	d := &domain.Deal{
		AuthorID:  actor.UserID,
		Status:    domain.DealPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch {
	case canManageCatalog(actor):
	case actor.Role == domain.RoleSeller:
		us, err := s.deps.UserStores.FindByOwner(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !us.Approved {
			return nil, domain.ErrUserStorePending
		}
		d.UserStoreID = us.ID
		if !settings.AutoPublish {
			d.Status = domain.DealPending
		}
	default:
		return nil, domain.ErrForbidden
	}

	if err := s.apply(ctx, d, in, settings, now, true); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, d.Title, "", s.deps.Deals.SlugExists)
	if err != nil {
		return nil, err
	}
	d.Slug = slug

	if err := s.deps.Deals.Create(ctx, d); err != nil {
		s.log.Error().Err(err).Msg("failed to create deal")
		return nil, err
	}

	s.log.Info().Str("deal_id", d.ID).Str("slug", d.Slug).Str("status", string(d.Status)).Msg("deal created")
	return d, nil
}

// Update edits a deal. Sellers may only edit deals of their own storefront,
// and their edits go back to moderation unless auto-publish is on.
func (s *DealService) Update(ctx context.Context, actor ports.Actor, id string, in ports.DealInput) (*domain.Deal, error) {
	if _, err := activeUser(ctx, s.deps.Users, actor); err != nil {
		return nil, err
	}
	d, us, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if us != nil && !us.Approved {
		return nil, domain.ErrUserStorePending
	}
	settings, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("update deal: %w", err)
	}

	now := s.now().UTC()
	expiryChanged := !sameTime(d.ExpiresAt, in.ExpiresAt)
	if err := s.apply(ctx, d, in, settings, now, expiryChanged); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, d.Title, d.Slug, s.deps.Deals.SlugExists)
	if err != nil {
		return nil, err
	}
	d.Slug = slug
	d.UpdatedAt = now
	if actor.Role == domain.RoleSeller && !settings.AutoPublish {
		d.Status = domain.DealPending
	}

	if err := s.deps.Deals.Update(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Str("deal_id", d.ID).Str("by", actor.UserID).Msg("deal updated")
	return d, nil
}

func (s *DealService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	if _, _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.deps.Deals.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("deal_id", id).Str("by", actor.UserID).Msg("deal deleted")
	return nil
}

// SetStatus is the moderation action used to approve or reject deals.
func (s *DealService) SetStatus(ctx context.Context, actor ports.Actor, id string, status domain.DealStatus) (*domain.Deal, error) {
	if !canManageCatalog(actor) {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidQuery, status)
	}

	d, err := s.deps.Deals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Status = status
	d.UpdatedAt = s.now().UTC()
	if err := s.deps.Deals.Update(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Str("deal_id", id).Str("status", string(status)).Str("by", actor.UserID).Msg("deal status changed")
	return d, nil
}

// Vote records an up (1) or down (-1) vote. Voting the opposite way switches
// the vote; repeating the same vote is rejected.
func (s *DealService) Vote(ctx context.Context, actor ports.Actor, id string, value int) (*domain.Deal, error) {
	if value != 1 && value != -1 {
		return nil, fmt.Errorf("%w: vote must be 1 or -1", domain.ErrInvalidQuery)
	}
	if _, err := activeUser(ctx, s.deps.Users, actor); err != nil {
		return nil, err
	}
	d, err := s.deps.Deals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.DealPublished {
		return nil, domain.ErrDealNotFound
	}

	prev, err := s.deps.Reactions.Put(ctx, &domain.Reaction{
		Kind:      domain.ReactionDealVote,
		TargetID:  id,
		UserID:    actor.UserID,
		Value:     value,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("vote: %w", err)
	}
	if prev == value {
		return nil, domain.ErrAlreadyReacted
	}

	likes, dislikes := domain.VoteDelta(prev, value)
	updated, err := s.deps.Deals.AdjustVotes(ctx, id, likes, dislikes)
	if err != nil {
		return nil, err
	}

	label := "up"
	if value < 0 {
		label = "down"
	}
	metrics.VotesTotal.WithLabelValues(label).Inc()
	return updated, nil
}

// ExpireDeals marks published deals past their expiry as expired.
func (s *DealService) ExpireDeals(ctx context.Context) (int64, error) {
	n, err := s.deps.Deals.ExpirePast(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.DealsExpiredTotal.Add(float64(n))
		s.log.Info().Int64("count", n).Msg("deals expired")
	}
	return n, nil
}

// authorize loads a deal the actor may modify. For sellers it also returns
// the owning storefront; it is nil for catalog managers.
func (s *DealService) authorize(ctx context.Context, actor ports.Actor, id string) (*domain.Deal, *domain.UserStore, error) {
	d, err := s.deps.Deals.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if canManageCatalog(actor) {
		return d, nil, nil
	}
	if actor.Role != domain.RoleSeller || d.UserStoreID == "" {
		return nil, nil, domain.ErrForbidden
	}
	us, err := s.deps.UserStores.FindByOwner(ctx, actor.UserID)
	if errors.Is(err, domain.ErrUserStoreNotFound) {
		return nil, nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, nil, err
	}
	if us.ID != d.UserStoreID {
		return nil, nil, domain.ErrForbidden
	}
	return d, us, nil
}

// apply copies the editable fields onto d and enforces references, pricing
// and expiry rules.
func (s *DealService) apply(ctx context.Context, d *domain.Deal, in ports.DealInput, settings *domain.Settings, now time.Time, checkExpiry bool) error {
	if in.StoreID != "" {
		if _, err := s.deps.Stores.FindByID(ctx, in.StoreID); err != nil {
			return err
		}
	}
	if in.DealTypeID != "" {
		if _, err := s.deps.Types.FindByID(ctx, in.DealTypeID); err != nil {
			return err
		}
	}

	d.Title = strings.TrimSpace(in.Title)
	d.Description = in.Description
	d.Price = in.Price
	d.OriginalPrice = in.OriginalPrice
	d.Currency = strings.ToUpper(in.Currency)
	d.ImageURL = in.ImageURL
	d.CouponCode = in.CouponCode
	d.DealTypeID = in.DealTypeID
	d.StoreID = in.StoreID
	d.CouponID = in.CouponID
	d.Featured = in.Featured
	d.Exclusive = in.Exclusive
	d.FreeShipping = in.FreeShipping
	d.NeverExpires = in.NeverExpires
	d.ExpiresAt = in.ExpiresAt

	if err := d.ApplyPricing(); err != nil {
		return err
	}
	if checkExpiry {
		if err := d.NormalizeExpiry(now); err != nil {
			return err
		}
	} else if d.NeverExpires {
		d.ExpiresAt = nil
	}

	d.OriginalURL = in.URL
	d.URL = in.URL
	if settings.AffiliateEnabled && s.deps.Rewriter != nil && in.URL != "" {
		d.URL = s.deps.Rewriter.Rewrite(in.URL)
	}
	return nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
