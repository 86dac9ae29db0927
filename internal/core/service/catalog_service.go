package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// CatalogService manages stores, deal types and coupons. Route guards
// restrict the mutating calls to admins and contributors.
type CatalogService struct {
	stores  ports.StoreRepository
	types   ports.DealTypeRepository
	coupons ports.CouponRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewCatalogService(stores ports.StoreRepository, types ports.DealTypeRepository, coupons ports.CouponRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{stores: stores, types: types, coupons: coupons, log: log, now: time.Now}
}

var _ ports.CatalogService = (*CatalogService)(nil)

func (s *CatalogService) ListStores(ctx context.Context, search string, page, limit int) ([]*domain.Store, int64, error) {
	filter := ports.StoreFilter{Search: strings.TrimSpace(search)}
	total, err := s.stores.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list stores: %w", err)
	}
	stores, err := s.stores.Find(ctx, filter, domain.Sort{Field: "name"}, domain.PageFor(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list stores: %w", err)
	}
	return stores, total, nil
}

func (s *CatalogService) GetStore(ctx context.Context, slug string) (*domain.Store, error) {
	return s.stores.FindBySlug(ctx, slug)
}

func (s *CatalogService) CreateStore(ctx context.Context, in ports.StoreInput) (*domain.Store, error) {
	now := s.now().UTC()
	store := &domain.Store{
		Name:        strings.TrimSpace(in.Name),
		Website:     in.Website,
		LogoURL:     in.LogoURL,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	slug, err := uniqueSlug(ctx, store.Name, "", s.stores.SlugExists)
	if err != nil {
		return nil, err
	}
	store.Slug = slug

	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	s.log.Info().Str("store_id", store.ID).Str("slug", store.Slug).Msg("store created")
	return store, nil
}

func (s *CatalogService) UpdateStore(ctx context.Context, id string, in ports.StoreInput) (*domain.Store, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store.Name = strings.TrimSpace(in.Name)
	store.Website = in.Website
	store.LogoURL = in.LogoURL
	store.Description = in.Description
	store.UpdatedAt = s.now().UTC()

	slug, err := uniqueSlug(ctx, store.Name, store.Slug, s.stores.SlugExists)
	if err != nil {
		return nil, err
	}
	store.Slug = slug

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *CatalogService) DeleteStore(ctx context.Context, id string) error {
	return s.stores.Delete(ctx, id)
}

func (s *CatalogService) ListDealTypes(ctx context.Context) ([]*domain.DealType, error) {
	return s.types.All(ctx)
}

func (s *CatalogService) CreateDealType(ctx context.Context, name string) (*domain.DealType, error) {
	dt := &domain.DealType{Name: strings.TrimSpace(name), CreatedAt: s.now().UTC()}
	slug, err := uniqueSlug(ctx, dt.Name, "", s.types.SlugExists)
	if err != nil {
		return nil, err
	}
	dt.Slug = slug

	if err := s.types.Create(ctx, dt); err != nil {
		return nil, err
	}
	return dt, nil
}

func (s *CatalogService) UpdateDealType(ctx context.Context, id, name string) (*domain.DealType, error) {
	dt, err := s.types.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dt.Name = strings.TrimSpace(name)
	slug, err := uniqueSlug(ctx, dt.Name, dt.Slug, s.types.SlugExists)
	if err != nil {
		return nil, err
	}
	dt.Slug = slug

	if err := s.types.Update(ctx, dt); err != nil {
		return nil, err
	}
	return dt, nil
}

func (s *CatalogService) DeleteDealType(ctx context.Context, id string) error {
	return s.types.Delete(ctx, id)
}

// ListCoupons lists the coupons of one store, or all coupons when storeSlug
// is empty.
func (s *CatalogService) ListCoupons(ctx context.Context, storeSlug string) ([]*domain.Coupon, error) {
	storeID := ""
	if storeSlug != "" {
		store, err := s.stores.FindBySlug(ctx, storeSlug)
		if err != nil {
			return nil, err
		}
		storeID = store.ID
	}
	return s.coupons.ListByStore(ctx, storeID)
}

func (s *CatalogService) CreateCoupon(ctx context.Context, in ports.CouponInput) (*domain.Coupon, error) {
	if err := s.validateCoupon(ctx, in); err != nil {
		return nil, err
	}
	c := &domain.Coupon{
		Code:        strings.TrimSpace(in.Code),
		StoreID:     in.StoreID,
		Description: in.Description,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCoupon(ctx context.Context, id string, in ports.CouponInput) (*domain.Coupon, error) {
	c, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateCoupon(ctx, in); err != nil {
		return nil, err
	}
	c.Code = strings.TrimSpace(in.Code)
	c.StoreID = in.StoreID
	c.Description = in.Description
	c.ExpiresAt = in.ExpiresAt
	if err := s.coupons.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCoupon(ctx context.Context, id string) error {
	return s.coupons.Delete(ctx, id)
}

func (s *CatalogService) validateCoupon(ctx context.Context, in ports.CouponInput) error {
	if _, err := s.stores.FindByID(ctx, in.StoreID); err != nil {
		return err
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return domain.ErrInvalidExpiry
	}
	return nil
}
