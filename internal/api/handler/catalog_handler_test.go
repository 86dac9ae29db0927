package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

type stubCatalogService struct {
	ports.CatalogService
	listStoresFn  func(ctx context.Context, search string, page, limit int) ([]*domain.Store, int64, error)
	createStoreFn func(ctx context.Context, in ports.StoreInput) (*domain.Store, error)
	couponsFn     func(ctx context.Context, storeSlug string) ([]*domain.Coupon, error)
}

func (s *stubCatalogService) ListStores(ctx context.Context, search string, page, limit int) ([]*domain.Store, int64, error) {
	return s.listStoresFn(ctx, search, page, limit)
}

func (s *stubCatalogService) CreateStore(ctx context.Context, in ports.StoreInput) (*domain.Store, error) {
	return s.createStoreFn(ctx, in)
}

func (s *stubCatalogService) ListCoupons(ctx context.Context, storeSlug string) ([]*domain.Coupon, error) {
	return s.couponsFn(ctx, storeSlug)
}

func TestCatalogHandler_ListStores_Pagination(t *testing.T) {
	e := newTestEcho()
	h := NewCatalogHandler(&stubCatalogService{
		listStoresFn: func(ctx context.Context, search string, page, limit int) ([]*domain.Store, int64, error) {
			if search != "ac" || page != 1 || limit != 2 {
				t.Fatalf("unexpected args: %q %d %d", search, page, limit)
			}
			return []*domain.Store{{ID: "s1", Name: "Acme", Slug: "acme"}, {ID: "s2", Name: "Acorn", Slug: "acorn"}}, 5, nil
		},
	})

	c, rec := newCtx(e, http.MethodGet, "/v1/stores?q=ac&limit=2", nil, nil)
	if err := h.ListStores(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp listStoresResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 2 || resp.Data[1].Slug != "acorn" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
	if resp.Pagination != (paginationResponse{Total: 5, Page: 1, Limit: 2, TotalPages: 3}) {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestCatalogHandler_CreateStore(t *testing.T) {
	e := newTestEcho()
	h := NewCatalogHandler(&stubCatalogService{
		createStoreFn: func(ctx context.Context, in ports.StoreInput) (*domain.Store, error) {
			return &domain.Store{ID: "s1", Name: in.Name, Slug: "acme", Website: in.Website}, nil
		},
	})

	c, rec := newCtx(e, http.MethodPost, "/", strings.NewReader(`{"name":"Acme","website":"https://acme.example"}`), adminActor)
	if err := h.CreateStore(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newCtx(e, http.MethodPost, "/", strings.NewReader(`{"name":"Acme","website":"acme"}`), adminActor)
	if code := httpStatus(t, h.CreateStore(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an invalid website, got %d", code)
	}
}

func TestCatalogHandler_ListCoupons_EmptyIsArray(t *testing.T) {
	e := newTestEcho()
	h := NewCatalogHandler(&stubCatalogService{
		couponsFn: func(ctx context.Context, storeSlug string) ([]*domain.Coupon, error) {
			if storeSlug != "acme" {
				t.Fatalf("unexpected store %q", storeSlug)
			}
			return nil, nil
		},
	})

	c, rec := newCtx(e, http.MethodGet, "/v1/coupons?store=acme", nil, nil)
	if err := h.ListCoupons(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}
