package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/preview"
)

type stubStatsService struct{}

func (stubStatsService) Dashboard(ctx context.Context) (*domain.Stats, error) {
	return &domain.Stats{
		Totals:        domain.StatsTotals{Deals: 12, Stores: 3},
		DealsByStatus: map[string]int{"published": 10, "pending": 2},
	}, nil
}

type stubPreviewer struct {
	page *preview.Page
	err  error
}

func (s stubPreviewer) Fetch(ctx context.Context, rawURL string) (*preview.Page, error) {
	return s.page, s.err
}

func TestStatsHandler_Dashboard(t *testing.T) {
	e := newTestEcho()
	h := NewStatsHandler(stubStatsService{})

	c, rec := newCtx(e, http.MethodGet, "/v1/dashboard/stats", nil, adminActor)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp domain.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Totals.Deals != 12 || resp.DealsByStatus["pending"] != 2 {
		t.Fatalf("unexpected stats: %+v", resp)
	}
}

func TestPreviewHandler(t *testing.T) {
	e := newTestEcho()

	h := NewPreviewHandler(stubPreviewer{page: &preview.Page{Title: "Lamp", ImageURL: "https://cdn.example/lamp.jpg"}})
	c, rec := newCtx(e, http.MethodGet, "/v1/dashboard/preview?url=https://shop.example/lamp", nil, adminActor)
	if err := h.Preview(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newCtx(e, http.MethodGet, "/v1/dashboard/preview", nil, adminActor)
	if code := httpStatus(t, h.Preview(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without url, got %d", code)
	}

	h = NewPreviewHandler(stubPreviewer{err: preview.ErrFetchFailed})
	c, _ = newCtx(e, http.MethodGet, "/v1/dashboard/preview?url=https://down.example", nil, adminActor)
	if err := h.Preview(c); !errors.Is(err, preview.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}
