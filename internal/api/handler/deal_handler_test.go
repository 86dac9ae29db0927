package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// stubDealService overrides only the methods a test needs; the embedded nil
// interface panics on anything else.
type stubDealService struct {
	ports.DealService
	listFn      func(ctx context.Context, in ports.ListDealsInput) (*ports.DealPage, error)
	getSlugFn   func(ctx context.Context, slug string) (*domain.Deal, error)
	getIDFn     func(ctx context.Context, id string) (*domain.Deal, error)
	createFn    func(ctx context.Context, actor ports.Actor, in ports.DealInput) (*domain.Deal, error)
	voteFn      func(ctx context.Context, actor ports.Actor, id string, value int) (*domain.Deal, error)
	setStatusFn func(ctx context.Context, actor ports.Actor, id string, status domain.DealStatus) (*domain.Deal, error)
}

func (s *stubDealService) List(ctx context.Context, in ports.ListDealsInput) (*ports.DealPage, error) {
	return s.listFn(ctx, in)
}

func (s *stubDealService) GetBySlug(ctx context.Context, slug string) (*domain.Deal, error) {
	return s.getSlugFn(ctx, slug)
}

func (s *stubDealService) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	return s.getIDFn(ctx, id)
}

func (s *stubDealService) Create(ctx context.Context, actor ports.Actor, in ports.DealInput) (*domain.Deal, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubDealService) Vote(ctx context.Context, actor ports.Actor, id string, value int) (*domain.Deal, error) {
	return s.voteFn(ctx, actor, id, value)
}

func (s *stubDealService) SetStatus(ctx context.Context, actor ports.Actor, id string, status domain.DealStatus) (*domain.Deal, error) {
	return s.setStatusFn(ctx, actor, id, status)
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []ports.ActivityInput
}

func (r *recordingDispatcher) Enqueue(event ports.ActivityInput) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return true
}

func publishedDeal() *domain.Deal {
	return &domain.Deal{
		ID:           "d1",
		Title:        "Noise cancelling headphones",
		Slug:         "noise-cancelling-headphones",
		Price:        199,
		URL:          "https://www.amazon.com/dp/B0?tag=dealspot-20",
		Status:       domain.DealPublished,
		LikeCount:    5,
		DislikeCount: 2,
	}
}

func TestDealHandler_List_ParsesQuery(t *testing.T) {
	e := newTestEcho()
	stub := &stubDealService{
		listFn: func(ctx context.Context, in ports.ListDealsInput) (*ports.DealPage, error) {
			if in.Search != "tv" || in.StoreSlug != "acme" || in.TypeSlug != "tech" || in.Sort != "price_asc" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Featured == nil || !*in.Featured || in.MinPrice == nil || *in.MinPrice != 10 || in.MaxPrice != nil {
				t.Fatalf("unexpected pointer filters: %+v", in)
			}
			if in.Page != 2 || in.Limit != 5 || len(in.Statuses) != 0 {
				t.Fatalf("unexpected paging/statuses: %+v", in)
			}
			return &ports.DealPage{Items: []*domain.Deal{publishedDeal()}, Total: 6, Page: 2, Limit: 5, TotalPages: 2}, nil
		},
	}
	h := NewDealHandler(stub, nil)

	c, rec := newCtx(e, http.MethodGet, "/v1/deals?q=tv&store=acme&type=tech&featured=true&minPrice=10&sort=price_asc&page=2&limit=5", nil, nil)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listDealsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Score != 3 || resp.Data[0].Links.Go != "/v1/deals/d1/go" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
	if resp.Pagination.Total != 6 || resp.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestDealHandler_List_BadNumber(t *testing.T) {
	e := newTestEcho()
	h := NewDealHandler(&stubDealService{}, nil)

	c, _ := newCtx(e, http.MethodGet, "/v1/deals?minPrice=cheap", nil, nil)
	if code := httpStatus(t, h.List(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestDealHandler_List_QueryValidation(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{"non-numeric page", "/v1/deals?page=two", "page has an invalid value"},
		{"non-boolean featured", "/v1/deals?featured=maybe", "featured has an invalid value"},
		{"negative limit", "/v1/deals?limit=-5", "limit must be greater than or equal to 0"},
		{"negative max price", "/v1/deals?maxPrice=-1", "maxPrice must be greater than or equal to 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			h := NewDealHandler(&stubDealService{}, nil)

			c, _ := newCtx(e, http.MethodGet, tt.target, nil, nil)
			err := h.List(c)
			if code := httpStatus(t, err); code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
			if msg := err.(*echo.HTTPError).Message; msg != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, msg)
			}
		})
	}
}

func TestDealHandler_List_AbsentFiltersStayNil(t *testing.T) {
	e := newTestEcho()
	var got ports.ListDealsInput
	h := NewDealHandler(&stubDealService{
		listFn: func(ctx context.Context, in ports.ListDealsInput) (*ports.DealPage, error) {
			got = in
			return &ports.DealPage{Page: 1}, nil
		},
	}, nil)

	c, _ := newCtx(e, http.MethodGet, "/v1/deals?featured=&q=lamp", nil, nil)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Featured != nil || got.MinPrice != nil || got.MaxPrice != nil {
		t.Fatalf("expected nil optional filters, got %+v", got)
	}
	if got.Page != 1 || got.Limit != 0 || got.Search != "lamp" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestDealHandler_DashboardList_Statuses(t *testing.T) {
	e := newTestEcho()
	var got []domain.DealStatus
	stub := &stubDealService{
		listFn: func(ctx context.Context, in ports.ListDealsInput) (*ports.DealPage, error) {
			got = in.Statuses
			return &ports.DealPage{}, nil
		},
	}
	h := NewDealHandler(stub, nil)

	c, _ := newCtx(e, http.MethodGet, "/v1/dashboard/deals", nil, adminActor)
	if err := h.DashboardList(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected every status without a filter, got %v", got)
	}

	c, _ = newCtx(e, http.MethodGet, "/v1/dashboard/deals?status=pending,rejected", nil, adminActor)
	if err := h.DashboardList(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(got) != 2 || got[0] != domain.DealPending || got[1] != domain.DealRejected {
		t.Fatalf("unexpected statuses: %v", got)
	}

	c, _ = newCtx(e, http.MethodGet, "/v1/dashboard/deals?status=archived", nil, adminActor)
	if code := httpStatus(t, h.DashboardList(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestDealHandler_Get_TracksView(t *testing.T) {
	e := newTestEcho()
	dispatcher := &recordingDispatcher{}
	stub := &stubDealService{
		getSlugFn: func(ctx context.Context, slug string) (*domain.Deal, error) {
			if slug != "noise-cancelling-headphones" {
				t.Fatalf("unexpected slug %q", slug)
			}
			return publishedDeal(), nil
		},
	}
	h := NewDealHandler(stub, dispatcher)

	c, rec := newCtx(e, http.MethodGet, "/", nil, regularActor)
	c.SetParamNames("slug")
	c.SetParamValues("noise-cancelling-headphones")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("expected one activity event, got %d", len(dispatcher.events))
	}
	ev := dispatcher.events[0]
	if ev.DealID != "d1" || ev.Kind != "view" || ev.VisitorID != "u-1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDealHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	dispatcher := &recordingDispatcher{}
	h := NewDealHandler(&stubDealService{
		getSlugFn: func(ctx context.Context, slug string) (*domain.Deal, error) {
			return nil, domain.ErrDealNotFound
		},
	}, dispatcher)

	c, _ := newCtx(e, http.MethodGet, "/", nil, nil)
	if err := h.Get(c); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
	if len(dispatcher.events) != 0 {
		t.Fatalf("missing deals must not be tracked")
	}
}

func TestDealHandler_Go_RedirectsAndTracksClick(t *testing.T) {
	e := newTestEcho()
	dispatcher := &recordingDispatcher{}
	h := NewDealHandler(&stubDealService{
		getIDFn: func(ctx context.Context, id string) (*domain.Deal, error) {
			return publishedDeal(), nil
		},
	}, dispatcher)

	c, rec := newCtx(e, http.MethodGet, "/", nil, nil)
	c.Request().Header.Set("X-Real-IP", "203.0.113.7")
	c.Request().Header.Set("Referer", "https://news.example/")
	c.SetParamNames("id")
	c.SetParamValues("d1")

	if err := h.Go(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://www.amazon.com/dp/B0?tag=dealspot-20" {
		t.Fatalf("unexpected location %q", loc)
	}
	ev := dispatcher.events[0]
	if ev.Kind != "click" || ev.VisitorID != "203.0.113.7" || ev.Referrer != "https://news.example/" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDealHandler_Go_PendingHidden(t *testing.T) {
	e := newTestEcho()
	h := NewDealHandler(&stubDealService{
		getIDFn: func(ctx context.Context, id string) (*domain.Deal, error) {
			d := publishedDeal()
			d.Status = domain.DealPending
			return d, nil
		},
	}, &recordingDispatcher{})

	c, _ := newCtx(e, http.MethodGet, "/", nil, nil)
	if err := h.Go(c); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestDealHandler_Vote(t *testing.T) {
	e := newTestEcho()
	h := NewDealHandler(&stubDealService{
		voteFn: func(ctx context.Context, actor ports.Actor, id string, value int) (*domain.Deal, error) {
			if actor.UserID != "u-1" || id != "d1" || value != -1 {
				t.Fatalf("unexpected args: %+v %s %d", actor, id, value)
			}
			d := publishedDeal()
			d.DislikeCount = 3
			return d, nil
		},
	}, nil)

	c, rec := newCtx(e, http.MethodPost, "/", strings.NewReader(`{"value":-1}`), regularActor)
	c.SetParamNames("id")
	c.SetParamValues("d1")

	if err := h.Vote(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp voteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp != (voteResponse{Likes: 5, Dislikes: 3, Score: 2}) {
		t.Fatalf("unexpected counters: %+v", resp)
	}
}

func TestDealHandler_Vote_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewDealHandler(&stubDealService{}, nil)

	c, _ := newCtx(e, http.MethodPost, "/", strings.NewReader(`{"value":2}`), regularActor)
	if code := httpStatus(t, h.Vote(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}

	c, _ = newCtx(e, http.MethodPost, "/", strings.NewReader(`{"value":1}`), nil)
	if code := httpStatus(t, h.Vote(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", code)
	}
}

func TestDealHandler_Create(t *testing.T) {
	e := newTestEcho()
	h := NewDealHandler(&stubDealService{
		createFn: func(ctx context.Context, actor ports.Actor, in ports.DealInput) (*domain.Deal, error) {
			if actor.Role != "seller" || in.Title != "Desk lamp" || in.Price != 20 || in.OriginalPrice != 25 || !in.NeverExpires {
				t.Fatalf("unexpected args: %+v %+v", actor, in)
			}
			return &domain.Deal{ID: "d9", Title: in.Title, Slug: "desk-lamp", Status: domain.DealPending, DiscountPercent: 20}, nil
		},
	}, nil)

	body := `{"title":"Desk lamp","price":20,"original_price":25,"url":"https://shop.example/lamp","never_expires":true}`
	c, rec := newCtx(e, http.MethodPost, "/v1/my-store/deals", strings.NewReader(body), sellerActor)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp dealResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "pending" || resp.DiscountPercent != 20 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDealHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewDealHandler(&stubDealService{}, nil)

	c, _ := newCtx(e, http.MethodPost, "/", strings.NewReader(`{"title":"","url":"not a url"}`), adminActor)
	err := h.Create(c)
	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if !strings.Contains(err.Error(), "title is required") || !strings.Contains(err.Error(), "url must be a valid URL") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestDealHandler_SetStatus_ForwardsDomainError(t *testing.T) {
	e := newTestEcho()
	h := NewDealHandler(&stubDealService{
		setStatusFn: func(ctx context.Context, actor ports.Actor, id string, status domain.DealStatus) (*domain.Deal, error) {
			if status != domain.DealPublished {
				t.Fatalf("unexpected status %q", status)
			}
			return nil, domain.ErrForbidden
		},
	}, nil)

	c, _ := newCtx(e, http.MethodPatch, "/", strings.NewReader(`{"status":"published"}`), sellerActor)
	if err := h.SetStatus(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
