package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

type stubSubscriberService struct {
	ports.SubscriberService
	subscribed   []string
	unsubscribed []string
	err          error
}

func (s *stubSubscriberService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.subscribed = append(s.subscribed, email)
	return &domain.Subscriber{ID: "s-1", Email: email, Active: true, SubscribedAt: time.Now()}, nil
}

func (s *stubSubscriberService) Unsubscribe(ctx context.Context, email string) error {
	if s.err != nil {
		return s.err
	}
	s.unsubscribed = append(s.unsubscribed, email)
	return nil
}

func TestSubscriberHandler_Subscribe(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  error
	}{
		{name: "created", body: `{"email":"a@example.com"}`, wantCode: http.StatusCreated},
		{name: "invalid email", body: `{"email":"nope"}`, wantCode: http.StatusBadRequest},
		{name: "missing email", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "duplicate", body: `{"email":"a@example.com"}`, err: domain.ErrSubscriberExists, wantErr: domain.ErrSubscriberExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			svc := &stubSubscriberService{err: tt.err}
			h := NewSubscriberHandler(svc)

			c, rec := newCtx(e, http.MethodPost, "/v1/subscribers", strings.NewReader(tt.body), nil)
			err := h.Subscribe(c)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			case tt.wantCode == http.StatusBadRequest:
				if got := httpStatus(t, err); got != tt.wantCode {
					t.Fatalf("expected %d, got %d", tt.wantCode, got)
				}
				if len(svc.subscribed) != 0 {
					t.Fatalf("service must not be called on invalid input")
				}
			default:
				if err != nil {
					t.Fatalf("handler error: %v", err)
				}
				if rec.Code != tt.wantCode {
					t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
				}
			}
		})
	}
}

func TestSubscriberHandler_Unsubscribe(t *testing.T) {
	e := newTestEcho()
	svc := &stubSubscriberService{}
	h := NewSubscriberHandler(svc)

	c, rec := newCtx(e, http.MethodPost, "/v1/subscribers/unsubscribe", strings.NewReader(`{"email":"a@example.com"}`), nil)
	if err := h.Unsubscribe(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.unsubscribed) != 1 || svc.unsubscribed[0] != "a@example.com" {
		t.Errorf("unexpected calls %v", svc.unsubscribed)
	}
}
