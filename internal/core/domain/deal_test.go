package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		price, original float64
		want            int
	}{
		{80, 100, 20},
		{19.99, 29.99, 33},
		{0, 50, 100},
		{10, 10, 0},
		{10, 0, 0},
		{66.5, 100, 34}, // 33.5 rounds half up
	}
	for _, tt := range tests {
		if got := DiscountPercent(tt.price, tt.original); got != tt.want {
			t.Errorf("DiscountPercent(%v, %v) = %d, want %d", tt.price, tt.original, got, tt.want)
		}
	}
}

func TestDeal_ApplyPricing(t *testing.T) {
	d := &Deal{Price: 75, OriginalPrice: 100}
	if err := d.ApplyPricing(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DiscountPercent != 25 {
		t.Fatalf("expected 25%%, got %d", d.DiscountPercent)
	}

	d = &Deal{Price: 120, OriginalPrice: 100}
	if err := d.ApplyPricing(); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	d = &Deal{Price: 10, DiscountPercent: 40}
	if err := d.ApplyPricing(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DiscountPercent != 0 {
		t.Fatalf("expected discount reset without original price, got %d", d.DiscountPercent)
	}
}

func TestDeal_NormalizeExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	d := &Deal{NeverExpires: true, ExpiresAt: &future}
	if err := d.NormalizeExpiry(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ExpiresAt != nil {
		t.Fatalf("never-expiring deal must not carry an expiry")
	}

	d = &Deal{ExpiresAt: &past}
	if err := d.NormalizeExpiry(now); !errors.Is(err, ErrInvalidExpiry) {
		t.Fatalf("expected ErrInvalidExpiry, got %v", err)
	}

	d = &Deal{ExpiresAt: &future}
	if err := d.NormalizeExpiry(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeal_IsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := map[string]struct {
		deal Deal
		want bool
	}{
		"no expiry":      {Deal{Status: DealPublished}, false},
		"never expires":  {Deal{NeverExpires: true, ExpiresAt: &past}, false},
		"past expiry":    {Deal{ExpiresAt: &past}, true},
		"future expiry":  {Deal{ExpiresAt: &future}, false},
		"status expired": {Deal{Status: DealExpired}, true},
	}
	for name, tc := range cases {
		if got := tc.deal.IsExpired(now); got != tc.want {
			t.Errorf("%s: IsExpired = %v, want %v", name, got, tc.want)
		}
	}
}

func TestVoteDelta(t *testing.T) {
	tests := []struct {
		prev, next      int
		likes, dislikes int64
	}{
		{0, 1, 1, 0},
		{0, -1, 0, 1},
		{1, -1, -1, 1},
		{-1, 1, 1, -1},
		{1, 1, 0, 0},
	}
	for _, tt := range tests {
		l, d := VoteDelta(tt.prev, tt.next)
		if l != tt.likes || d != tt.dislikes {
			t.Errorf("VoteDelta(%d, %d) = (%d, %d), want (%d, %d)", tt.prev, tt.next, l, d, tt.likes, tt.dislikes)
		}
	}
}

func TestPageFor(t *testing.T) {
	p := PageFor(3, 20)
	if p.Skip != 40 || p.Limit != 20 {
		t.Fatalf("unexpected page: %+v", p)
	}
	if p := PageFor(0, 1000); p.Skip != 0 || p.Limit != MaxPageSize {
		t.Fatalf("expected clamped page, got %+v", p)
	}
	if got := TotalPages(41, 20); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
}
