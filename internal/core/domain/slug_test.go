package domain

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"50% off Nintendo Switch!", "50-off-nintendo-switch"},
		{"  Crème Brûlée  Kit ", "creme-brulee-kit"},
		{"Best---Buy", "best-buy"},
		{"!!!", "item"},
		{"", "item"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("ab ", 100))
	if len(got) > maxSlugLength {
		t.Fatalf("slug too long: %d", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("slug must not end with a dash: %q", got)
	}
}

func TestSlugCandidate(t *testing.T) {
	if got := SlugCandidate("deal", 1); got != "deal" {
		t.Fatalf("got %q", got)
	}
	if got := SlugCandidate("deal", 3); got != "deal-3" {
		t.Fatalf("got %q", got)
	}
}
