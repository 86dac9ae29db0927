package redis

import (
	"strings"
	"testing"
	"time"
)

func TestDedupChecker_Key(t *testing.T) {
	d := NewDedupChecker(nil, "dealspot:", 0)

	tests := []struct {
		visitor string
		want    string
	}{
		{"u-42", "dealspot:activity:665f:click:u-42"},
		{"203.0.113.9", "dealspot:activity:665f:click:203.0.113.9"},
		{"2001:db8::1", "dealspot:activity:665f:click:2001_db8__1"},
	}
	for _, tt := range tests {
		got := d.key("665f", "click", tt.visitor)
		if got != tt.want {
			t.Errorf("key(%q) = %q, want %q", tt.visitor, got, tt.want)
		}
		if n := strings.Count(got, ":"); n != 4 {
			t.Errorf("key %q has %d separators, want 4", got, n)
		}
	}
}

func TestDedupChecker_Window(t *testing.T) {
	if d := NewDedupChecker(nil, "", 0); d.window != DefaultDedupWindow {
		t.Errorf("expected default window, got %v", d.window)
	}
	if d := NewDedupChecker(nil, "", 10*time.Minute); d.window != 10*time.Minute {
		t.Errorf("expected 10m window, got %v", d.window)
	}
}
