package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDedupWindow is how long a (deal, kind, visitor) triple stays counted.
const DefaultDedupWindow = time.Hour

// DedupChecker remembers recent deal activity per visitor so views and clicks
// are counted once per window. Keys live under
// <prefix>activity:<deal_id>:<kind>:<visitor_id>.
type DedupChecker struct {
	client *redis.Client
	prefix string
	window time.Duration
}

// NewDedupChecker wraps client. A non-positive window uses DefaultDedupWindow.
func NewDedupChecker(client *redis.Client, prefix string, window time.Duration) *DedupChecker {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &DedupChecker{client: client, prefix: prefix, window: window}
}

// IsDuplicate reports whether the visitor is still inside the window for
// this kind of activity on the deal.
func (d *DedupChecker) IsDuplicate(ctx context.Context, dealID, kind, visitorID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(dealID, kind, visitorID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup lookup %s/%s: %w", dealID, kind, err)
	}
	return n > 0, nil
}

// Mark opens the window for the triple. An open window is left as is, so the
// window is anchored at the first counted event.
func (d *DedupChecker) Mark(ctx context.Context, dealID, kind, visitorID string) error {
	if err := d.client.SetNX(ctx, d.key(dealID, kind, visitorID), time.Now().Unix(), d.window).Err(); err != nil {
		return fmt.Errorf("dedup mark %s/%s: %w", dealID, kind, err)
	}
	return nil
}

func (d *DedupChecker) key(dealID, kind, visitorID string) string {
	// IPv6 visitors contain colons; keep the key splittable on ':'.
	visitor := strings.ReplaceAll(visitorID, ":", "_")
	return d.prefix + "activity:" + dealID + ":" + kind + ":" + visitor
}
