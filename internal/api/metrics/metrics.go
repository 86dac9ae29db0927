// Package metrics defines and registers all custom Prometheus metrics for the
// DealSpot API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dealspot"

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityProcessedTotal counts view/click events that updated a counter.
// Label:
//   - kind: "view" or "click"
var ActivityProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_processed_total",
		Help:      "Total number of deal activity events successfully processed.",
	},
	[]string{"kind"},
)

// ActivityErrorsTotal counts activity events that failed processing.
// Label:
//   - reason: "invalid_kind", "deal_not_found" or "update_failed"
var ActivityErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of deal activity events that failed processing.",
	},
	[]string{"reason"},
)

// ActivityDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var ActivityDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dedup_total",
		Help:      "Total number of activity deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ActivityDroppedTotal counts events discarded because a worker queue was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped on a full dispatcher queue.",
	},
)

// ── Deal metrics ──────────────────────────────────────────────────────────────

// VotesTotal counts accepted deal votes.
// Label:
//   - value: "up" or "down"
var VotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Total number of deal votes recorded.",
	},
	[]string{"value"},
)

// DealsExpiredTotal counts deals flipped to expired by the scheduler.
var DealsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deals_expired_total",
		Help:      "Total number of deals marked expired by the expiry job.",
	},
)

// ── Export metrics ────────────────────────────────────────────────────────────

// ExportsTotal counts finished exports.
// Labels:
//   - entity: "deals", "users", "subscribers", "stores", "comments"
//   - mode:   "direct" or "stream"
//   - result: "ok", "empty" or "error"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of exports, by entity, delivery mode and result.",
	},
	[]string{"entity", "mode", "result"},
)

// ExportDuration measures how long an export takes from request to last byte.
// Label:
//   - mode: "direct" or "stream"
var ExportDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_duration_seconds",
		Help:      "Duration of export requests.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
	[]string{"mode"},
)
