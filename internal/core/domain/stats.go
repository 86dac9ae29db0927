package domain

import "time"

// Stats is the dashboard overview.
type Stats struct {
	Totals        StatsTotals    `json:"totals"`
	DealsByStatus map[string]int `json:"deals_by_status"`
	TopStores     []StoreStat    `json:"top_stores"`
	TopDeals      []DealStat     `json:"top_deals"`
	DailyNewDeals []DailyCount   `json:"daily_new_deals"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

type StatsTotals struct {
	Deals       int64 `json:"deals"`
	Stores      int64 `json:"stores"`
	Users       int64 `json:"users"`
	Comments    int64 `json:"comments"`
	Subscribers int64 `json:"subscribers"`
}

type StoreStat struct {
	StoreID   string `json:"store_id"`
	Name      string `json:"name"`
	DealCount int    `json:"deal_count"`
}

type DealStat struct {
	DealID string `json:"deal_id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Clicks int64  `json:"clicks"`
	Views  int64  `json:"views"`
}

type DailyCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}
