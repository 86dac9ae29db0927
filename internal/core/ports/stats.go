package ports

import (
	"context"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// StatsRepository runs the dashboard aggregations.
type StatsRepository interface {
	Totals(ctx context.Context) (domain.StatsTotals, error)
	DealsByStatus(ctx context.Context) (map[string]int, error)
	TopStores(ctx context.Context, limit int) ([]domain.StoreStat, error)
	TopDeals(ctx context.Context, limit int) ([]domain.DealStat, error)
	DailyNewDeals(ctx context.Context, since time.Time) ([]domain.DailyCount, error)
}

type StatsService interface {
	Dashboard(ctx context.Context) (*domain.Stats, error)
}
