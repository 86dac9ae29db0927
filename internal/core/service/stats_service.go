package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

const (
	statsCacheKey = "dashboard"
	topListSize   = 10
	dailyWindow   = 30 * 24 * time.Hour
)

// Cache abstracts the JSON cache (Redis) the dashboard stats are kept in.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type StatsService struct {
	repo  ports.StatsRepository
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

func NewStatsService(repo ports.StatsRepository, cache Cache, ttl time.Duration, log zerolog.Logger) *StatsService {
	return &StatsService{repo: repo, cache: cache, ttl: ttl, log: log, now: time.Now}
}

var _ ports.StatsService = (*StatsService)(nil)

// Dashboard returns the cached overview, recomputing it with the five
// aggregations in parallel on a miss.
func (s *StatsService) Dashboard(ctx context.Context) (*domain.Stats, error) {
	var cached domain.Stats
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, statsCacheKey, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("stats cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	now := s.now().UTC()
	stats := &domain.Stats{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.repo.Totals(gctx)
		stats.Totals = t
		return err
	})
	g.Go(func() error {
		m, err := s.repo.DealsByStatus(gctx)
		stats.DealsByStatus = m
		return err
	})
	g.Go(func() error {
		top, err := s.repo.TopStores(gctx, topListSize)
		stats.TopStores = top
		return err
	})
	g.Go(func() error {
		top, err := s.repo.TopDeals(gctx, topListSize)
		stats.TopDeals = top
		return err
	})
	g.Go(func() error {
		since := now.Add(-dailyWindow).Truncate(24 * time.Hour)
		days, err := s.repo.DailyNewDeals(gctx, since)
		stats.DailyNewDeals = days
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey, stats, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}
