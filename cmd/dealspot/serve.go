package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dealspot/dealspot/internal/affiliate"
	"github.com/dealspot/dealspot/internal/api"
	"github.com/dealspot/dealspot/internal/api/handler"
	"github.com/dealspot/dealspot/internal/core/service"
	mongodb "github.com/dealspot/dealspot/internal/infrastructure/db/mongo"
	redisdb "github.com/dealspot/dealspot/internal/infrastructure/db/redis"
	"github.com/dealspot/dealspot/internal/infrastructure/queue"
	"github.com/dealspot/dealspot/internal/preview"
	"github.com/dealspot/dealspot/internal/scheduler"
	"github.com/dealspot/dealspot/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	redisKeyPrefix  = "dealspot:"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with its background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	if err := mongodb.EnsureIndexes(ctx, a.db); err != nil {
		return err
	}

	rewriter, err := loadRewriter(a.cfg.AffiliateRulesPath)
	if err != nil {
		return err
	}

	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()

	if a.cfg.AffiliateRulesPath != "" {
		w := affiliate.NewWatcher(a.cfg.AffiliateRulesPath, rewriter, logger.Component("affiliate"))
		go func() {
			if err := w.Run(workCtx); err != nil {
				log.Error().Err(err).Msg("affiliate rules watcher stopped")
			}
		}()
	}

	r := a.repositories()

	users := service.NewUserService(r.users, logger.Component("users"))
	deals := service.NewDealService(service.DealDeps{
		Deals:      r.deals,
		Stores:     r.stores,
		Types:      r.types,
		UserStores: r.userStores,
		Users:      r.users,
		Reactions:  r.reactions,
		Settings:   r.settings,
		Rewriter:   rewriter,
	}, logger.Component("deals"))

	sched := scheduler.New(deals, a.cfg.ExpirySchedule, logger.Component("scheduler"))
	if err := sched.Start(workCtx); err != nil {
		return err
	}
	defer sched.Stop()

	activity := service.NewActivityService(
		mongodb.NewActivityRepository(a.db),
		redisdb.NewDedupChecker(a.rdb, redisKeyPrefix, a.cfg.Activity.DedupWindow),
		logger.Component("activity"),
	)
	dispatcher := queue.NewDispatcher(a.cfg.Activity.Workers, activity, logger.Component("dispatcher"))
	dispatcher.Start(workCtx)

	e := api.NewRouter(api.Deps{
		JWTSecret:      a.cfg.JWTSecret,
		RateLimitRPS:   a.cfg.RateLimit.RPS,
		RateLimitBurst: a.cfg.RateLimit.Burst,
		Log:            log,

		Auth:        service.NewAuthService(r.users, a.cfg.JWTSecret, a.cfg.JWTTTL),
		Users:       users,
		Deals:       deals,
		Catalog:     service.NewCatalogService(r.stores, r.types, r.coupons, logger.Component("catalog")),
		Comments:    service.NewCommentService(r.comments, r.deals, r.users, r.reactions, logger.Component("comments")),
		Subscribers: service.NewSubscriberService(r.subscribers, logger.Component("subscribers")),
		Settings:    service.NewSettingsService(r.settings),
		UserStores:  service.NewUserStoreService(r.userStores, r.settings, logger.Component("user-stores")),
		Stats: service.NewStatsService(
			r.stats,
			redisdb.NewJSONCache(a.rdb, redisKeyPrefix),
			a.cfg.StatsCacheTTL,
			logger.Component("stats"),
		),
		Exports:    r.exportService(logger.Component("export")),
		Previewer:  preview.New(a.cfg.PreviewTimeout),
		Dispatcher: dispatcher,
		Health: map[string]handler.HealthCheck{
			"mongodb": handler.MongoCheck(a.db),
			"redis":   handler.RedisCheck(a.rdb),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.cfg.Port).Msg("http server listening")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
			cancelWork()
			dispatcher.Wait()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	// Stop producers first, then let workers drain what is already queued.
	cancelWork()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
	return nil
}
