package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dealspot/dealspot/internal/affiliate"
	"github.com/dealspot/dealspot/internal/core/service"
	"github.com/dealspot/dealspot/internal/infrastructure/config"
	mongodb "github.com/dealspot/dealspot/internal/infrastructure/db/mongo"
	redisdb "github.com/dealspot/dealspot/internal/infrastructure/db/redis"
	"github.com/dealspot/dealspot/pkg/logger"
)

// app holds the process-wide connections shared by every subcommand.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *mongo.Client
	db     *mongo.Database
	rdb    *redis.Client
}

// bootstrap loads configuration, initialises logging and connects to MongoDB.
// Redis is connected only when withRedis is set.
func bootstrap(ctx context.Context, withRedis bool) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "dealspot",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, client: client, db: db}

	if withRedis {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			Timeout:      cfg.Redis.Timeout,
			IOTimeout:    cfg.Redis.IOTimeout,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		a.rdb = rdb
	}
	return a, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close failed")
		}
	}
	if err := a.client.Disconnect(ctx); err != nil {
		a.log.Warn().Err(err).Msg("mongo disconnect failed")
	}
}

// repositories is the full set of MongoDB adapters.
type repositories struct {
	deals       *mongodb.DealRepository
	stores      *mongodb.StoreRepository
	types       *mongodb.DealTypeRepository
	coupons     *mongodb.CouponRepository
	userStores  *mongodb.UserStoreRepository
	users       *mongodb.MongoUserRepository
	comments    *mongodb.CommentRepository
	reactions   *mongodb.ReactionRepository
	subscribers *mongodb.SubscriberRepository
	settings    *mongodb.SettingsRepository
	stats       *mongodb.StatsRepository
}

func (a *app) repositories() repositories {
	return repositories{
		deals:       mongodb.NewDealRepository(a.db),
		stores:      mongodb.NewStoreRepository(a.db),
		types:       mongodb.NewDealTypeRepository(a.db),
		coupons:     mongodb.NewCouponRepository(a.db),
		userStores:  mongodb.NewUserStoreRepository(a.db),
		users:       mongodb.NewUserRepository(a.db),
		comments:    mongodb.NewCommentRepository(a.db),
		reactions:   mongodb.NewReactionRepository(a.db),
		subscribers: mongodb.NewSubscriberRepository(a.db),
		settings:    mongodb.NewSettingsRepository(a.db),
		stats:       mongodb.NewStatsRepository(a.db),
	}
}

func (r repositories) exportService(log zerolog.Logger) *service.ExportService {
	return service.NewExportService(service.ExportDeps{
		Deals:       r.deals,
		Users:       r.users,
		Subscribers: r.subscribers,
		Stores:      r.stores,
		Types:       r.types,
		Comments:    r.comments,
	}, log)
}

// loadRewriter builds the affiliate table from the configured file, or from
// the built-in rules when no file is configured.
func loadRewriter(path string) (*affiliate.Rewriter, error) {
	rules := affiliate.DefaultRules()
	if path != "" {
		loaded, err := affiliate.LoadRules(path)
		if err != nil {
			return nil, fmt.Errorf("affiliate rules: %w", err)
		}
		rules = loaded
	}
	return affiliate.NewRewriter(rules)
}
