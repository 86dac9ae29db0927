package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Activity  ActivityConfig
	RateLimit RateLimitConfig

	AffiliateRulesPath string        `env:"AFFILIATE_RULES_PATH"`
	ExpirySchedule     string        `env:"EXPIRY_SCHEDULE, default=*/15 * * * *"`
	PreviewTimeout     time.Duration `env:"PREVIEW_TIMEOUT, default=8s"`
	StatsCacheTTL      time.Duration `env:"STATS_CACHE_TTL, default=60s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dealspot"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,           default=localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB,             default=0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE,      default=0"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS, default=0"`
	Timeout      time.Duration `env:"REDIS_TIMEOUT,        default=5s"`
	IOTimeout    time.Duration `env:"REDIS_IO_TIMEOUT,     default=3s"`
}

type ActivityConfig struct {
	Workers     int           `env:"ACTIVITY_WORKERS,      default=8"`
	DedupWindow time.Duration `env:"ACTIVITY_DEDUP_WINDOW, default=1h"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS,   default=5"`
	Burst int     `env:"RATE_LIMIT_BURST, default=20"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
