package redis

import (
	"context"
	"testing"
	"time"
)

func TestConfigOptions_Defaults(t *testing.T) {
	opts := Config{Addr: "cache:6379", DB: 2}.options()

	if opts.Addr != "cache:6379" || opts.DB != 2 {
		t.Fatalf("unexpected address settings %s/%d", opts.Addr, opts.DB)
	}
	if opts.ReadTimeout != defaultIOTimeout || opts.WriteTimeout != defaultIOTimeout {
		t.Fatalf("expected default io timeouts, got %v/%v", opts.ReadTimeout, opts.WriteTimeout)
	}
	if opts.PoolSize != 0 || opts.MinIdleConns != 0 {
		t.Fatalf("pool settings must be left to go-redis defaults, got %d/%d", opts.PoolSize, opts.MinIdleConns)
	}
}

func TestConfigOptions_Overrides(t *testing.T) {
	opts := Config{
		Addr:         "cache:6379",
		Password:     "s3cret",
		PoolSize:     32,
		MinIdleConns: 4,
		IOTimeout:    250 * time.Millisecond,
	}.options()

	if opts.Password != "s3cret" || opts.PoolSize != 32 || opts.MinIdleConns != 4 {
		t.Fatalf("overrides not applied: %+v", opts)
	}
	if opts.ReadTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms read timeout, got %v", opts.ReadTimeout)
	}
}

func TestConnect_UnreachableFailsFast(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("connect did not honour timeout: %v", elapsed)
	}
}
