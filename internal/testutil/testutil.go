// Package testutil provides testing utilities and helpers for the storefront services.
package testutil

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestRedisConfig holds the connection parameters for the test Redis instance.
type TestRedisConfig struct {
	Host string
	Port string
	DB   int
}

// DefaultTestRedisConfig returns the default test Redis configuration,
// overridable via TEST_REDIS_HOST / TEST_REDIS_PORT / TEST_REDIS_DB.
func DefaultTestRedisConfig() TestRedisConfig {
	db := 15
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	return TestRedisConfig{
		Host: getEnvOrDefault("TEST_REDIS_HOST", "localhost"),
		Port: getEnvOrDefault("TEST_REDIS_PORT", "6379"),
		DB:   db,
	}
}

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	Cleanup(func())
}

// SetupTestRedis connects to the test Redis instance and returns a client
// scoped to an isolated DB. The test is skipped when Redis is unreachable
// unless TEST_REDIS_REQUIRED is truthy. The selected DB is flushed on setup
// and the client closed on cleanup.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	cfg := DefaultTestRedisConfig()
	client := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort(cfg.Host, cfg.Port),
		DB:   cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if requireRedis() {
			t.Fatal("Test redis not available:", err)
		}
		t.Skip("Test redis not available:", err)
		return nil
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("flush test redis db %d: %v", cfg.DB, err)
	}

	t.Cleanup(func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer flushCancel()
		if err := client.FlushDB(flushCtx).Err(); err != nil {
			t.Logf("flush test redis db failed: %v", err)
		}
		if err := client.Close(); err != nil {
			t.Logf("test redis close failed: %v", err)
		}
	})

	return client
}

// UniqueKeyPrefix returns a per-test key prefix so parallel tests sharing a
// Redis DB cannot collide.
func UniqueKeyPrefix(name string) string {
	return fmt.Sprintf("test:%s:%d:", name, time.Now().UnixNano())
}

func requireRedis() bool {
	return envBool("TEST_REDIS_REQUIRED")
}

func envBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	}
	return false
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
