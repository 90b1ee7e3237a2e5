package config

import "strings"

// Storage backends supported for the durable key-value store.
const (
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"
)

// StorageConfig contains durable key-value store configuration.
type StorageConfig struct {
	// Backend selects the store implementation: "redis" or "memory".
	// The memory backend keeps nothing across restarts and exists for
	// development and tests.
	Backend string `env:"STORAGE_BACKEND" envDefault:"redis"`

	// Redis connection settings.
	Redis RedisConfig `envPrefix:"REDIS_"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	Addr     string `env:"ADDR"       envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"   envDefault:""`
	DB       int    `env:"DB"         envDefault:"0"`

	// KeyPrefix namespaces every storefront key so the database can be
	// shared with other tenants.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"storefront:"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if s.Backend != StorageBackendMemory {
		s.Backend = StorageBackendRedis
	}
	if s.Redis.DB < 0 {
		s.Redis.DB = 0
	}
}
