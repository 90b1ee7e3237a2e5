package config

import "time"

// CartConfig contains cart persistence configuration.
type CartConfig struct {
	// Retention is how long a persisted cart snapshot stays valid. Snapshots
	// older than this are evicted on rehydration.
	Retention time.Duration `env:"CART_RETENTION" envDefault:"720h"`

	// MaxSnapshots caps the cart snapshots kept per browser namespace before
	// the oldest are evicted.
	MaxSnapshots int `env:"CART_MAX_SNAPSHOTS" envDefault:"100"`
}

// Sanitize applies guardrails to cart configuration values.
func (c *CartConfig) Sanitize() {
	if c.Retention <= 0 {
		c.Retention = 720 * time.Hour
	}
	if c.MaxSnapshots < 1 {
		c.MaxSnapshots = 100
	}
}
