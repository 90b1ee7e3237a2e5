package config

import "time"

// CatalogConfig contains configuration for the remote catalog/auth API.
type CatalogConfig struct {
	// BaseURL is the root of the remote store API.
	BaseURL string `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`

	// Timeout bounds each remote call.
	Timeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to catalog configuration values.
func (c *CatalogConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}
