package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// details on available environment variables:
//   - http.go: HTTP server and session cookie configuration
//   - storage.go: durable key-value store configuration
//   - catalog.go: remote store API configuration
//   - cart.go: cart retention configuration
type AppConfig struct {
	// IsDev controls development mode behavior (in-memory storage default,
	// relaxed cookies). Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Durable storage configuration
	Storage StorageConfig

	// Remote catalog/auth API configuration
	Catalog CatalogConfig

	// Cart persistence configuration
	Cart CartConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Storage.Sanitize()
	c.Catalog.Sanitize()
	c.Cart.Sanitize()
}
