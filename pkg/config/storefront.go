package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// StorefrontConfig configures the storefront client binary. It is loaded
// separately so the CLI does not need the server's database or secrets.
type StorefrontConfig struct {
	APIURL       string `envconfig:"SHOP_STOREFRONT_API_URL" default:"http://localhost:8080"`
	StateDir     string `envconfig:"SHOP_STOREFRONT_STATE_DIR" default:".storefront"`
	LogLevel     string `envconfig:"SHOP_STOREFRONT_LOG_LEVEL" default:"warn"`
	Checkout     CheckoutConfig
	SyncParallel int `envconfig:"SHOP_STOREFRONT_SYNC_PARALLEL" default:"4"`
}

func LoadStorefront() (*StorefrontConfig, error) {
	var cfg StorefrontConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing storefront config: %w", err)
	}
	return &cfg, nil
}
