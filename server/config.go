package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings.
type Config struct {
	// Addr is the listen address.
	Addr string `env:"PWASHELL_ADDR" envDefault:":8080" mapstructure:"addr"`

	// PublicDir is the directory of the built app: one index.html per page
	// plus assets.
	PublicDir string `env:"PWASHELL_PUBLIC_DIR" envDefault:"public" mapstructure:"public_dir"`

	// AppName names the offline cache.
	AppName string `env:"PWASHELL_APP_NAME" envDefault:"pwashell" mapstructure:"app_name"`

	// LiveReload watches PublicDir and tells open pages to reload.
	LiveReload bool `env:"PWASHELL_LIVE_RELOAD" envDefault:"false" mapstructure:"live_reload"`

	// OTelEndpoint enables trace export when set.
	OTelEndpoint string `env:"PWASHELL_OTEL_ENDPOINT" mapstructure:"otel_endpoint"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
