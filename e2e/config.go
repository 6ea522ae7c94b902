package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// API_ADDR points at a running instance, e.g. http://localhost:8080.
	// The suite is skipped when it is unset.
	ApiAddr string `envconfig:"API_ADDR"`
	// E2E_DEBUG_JSON allows dumping full HTTP request/response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
