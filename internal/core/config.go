package core

import (
	"context"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Postgresql
	DATABASE_URL string `envconfig:"DATABASE_URL"`

	// Realtime push endpoint, notifications are mirrored there. Disabled
	// when empty.
	REALTIME_URL string `envconfig:"REALTIME_URL"`
	REALTIME_KEY string `envconfig:"REALTIME_KEY"`
}

func (c *Config) Init(_ context.Context) error {
	return envconfig.Process("feedline", c)
}

func (c *Config) PostgresDSN() string {
	return c.DATABASE_URL
}
