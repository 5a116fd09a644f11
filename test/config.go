package test

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// BLOG_TEST_EVENT_TIMEOUT bounds how long a scenario waits for a
	// single subscription event before failing.
	EventTimeout time.Duration `envconfig:"BLOG_TEST_EVENT_TIMEOUT" default:"2s"`
	// BLOG_TEST_COUNT_INTERVAL tunes the counter heartbeat; CI boxes
	// under load may want a larger value.
	CountInterval time.Duration `envconfig:"BLOG_TEST_COUNT_INTERVAL" default:"10ms"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
