package internal

import "time"

type Config struct {
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	CountInterval     time.Duration `env:"COUNT_INTERVAL,default=1s"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=5s"`
}
