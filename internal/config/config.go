// Package config loads coordinator configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all coordinator configuration.
type Config struct {
	Bus      BusConfig
	Topics   TopicConfig
	Shutdown ShutdownConfig
	Logging  LogConfig
	Metrics  MetricsConfig
}

// BusConfig holds MQTT transport configuration.
type BusConfig struct {
	// BrokerURL is the broker the coordinator and the estimator workers
	// connect to. Ignored when Embedded is true.
	BrokerURL string `envconfig:"BUS_BROKER_URL" default:"tcp://127.0.0.1:1883"`
	// Embedded runs an in-process broker on EmbeddedAddr instead of
	// connecting to an external one.
	Embedded       bool          `envconfig:"BUS_EMBEDDED" default:"true"`
	EmbeddedAddr   string        `envconfig:"BUS_EMBEDDED_ADDR" default:":1883"`
	ConnectTimeout time.Duration `envconfig:"BUS_CONNECT_TIMEOUT" default:"5s"`
}

// TopicConfig holds channel naming configuration.
type TopicConfig struct {
	// Prefix is prepended to every estimator channel and the output channel.
	Prefix string `envconfig:"TOPIC_PREFIX" default:"robot/state"`
}

// ShutdownConfig holds process teardown configuration.
type ShutdownConfig struct {
	// Grace is how long the supervisor waits for a terminated process to
	// exit before escalating to a kill.
	Grace time.Duration `envconfig:"SHUTDOWN_GRACE" default:"3s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// MetricsConfig holds the optional metrics endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			BrokerURL:      "tcp://127.0.0.1:1883",
			Embedded:       true,
			EmbeddedAddr:   ":1883",
			ConnectTimeout: 5 * time.Second,
		},
		Topics: TopicConfig{
			Prefix: "robot/state",
		},
		Shutdown: ShutdownConfig{
			Grace: 3 * time.Second,
		},
		Logging: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}
