// Package config loads settings for the shared library from a TOML file and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rocketbitz/nautilus-ffi-go/core"
)

// Environment variables consulted by FromEnv.
const (
	EnvConfigPath = "NAUTILUS_FFI_CONFIG"
	EnvLogLevel   = "NAUTILUS_FFI_LOG_LEVEL"
)

// Metric backends.
const (
	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsOTel       = "otel"
)

// Config holds all settings for the boundary library.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level       string `toml:"level"`       // "debug", "info", "warn", "error"
	Development bool   `toml:"development"` // console encoding, stack traces on warn
}

// MetricsConfig selects where allocation metrics are reported.
type MetricsConfig struct {
	Backend   string `toml:"backend"`   // "none", "prometheus", "otel"
	Namespace string `toml:"namespace"` // optional Prometheus prefix
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Backend: MetricsNone},
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv loads the file named by NAUTILUS_FFI_CONFIG, if set, and applies
// the NAUTILUS_FFI_LOG_LEVEL override.
func FromEnv() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfigPath); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	switch strings.ToLower(c.Metrics.Backend) {
	case "", MetricsNone, MetricsPrometheus, MetricsOTel:
	default:
		return fmt.Errorf("config: metrics.backend: unknown backend %q", c.Metrics.Backend)
	}
	return nil
}

// BuildLogger constructs the zap logger described by the logging section.
func (c *Config) BuildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("config: logging.level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if c.Logging.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// BuildMetricHook constructs the metric hook for the configured backend, or
// nil when metrics are disabled.
func (c *Config) BuildMetricHook(reg prometheus.Registerer) (core.MetricHook, error) {
	switch strings.ToLower(c.Metrics.Backend) {
	case "", MetricsNone:
		return nil, nil
	case MetricsPrometheus:
		return core.NewPrometheusMetrics(core.PrometheusMetricsOptions{Registerer: reg, Namespace: c.Metrics.Namespace})
	case MetricsOTel:
		return core.NewOTelMetrics(core.OTelMetricsOptions{})
	default:
		return nil, fmt.Errorf("config: metrics.backend: unknown backend %q", c.Metrics.Backend)
	}
}
