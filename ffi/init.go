package ffi

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rocketbitz/nautilus-ffi-go/core"
	"github.com/rocketbitz/nautilus-ffi-go/internal/capi"
	"github.com/rocketbitz/nautilus-ffi-go/internal/config"
)

// The host never calls a setup function, so logging and metrics are
// configured from the environment when the library is loaded. With neither
// variable set the library stays silent.
func init() {
	applyEnvironment()
}

func applyEnvironment() {
	if os.Getenv(config.EnvConfigPath) == "" && os.Getenv(config.EnvLogLevel) == "" {
		return
	}
	if err := configure(); err != nil {
		fallback, ferr := zap.NewProduction()
		if ferr != nil {
			fmt.Fprintf(os.Stderr, "nautilus ffi: configuration ignored: %v (logger: %v)\n", err, ferr)
			return
		}
		fallback.Warn("nautilus ffi configuration ignored", zap.Error(err))
		core.SetLogger(fallback)
	}
}

func configure() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	logger, err := cfg.BuildLogger()
	if err != nil {
		return err
	}
	hook, err := cfg.BuildMetricHook(nil)
	if err != nil {
		return err
	}
	core.SetLogger(logger)
	if hook != nil {
		core.SetMetricHook(hook)
	}
	logger.Debug("nautilus ffi configured",
		zap.String("metrics_backend", cfg.Metrics.Backend),
		zap.Stringer("abi", capi.BuildVersion()))
	return nil
}
