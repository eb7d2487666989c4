package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/intake/pkg/adapters/redis"
	"github.com/aretw0/intake/pkg/catalog"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/spf13/cobra"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *intake.Engine
	metrics *observability.Metrics
	closers []func() error
}

// loadConfig reads the environment and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.LoadFiles(envFile)
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("graphs"); dir != "" {
		cfg.GraphsDir = dir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, metrics: observability.NewMetrics()}

	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		logger, closeLog, err := logging.NewWithFile(level, cfg.LogFile)
		if err != nil {
			logger.Warn("logging to stderr only", "err", err)
		}
		a.logger = logger
		a.closers = append(a.closers, closeLog)
	} else {
		a.logger = logging.New(level)
	}

	opts, err := a.storeOptions()
	if err != nil {
		a.Close()
		return nil, err
	}

	reg, err := catalog.NewRegistry(cfg.GraphsDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load graphs: %w", err)
	}

	opts = append(opts,
		intake.WithRegistry(reg),
		intake.WithLogger(a.logger),
		intake.WithMaxInputSize(cfg.MaxInputSize),
		intake.WithLifecycleHooks(observability.Combine(
			a.metrics.Hooks(),
			observability.LoggingHooks(a.logger),
		)),
	)
	a.engine, err = intake.New(opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.logger.Debug("engine ready", "store", cfg.Store, "services", len(reg.Services()), "environment", cfg.Environment)
	return a, nil
}

func (a *app) storeOptions() ([]intake.Option, error) {
	switch a.cfg.Store {
	case config.StoreRedis:
		client, err := redisAdapter.Dial(a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		storeOpts := []redisAdapter.Option{
			redisAdapter.WithPrefix(a.cfg.RedisPrefix),
			redisAdapter.WithHistoryLimit(a.cfg.HistoryLimit),
		}
		return []intake.Option{
			intake.WithConversationStore(redisAdapter.NewConversationStore(client, storeOpts...)),
			intake.WithSharedContextStore(redisAdapter.NewSharedContextStore(client,
				append(storeOpts, redisAdapter.WithTTL(a.cfg.SharedContextTTL))...)),
			intake.WithLocker(redisAdapter.NewLocker(client, a.cfg.RedisPrefix)),
		}, nil
	default:
		return []intake.Option{
			intake.WithConversationStore(memory.NewConversationStore(memory.WithHistoryLimit(a.cfg.HistoryLimit))),
			intake.WithSharedContextStore(memory.NewSharedContextStore(memory.WithTTL(a.cfg.SharedContextTTL))),
		}, nil
	}
}

// Close releases the store connections and the log file.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
