package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/gapquiz/internal/config"
	"github.com/abhisek/gapquiz/internal/llm"
	"github.com/abhisek/gapquiz/internal/logging"
	"github.com/abhisek/gapquiz/internal/questiongen"
	"github.com/abhisek/gapquiz/internal/store"
)

// appEnv bundles what the generate and serve commands share.
type appEnv struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     *store.Store
	generator *questiongen.Generator

	logCloser io.Closer
}

// newAppEnv loads and validates config, then opens the logger, the store
// and the LLM-backed generator.
func newAppEnv(cmd *cobra.Command) (*appEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	env := &appEnv{cfg: cfg, logger: logger, logCloser: logCloser}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	env.store, err = store.Open(dbPath)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, env.store.EventRepo(), logger)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	env.generator, err = questiongen.New(provider, cfg.Generation, logger)
	if err != nil {
		env.Close()
		return nil, err
	}

	logger.Debug("environment ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", provider.ModelID()),
		zap.String("db", dbPath))
	return env, nil
}

func (e *appEnv) Close() error {
	var errs []error
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	_ = e.logger.Sync()
	if e.logCloser != nil {
		errs = append(errs, e.logCloser.Close())
	}
	return errors.Join(errs...)
}
