package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/gapquiz/internal/monitoring"
	"github.com/abhisek/gapquiz/internal/pinning"
	"github.com/abhisek/gapquiz/internal/server"
	"github.com/abhisek/gapquiz/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		cfg := env.cfg
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		shutdownTracing, err := tracing.Init(cfg.Tracing)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}

		pinner, err := pinning.New(cfg.Pinning)
		if err != nil {
			return fmt.Errorf("create pinner: %w", err)
		}
		if pinner == nil {
			env.logger.Info("pinning disabled")
		}

		srv, err := server.New(cfg, server.Deps{
			Generator: env.generator,
			Pinner:    pinner,
			Backend:   cfg.Pinning.Backend,
			Events:    env.store.EventRepo(),
			Metrics:   monitoring.New(),
			Logger:    env.logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				env.logger.Warn("flush traces", zap.Error(err))
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		env.logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
