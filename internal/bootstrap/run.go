package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/target/q-inventory/config"
	"golang.org/x/sync/errgroup"
)

const shutdownWaitTimeout = 10 * time.Second

// RunConfig contains everything Run needs.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Infra    *Infrastructure
	Logger   *slog.Logger
	// Listener overrides the configured address (tests bind to :0).
	Listener net.Listener
}

// RunWithSignals runs until SIGINT or SIGTERM is received.
func RunWithSignals(cfg *RunConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Run(ctx, cfg)
}

// Run serves HTTP and keeps the calendar and session sweeper ticking until ctx is done
// or one of them fails. The HTTP server is shut down gracefully either way.
func Run(ctx context.Context, cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Infra:    cfg.Infra,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		var err error
		if cfg.Listener != nil {
			err = server.Serve(cfg.Listener)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(gctx),
			Server:  server,
			Logger:  logger,
		})
	})

	if cfg.Services.Calendar != nil {
		g.Go(func() error {
			return cfg.Services.Calendar.Run(gctx)
		})
	}

	if cfg.Infra != nil && cfg.Infra.memorySessions != nil {
		g.Go(func() error {
			return cfg.Infra.memorySessions.RunSweeper(gctx, sessionSweepInterval)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
		return err
	}
	logger.Info("services stopped")
	return nil
}
