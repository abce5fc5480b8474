// Command server runs the storefront HTTP API and static frontend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/strideshop/storefront/internal/app/runtime"
	"github.com/strideshop/storefront/pkg/logger"
)

func main() {
	cfg, err := runtime.LoadConfig()
	if err != nil {
		logger.NewDefault("server").WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	log := logger.New(cfg.Logging).WithField("component", "server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := runtime.NewServer(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("startup failed")
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server error")
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info("server stopped")
}
