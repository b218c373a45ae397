package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vcrobe/otsdebugger/internal/config"
	"github.com/vcrobe/otsdebugger/internal/cot"
	"github.com/vcrobe/otsdebugger/internal/plugin"
	"github.com/vcrobe/otsdebugger/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := plugin.New(plugin.DefaultMetadata, cfg, cot.NewHub(logger), logger)
	p.Activate(ctx, true)
	defer p.Stop()

	srv := server.New(p, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(":" + port) }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			p.Stop()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
