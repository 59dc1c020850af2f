package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmatosr02/tv-mt4-bridge/api"
	"github.com/jmatosr02/tv-mt4-bridge/internal/auth"
	"github.com/jmatosr02/tv-mt4-bridge/internal/config"
	"github.com/jmatosr02/tv-mt4-bridge/internal/core"
	"github.com/jmatosr02/tv-mt4-bridge/internal/mock"
	"github.com/jmatosr02/tv-mt4-bridge/internal/notify"
	"github.com/jmatosr02/tv-mt4-bridge/internal/service"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Cancelled on SIGINT/SIGTERM to stop all services
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	// 1. Signal service owns the queue and store
	signals := service.NewSignalService(cfg.Queue.Capacity)

	// 2. Outbound chat delivery, always off the request path
	bot := notify.NewClient(notify.Config{
		BaseURL: cfg.Telegram.BaseURL,
		Token:   cfg.Telegram.Token,
		ChatID:  cfg.Telegram.ChatID,
		Timeout: cfg.Telegram.Timeout(),
	})
	dispatcher := notify.NewDispatcher(bot, cfg.Telegram.Timeout(), logger)

	// 3. Approval callbacks are accepted only from the configured chat
	gateway := core.NewApprovalGateway(signals, dispatcher, cfg.Telegram.ChatID, logger)

	apiHandler := api.NewAPIHandler(api.Dependencies{
		Signals:       signals,
		Callbacks:     gateway,
		Notifier:      dispatcher,
		Guard:         auth.NewGuard(cfg.Secret),
		Validator:     api.NewValidator(cfg.Queue.StrictOrderTypes),
		TelegramToken: cfg.Telegram.Token != "",
		TelegramChat:  cfg.Telegram.ChatID != "",
	}, logger)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           apiHandler.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Secret == "" {
		logger.Warn("SECRET is not set; mutating endpoints will answer 500")
	}
	if !bot.Configured() {
		logger.Warn("telegram is not configured; approval prompts will not be delivered")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("signal bridge listening",
			"addr", cfg.HTTP.Addr(),
			"queue_capacity", signals.Capacity())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Simulate.Enabled {
		generatorConfig := mock.DefaultGeneratorConfig()
		generatorConfig.Interval = cfg.Simulate.Interval()
		generator := mock.NewSignalGeneratorWithConfig(signals, dispatcher, generatorConfig)
		g.Go(func() error {
			return generator.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
	}

	// Let in-flight notifications finish; each is bounded by the notify timeout.
	dispatcher.Wait()
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
