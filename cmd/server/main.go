package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"BuySignal/internal/app"
	"BuySignal/internal/config"
	"BuySignal/internal/logger"
	"BuySignal/internal/notifier"
	"BuySignal/internal/scheduler"
	"BuySignal/internal/server"
	"BuySignal/internal/store"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		l := logger.New(logger.Config{})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("BuySignal exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log.Info().Msg("BuySignal server starting")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components := app.Build(ctx, cfg, log)
	defer components.Close()

	st, err := store.NewSelectionStore(cfg.Store.SelectionFile)
	if err != nil {
		return fmt.Errorf("init selection store: %w", err)
	}

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sender = tn
	} else {
		log.Info().Msg("telegram not configured, scheduled reports are logged only")
	}

	sched := scheduler.NewScheduler(ctx, components.Advisor, st, sender, log)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Advisor:        components.Advisor,
		Store:          st,
		Recorder:       components.Recorder,
		Log:            log,
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing daily task now")
		go sched.RunNow()
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	log.Info().Msg("BuySignal stopped")
	return runErr
}
