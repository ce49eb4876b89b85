package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/carlosmaximiano-creator/anf-labour-bot/config"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/metrics"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/repositories"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/server"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/services/auth"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/services/flow"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/sheets"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/telegram"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("timezone", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	store, err := sheets.NewClient(ctx, cfg.SpreadsheetID, cfg.GoogleCredentials, cfg.StoreTimeout, logger, collector)
	if err != nil {
		logger.Fatal("sheets client", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(store)
	fieldRepo := repositories.NewFieldRepository(store, logger)
	shiftRepo := repositories.NewShiftRepository(store)

	engine := flow.NewEngine(
		flow.NewMemorySessionStore(),
		shiftRepo,
		fieldRepo,
		auth.NewResolver(userRepo),
		cfg.Teams,
		loc,
		logger,
		collector,
	)

	bot, err := telegram.NewBot(cfg.BotToken, engine, cfg.SendRatePerSecond, logger, collector)
	if err != nil {
		logger.Fatal("telegram bot", zap.Error(err))
	}

	go server.Run(ctx, server.New(cfg.ServerPort, registry), logger)

	bot.Run(ctx)
	logger.Info("bye")
}
