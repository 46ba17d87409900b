package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmkochetov/pizza_bot/internal/app"
	"github.com/dmkochetov/pizza_bot/internal/config"
	"github.com/dmkochetov/pizza_bot/internal/controller"
	"github.com/dmkochetov/pizza_bot/internal/controller/flow"
	"github.com/dmkochetov/pizza_bot/internal/controller/state"
	"github.com/dmkochetov/pizza_bot/internal/controller/telegram"
	"github.com/dmkochetov/pizza_bot/internal/geocoder"
	"github.com/dmkochetov/pizza_bot/internal/moltin"
	"github.com/dmkochetov/pizza_bot/internal/repository"
	"github.com/dmkochetov/pizza_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting pizza bot",
		zap.String("environment", cfg.Environment),
		zap.Bool("card_payments", cfg.CardPaymentsEnabled()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	sessionRepo := repository.NewSessionRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	orderService := service.NewOrderService(orderRepo, logger)

	commerce := moltin.NewClient(cfg.MoltinClientID, cfg.MoltinClientSecret, logger)
	geo := geocoder.NewClient(cfg.YandexAPIKey)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create telegram bot", zap.Error(err))
	}

	messenger := telegram.NewMessenger(b, cfg.PaymentProviderToken)

	notifier := app.NewDeliveryNotifier(cfg.DeliveryNotifyDelay,
		func(ctx context.Context, chatID int64, text string) error {
			return messenger.SendMessage(ctx, chatID, text, nil)
		}, logger)
	defer notifier.Stop()

	handlers := flow.NewHandlers(
		messenger,
		commerce,
		geo,
		sessionRepo,
		orderService,
		notifier,
		cfg.CardPaymentsEnabled(),
		logger,
	)

	machine := state.NewMachine(handlers, sessionRepo, logger)

	botController := controller.NewBotController(b, machine, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register bot handlers", zap.Error(err))
	}

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
