package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"user-directory-bot/internal/application/viewmodel"
	"user-directory-bot/internal/config"
	"user-directory-bot/internal/domain/preferences"
	"user-directory-bot/internal/domain/user"
	"user-directory-bot/internal/infrastructure/persistence"
	"user-directory-bot/internal/infrastructure/telegram"
	"user-directory-bot/internal/interfaces/telegram/handlers"
	"user-directory-bot/internal/logger"
)

func main() {
	cfg, err := config.NewConfig(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("bot error", "error", err)
	}
	log.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.Telegram.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	}

	// Initialize databases
	db, err := persistence.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	prefsDB, err := persistence.NewPreferencesDB(cfg.Preferences.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize preferences database: %w", err)
	}
	defer prefsDB.Close()

	if err := preferences.Init(persistence.NewPreferencesBackend(prefsDB, cfg.Preferences.Namespace)); err != nil {
		return fmt.Errorf("failed to initialize preferences: %w", err)
	}

	// Wire the user screen
	dao := persistence.NewUserDAO(db, log)
	repo := user.NewRepository(dao)
	vm := viewmodel.NewUserViewModel(repo, log,
		viewmodel.WithStopTimeout(cfg.ViewModel.StopTimeout),
		viewmodel.WithErrorHandler(func(op string, err error) {
			log.Warn("user action failed", "op", op, "error", err)
		}),
	)
	defer vm.Close()

	// Initialize Telegram bot
	bot, err := telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.Debug, log)
	if err != nil {
		return err
	}

	if err := bot.SetupCommands(); err != nil {
		log.Warn("failed to setup bot commands, they won't show in Telegram's menu", "error", err)
	}

	handler := handlers.NewBotHandler(bot, vm, preferences.Default(), log)

	log.Info("starting user directory bot", "db", cfg.Database.Path, "prefs_db", cfg.Preferences.Path)

	updates := bot.GetUpdatesChan()
	defer bot.StopReceivingUpdates()

	return handler.Start(ctx, updates)
}
