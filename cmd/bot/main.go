// cmd/bot/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unibites/config"
	"unibites/internal/bot"
	"unibites/internal/budget"
	"unibites/internal/chat"
	"unibites/internal/db"
	"unibites/internal/gpt"
	"unibites/internal/menu"
	"unibites/internal/server"
	"unibites/internal/tracker"
	"unibites/pkg/logger"
)

// store is what both the catalog and the tracker persist through.
type store interface {
	menu.Store
	tracker.Store
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal("Failed to load config", "error", err)
	}

	l := logger.ForEnv(cfg.Env)
	defer l.Sync()
	l.Info("Starting UniBites...", "env", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection with retry, falling back to memory
	var st store
	var database *db.PostgresDB
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		database, err = db.NewPostgresDB(cfg.DB)
		if err == nil {
			break
		}
		l.Error("Failed to connect to database, retrying...", "attempt", i+1, "error", err)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	if database != nil {
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			l.Fatal("Failed to apply database schema", "error", err)
		}
		st = database
	} else {
		l.Warn("Database unavailable, keeping state in memory only", "error", err)
		st = db.NewMemoryStore()
	}

	cal := budget.NewCalendar(budget.SystemClock{}, cfg.Location())

	catalog := menu.NewCatalog(st, l.Named("menu"))
	catalog.Load(ctx)

	tr := tracker.New(st, cal, l.Named("tracker"))

	// Without a usable key every chat answer comes from the offline rules
	var ai chat.Completer
	gptClient := gpt.NewClient(cfg.AI)
	if gptClient.Configured() {
		ai = gptClient
	} else {
		l.Warn("AI API key missing or invalid, chat runs offline")
	}
	assistant := chat.NewAssistant(ai, cal, l.Named("chat"))

	var telegramBot *bot.TelegramBot
	if cfg.Telegram.Token != "" {
		telegramBot, err = bot.NewTelegramBot(cfg.Telegram.Token, catalog, tr, assistant, l)
		if err != nil {
			l.Fatal("Failed to create Telegram bot", "error", err)
		}
		if err := telegramBot.Start(ctx); err != nil {
			l.Fatal("Failed to start Telegram bot", "error", err)
		}
		l.Info("Telegram bot started successfully")
	} else {
		l.Warn("Telegram token is not configured, serving the HTTP API only")
	}

	api := server.NewAPI(catalog, tr, assistant, l.Named("http"))
	httpServer := server.NewServer(cfg.Server.Port, api, l)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Stop HTTP server first
	if err := httpServer.Stop(shutdownCtx); err != nil {
		l.Error("Error during HTTP server shutdown", "error", err)
	}

	if telegramBot != nil {
		if err := telegramBot.Stop(shutdownCtx); err != nil {
			l.Error("Error during bot shutdown", "error", err)
		}
	}

	l.Info("UniBites stopped")
}
