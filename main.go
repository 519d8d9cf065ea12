package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/avoronov/clinicbot/bot"
	"github.com/avoronov/clinicbot/calendar"
	"github.com/avoronov/clinicbot/config"
	"github.com/avoronov/clinicbot/storage"
	"github.com/avoronov/clinicbot/worker"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	token := flag.String("token", "", "Telegram bot token (or use TELEGRAM_BOT_TOKEN env var)")
	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	botToken := *token
	if botToken == "" {
		botToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if botToken == "" {
		logger.Fatal("Telegram bot token is required. Provide it with -token flag or TELEGRAM_BOT_TOKEN environment variable")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.String("path", *configPath), zap.Error(err))
	}

	store, err := storage.NewJSONStorage(cfg.DataFile, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.String("path", cfg.DataFile), zap.Error(err))
	}

	cal := calendar.NewManager(cfg.CalendarDir, cfg.Clinic.Name, logger)
	cal.Cleanup()

	telegramBot, err := bot.New(botToken, cfg, cfg.IsAdmin, store, cal, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	sweeper := worker.New(store, time.Duration(cfg.Worker.SweepMinutes)*time.Minute, logger)
	sweeper.Start()

	go func() {
		if err := telegramBot.Start(); err != nil {
			logger.Fatal("Failed to start bot", zap.Error(err))
		}
	}()
	telegramBot.NotifyAdmins("✅ Бот клиники успешно запущен!")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	telegramBot.Stop()
	sweeper.Stop()
	cal.Cleanup()
	logger.Info("Bot stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
