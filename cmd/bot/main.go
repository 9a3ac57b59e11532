package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/config"
	"github.com/aliskhannn/tka-exam-bot/internal/delivery/telegram"
	"github.com/aliskhannn/tka-exam-bot/internal/infra/gemini"
	"github.com/aliskhannn/tka-exam-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/tka-exam-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/tka-exam-bot/internal/infra/redis"
	"github.com/aliskhannn/tka-exam-bot/internal/logger"
	"github.com/aliskhannn/tka-exam-bot/internal/service"
	"github.com/aliskhannn/tka-exam-bot/internal/storage"
)

var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Halaman awal"},
	{Command: "register", Description: "Daftar akun baru"},
	{Command: "login", Description: "Masuk ke akun"},
	{Command: "recover", Description: "Pulihkan akun dengan nomor WhatsApp"},
	{Command: "topics", Description: "Pilih topik ujian"},
	{Command: "generate", Description: "Mulai ujian"},
	{Command: "exam", Description: "Tampilkan soal yang sedang dikerjakan"},
	{Command: "submit", Description: "Kumpulkan jawaban"},
	{Command: "result", Description: "Hasil ujian terakhir"},
	{Command: "review", Description: "Pembahasan soal"},
	{Command: "retry", Description: "Ulangi dengan topik yang sama"},
	{Command: "history", Description: "Riwayat ujian"},
	{Command: "logout", Description: "Keluar"},
	{Command: "help", Description: "Bantuan"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("bot stopped", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	kv, closeKV, err := openStorage(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeKV()

	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
	})
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}
	generator := service.NewGeneratorAdapter(client, cfg.Exam.QuestionCount, lg)

	clock := clockwork.NewRealClock()
	registry := service.NewRegistry(kv, generator, clock, lg, service.ProfileOptions{
		ExamDuration:      cfg.Exam.Duration,
		InactivityTimeout: cfg.Session.InactivityTimeout,
	})
	defer registry.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	registry.SetNotifier(telegram.NewNotifier(bot, lg, cfg.Session.InactivityTimeout))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	janitor := service.NewJanitor(registry, clock, cfg.Janitor.Schedule, cfg.Janitor.IdleAfter, lg)
	janitorErr := make(chan error, 1)
	go func() {
		janitorErr <- janitor.Start(ctx)
	}()

	handler := telegram.NewHandler(bot, lg, registry)
	err = handler.Run(ctx)
	cancel()

	if jerr := <-janitorErr; jerr != nil && !errors.Is(jerr, context.Canceled) {
		lg.Error("janitor stopped", zap.Error(jerr))
	}
	return err
}

// openStorage connects the configured key-value backend.
func openStorage(ctx context.Context, cfg *config.Config, lg *zap.Logger) (storage.KV, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		lg.Info("using postgres storage")
		return pgrepo.NewKVRepository(pool), pool.Close, nil

	case config.DriverRedis:
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		lg.Info("using redis storage", zap.String("addr", cfg.Redis.Addr))
		return redis.NewKV(client, "tka:"), func() { _ = client.Close() }, nil

	default:
		lg.Info("using in-memory storage")
		return storage.NewMemoryKV(), func() {}, nil
	}
}
