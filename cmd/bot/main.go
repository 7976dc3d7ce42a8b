package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/subosito/gotenv"

	"github.com/broichancy/eishbot/internal/bot"
	"github.com/broichancy/eishbot/internal/config"
	"github.com/broichancy/eishbot/internal/infra/db"
	httpx "github.com/broichancy/eishbot/internal/infra/http"
	"github.com/broichancy/eishbot/internal/infra/logger"
	"github.com/broichancy/eishbot/internal/service"
	"github.com/broichancy/eishbot/internal/storage"
	"github.com/broichancy/eishbot/internal/storage/jsonfile"
	"github.com/broichancy/eishbot/internal/storage/postgres"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (storage.Store, error) {
	if cfg.Storage.Backend == config.BackendPostgres {
		if err := runMigrations(cfg.Postgres.DSN); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
		pool, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.New(pool), nil
	}
	return jsonfile.Open(cfg.Storage.DataDir)
}

func main() {
	_ = gotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("storage init failed", "err", err)
		return
	}
	defer store.Close()
	log.Info("storage ready", "backend", cfg.Storage.Backend)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("authorized", "bot", api.Self.UserName)

	limits := service.Limits{MinTopup: cfg.Limits.MinTopup, MinWithdraw: cfg.Limits.MinWithdraw}
	adminSvc := service.NewAdmin(store, cfg.Telegram.SuperAdminID, log)
	ordersSvc := service.NewOrders(store, limits, adminSvc, log)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	b := bot.New(api, log, store, ordersSvc, adminSvc,
		cfg.Telegram.SuperAdminID, cfg.Telegram.RequiredChannel, cfg.Telegram.Support)

	if err := b.Run(ctx, 30); err != nil && ctx.Err() == nil {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
