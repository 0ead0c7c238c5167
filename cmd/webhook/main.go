package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jose-valero/warbot/internal/infra/config"
	"github.com/jose-valero/warbot/internal/infra/logging"
)

func main() {
	cfg, err := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, "json").With(slog.String("fn", "webhook"))
	if err != nil {
		logger.Error("config", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.Validate(config.RoleWebhook); err != nil {
		logger.Error("config", slog.Any("err", err))
		os.Exit(1)
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("pgx ParseConfig", slog.Any("err", err))
		os.Exit(1)
	}
	pcfg.MaxConns = 4
	pcfg.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		logger.Error("pgxpool New", slog.Any("err", err))
		os.Exit(1)
	}

	h := &webhook{secret: cfg.WebhookSecret, store: pgStore{db: pool}, log: logger}
	lambda.Start(h.handle)
}
