package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jose-valero/warbot/internal/infra/config"
	"github.com/jose-valero/warbot/internal/infra/logging"
)

// dedupTTL: las keys del webhook se olvidan pasado este tiempo.
const dedupTTL = 7 * 24 * time.Hour

func handler(ctx context.Context) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Sprintf("config: %v", err), nil
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, "json").With(slog.String("fn", "janitor"))
	if err := cfg.Validate(config.RoleJanitor); err != nil {
		return fmt.Sprintf("config: %v", err), nil
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := pool.Exec(cctx, `DELETE FROM webhook_dedup WHERE received_at < $1`, time.Now().Add(-dedupTTL))
	if err != nil {
		logger.Error("prune dedup", slog.Any("err", err))
		return fmt.Sprintf("prune: %v", err), nil
	}
	logger.Info("pruned dedup keys", slog.Int64("rows", tag.RowsAffected()))
	return "ok", nil
}

func main() { lambda.Start(handler) }
