// Command purge-revoked deletes expired token revocation rows once and exits.
// Schedule it externally, e.g. from cron.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/revocation"
)

func main() {
	config.LoadDotenv(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "cmd", "purge-revoked")
	slog.SetDefault(logger)

	if cfg.RevocationBackend == config.RevocationRedis {
		logger.Info("redis revocation entries expire on their own, nothing to purge")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close(gdb)

	n, err := revocation.NewGormStore(gdb).Purge(ctx)
	if err != nil {
		log.Fatalf("purge: %v", err)
	}
	logger.Info("purged expired revocations", "rows", n)
}
