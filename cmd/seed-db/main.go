// Command seed-db loads the JSON dataset into PostgreSQL, replacing any
// previously seeded rows.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/shop-assistant/internal/storage/jsonfile"
	"github.com/xenking/shop-assistant/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		dataDir     string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&dataDir, "data-dir", "db/seed", "directory containing users/orders/payments/products JSON files")
	flag.Parse()

	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		lg.Fatal("database URL is required: set --database-url or DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, databaseURL, dataDir); err != nil {
		lg.Fatal("Seed failed", zap.Error(err))
	}

	lg.Info("Seed completed successfully")
}

func run(ctx context.Context, lg *zap.Logger, databaseURL, dataDir string) error {
	lg.Info("Reading dataset", zap.String("dir", dataDir))

	ds, err := jsonfile.Load(ctx, dataDir)
	if err != nil {
		return errors.Wrap(err, "load dataset")
	}

	lg.Info("Connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	lg.Info("Running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	stats, err := postgres.Seed(ctx, pool, ds)
	if err != nil {
		return errors.Wrap(err, "seed dataset")
	}

	lg.Info("Dataset written",
		zap.Int("users", stats.Users),
		zap.Int("orders", stats.Orders),
		zap.Int("payments", stats.Payments),
		zap.Int("products", stats.Products),
	)
	return nil
}
