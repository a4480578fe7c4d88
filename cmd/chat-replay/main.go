// Command chat-replay classifies a recorded transcript of customer messages
// and prints per-intent statistics.
//
// Transcript lines have the form "user_id<TAB>message". Files ending in .gz
// are decompressed on the fly.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/shop-assistant/internal/dataset"
	"github.com/xenking/shop-assistant/internal/domain/chat"
	"github.com/xenking/shop-assistant/internal/replay"
	"github.com/xenking/shop-assistant/internal/storage/jsonfile"
	"github.com/xenking/shop-assistant/internal/storage/postgres"
)

func main() {
	var (
		transcript  string
		dataDir     string
		databaseURL string
		opts        replay.Options
	)

	flag.StringVar(&transcript, "transcript", "", "path to the transcript file (.tsv or .tsv.gz)")
	flag.StringVar(&dataDir, "data-dir", "db/seed", "directory containing the JSON dataset")
	flag.StringVar(&databaseURL, "database-url", "", "read the dataset from PostgreSQL instead of files")
	flag.IntVar(&opts.Workers, "workers", runtime.GOMAXPROCS(0), "concurrent classifications")
	flag.UintVar(&opts.Expected, "expected", replay.DefaultExpected, "expected number of distinct utterances")
	flag.BoolVar(&opts.KeepDuplicates, "keep-duplicates", false, "classify repeated utterances again")
	flag.Parse()

	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	if transcript == "" {
		lg.Fatal("transcript is required: set --transcript")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, transcript, dataDir, databaseURL, opts); err != nil {
		lg.Fatal("Replay failed", zap.Error(err))
	}
}

func run(ctx context.Context, lg *zap.Logger, transcript, dataDir, databaseURL string, opts replay.Options) error {
	ds, err := loadDataset(ctx, dataDir, databaseURL)
	if err != nil {
		return err
	}

	rc, err := replay.OpenTranscript(transcript)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	lg.Info("Replaying transcript",
		zap.String("path", transcript),
		zap.Int("workers", opts.Workers),
	)

	report, err := replay.New(chat.NewRouter(ds, ds, ds), ds, opts).Run(ctx, rc)
	if err != nil {
		return errors.Wrap(err, "replay")
	}

	lg.Info("Replay completed",
		zap.Int("lines", report.Lines),
		zap.Int("classified", report.Classified()),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("malformed", report.Malformed),
		zap.Int("unauthenticated", report.Unauthenticated),
	)
	for _, intent := range report.SortedIntents() {
		s := report.Intents[intent]
		lg.Info("Intent",
			zap.String("intent", string(intent)),
			zap.Int("count", s.Count),
			zap.Float64("mean_confidence", s.MeanConfidence()),
			zap.Int("with_products", s.WithProducts),
		)
	}
	return nil
}

func loadDataset(ctx context.Context, dataDir, databaseURL string) (*dataset.Dataset, error) {
	if databaseURL == "" {
		ds, err := jsonfile.Load(ctx, dataDir)
		if err != nil {
			return nil, errors.Wrap(err, "load dataset files")
		}
		return ds, nil
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	ds, err := postgres.LoadDataset(ctx, pool)
	if err != nil {
		return nil, errors.Wrap(err, "load dataset from db")
	}
	return ds, nil
}
