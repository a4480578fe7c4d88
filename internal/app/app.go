package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shop-assistant/internal/dataset"
	"github.com/xenking/shop-assistant/internal/domain/chat"
	"github.com/xenking/shop-assistant/internal/handler"
	"github.com/xenking/shop-assistant/internal/storage/jsonfile"
	"github.com/xenking/shop-assistant/internal/storage/postgres"
	"github.com/xenking/shop-assistant/pkg/health"
	"github.com/xenking/shop-assistant/pkg/httpmiddleware"
)

// Run loads the dataset, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New(lg.Named("health"))

	ds, closeSource, err := loadDataset(ctx, lg, cfg, healthSvc)
	if err != nil {
		return err
	}
	defer closeSource()

	stats := ds.Stats()
	lg.Info("Dataset loaded",
		zap.Int("users", stats.Users),
		zap.Int("orders", stats.Orders),
		zap.Int("payments", stats.Payments),
		zap.Int("products", stats.Products),
	)

	healthSvc.Add("catalog", health.Readiness,
		health.NonEmptyCheck("product catalog", func() int { return ds.Stats().Products }),
		health.CheckOptions{FailureThreshold: 1},
	)
	healthSvc.Add("goroutines", health.Liveness, health.GoroutineCountCheck(10000), health.CheckOptions{})
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	router := chat.NewRouter(ds, ds, ds)
	h, err := handler.NewHandler(
		handler.Config{ImageBaseURL: cfg.ImageBaseURL},
		router, ds, ds,
		m.TracerProvider(), m.MeterProvider(),
	)
	if err != nil {
		return errors.Wrap(err, "create handler")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	rateLimit, err := httpmiddleware.RateLimit(httpmiddleware.RateLimitConfig{
		Max:    cfg.RateLimit.Max,
		Window: cfg.RateLimit.Window,
		Keys:   cfg.RateLimit.Keys,
	})
	if err != nil {
		return errors.Wrap(err, "create rate limiter")
	}

	routeFinder := httpmiddleware.MakeRouteFinder(mux)
	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", handler.UserIDHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			rateLimit,
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("shop-assistant", routeFinder, m),
			httpmiddleware.LogRequests(routeFinder),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// loadDataset reads the dataset from PostgreSQL when a database URL is
// configured and from the data directory otherwise. The returned func
// releases the source.
func loadDataset(ctx context.Context, lg *zap.Logger, cfg *Config, hs *health.Health) (*dataset.Dataset, func(), error) {
	if cfg.DatabaseURL == "" {
		lg.Info("Loading dataset from files", zap.String("dir", cfg.DataDir))
		ds, err := jsonfile.Load(ctx, cfg.DataDir)
		if err != nil {
			return nil, nil, errors.Wrap(err, "load dataset files")
		}
		return ds, func() {}, nil
	}

	lg.Info("Loading dataset from PostgreSQL")
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "run migrations")
	}
	ds, err := postgres.LoadDataset(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "load dataset from db")
	}

	hs.Add("postgres", health.Readiness, health.PingCheck(pool), health.CheckOptions{Timeout: 5 * time.Second})
	return ds, pool.Close, nil
}
