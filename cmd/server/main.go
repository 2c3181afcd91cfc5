package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	financeapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/finance"
	orderapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/audit"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/cache"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/config"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/logger"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/telemetry"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/middleware"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("init tracer provider: %w", err)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
		Provider:        tp.Provider(),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		_ = db.Close()
		return fmt.Errorf("register db tracing: %w", err)
	}

	metrics := telemetry.NewMetrics()

	store, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx, cfg.Idempotency.Backend)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("init idempotency store: %w", err)
	}

	auditSink := audit.NewAsyncSink(persistence.NewGormAuditRepository(db.DB), audit.Config{
		QueueSize: cfg.Audit.QueueSize,
		Workers:   cfg.Audit.Workers,
	}, log).WithObserver(metrics)

	orders := orderapp.NewOrderService(
		persistence.NewGormUnitOfWork(db.DB),
		persistence.NewGormOrderRepository(db.DB),
		auditSink,
		log,
	).
		WithIdempotencyStore(store, shared.IdempotencyConfig{TTL: cfg.Idempotency.TTL}).
		WithMetrics(metrics)

	parties := financeapp.NewPartyService(
		persistence.NewGormFinancePartyRepository(db.DB),
		persistence.NewGormFinanceTransactionRepository(db.DB),
		persistence.NewGormContactRepository(db.DB),
		auditSink,
		log,
	)

	engine, err := router.NewEngine(router.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		Version:        version,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS:           middleware.DefaultCORSConfig(),
		TracerProvider: tp.Provider(),
	}, router.Dependencies{
		Orders:  orders,
		Parties: parties,
		DB:      db,
		Metrics: metrics,
		Logger:  log,
	})
	if err != nil {
		_ = store.Close()
		_ = db.Close()
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var listenErr error
	select {
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	case listenErr = <-serveErr:
		log.Error("Listener failed", zap.Error(listenErr))
	}

	return shutdown(cfg.HTTP.ShutdownTimeout, log, listenErr,
		closer{"http server", srv.Shutdown},
		closer{"audit sink", auditSink.Close},
		closer{"idempotency store", func(context.Context) error { return store.Close() }},
		closer{"tracer provider", tp.Shutdown},
		closer{"database", func(context.Context) error { return db.Close() }},
	)
}

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

// shutdown runs the closers in order under one deadline and joins their
// errors with cause.
func shutdown(timeout time.Duration, log *zap.Logger, cause error, closers ...closer) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	errs := []error{cause}
	for _, c := range closers {
		if err := c.fn(ctx); err != nil {
			log.Warn("Shutdown step failed", zap.String("component", c.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}
