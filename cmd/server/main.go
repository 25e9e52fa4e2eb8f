// Package main is the entry point for the task tracker service. It wires all
// dependencies using samber/do v2, starts the operational HTTP server, and
// handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/ArchieBar/task-tracker-it1/internal/adapters/http"
	"github.com/ArchieBar/task-tracker-it1/internal/adapters/http/handlers"
	"github.com/ArchieBar/task-tracker-it1/internal/adapters/http/middleware"
	"github.com/ArchieBar/task-tracker-it1/internal/adapters/store/sqlite"
	"github.com/ArchieBar/task-tracker-it1/internal/app"
	"github.com/ArchieBar/task-tracker-it1/internal/platform/config"
	"github.com/ArchieBar/task-tracker-it1/internal/platform/health"
	"github.com/ArchieBar/task-tracker-it1/internal/platform/logging"
	"github.com/ArchieBar/task-tracker-it1/internal/platform/telemetry"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	store := do.MustInvoke[*sqlite.Store](injector)
	registry.Register(store)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Close the store before flushing telemetry.
	if err := store.Close(); err != nil {
		logger.Error("store close error", slog.Any("error", err))
	}

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*sqlite.Store, error) {
		return sqlite.Open(cfg.Storage.Path, cfg.Storage.BusyTimeout, logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.Store, error) {
		return do.MustInvoke[*sqlite.Store](i), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.Succession, error) {
		store := do.MustInvoke[ports.Store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewSuccession(store, logger, metrics), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.AccessService, error) {
		store := do.MustInvoke[ports.Store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewAccess(store, logger, metrics), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.BoardService, error) {
		store := do.MustInvoke[ports.Store](i)
		succession := do.MustInvoke[*app.Succession](i)
		return app.NewBoardService(store, succession, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.EpicService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewEpicService(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TaskService, error) {
		store := do.MustInvoke[ports.Store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewTaskService(store, logger, metrics), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.CommentService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewCommentService(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.UserService, error) {
		store := do.MustInvoke[ports.Store](i)
		succession := do.MustInvoke[*app.Succession](i)
		return app.NewUserService(store, succession, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		healthH := do.MustInvoke[*handlers.HealthHandler](i)

		return adapthttp.NewRouter(healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.Logging(logger),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		// Resolve the full service graph eagerly so wiring errors surface
		// at startup rather than on first use.
		do.MustInvoke[ports.AccessService](i)
		do.MustInvoke[ports.BoardService](i)
		do.MustInvoke[ports.EpicService](i)
		do.MustInvoke[ports.TaskService](i)
		do.MustInvoke[ports.CommentService](i)
		do.MustInvoke[ports.UserService](i)

		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
