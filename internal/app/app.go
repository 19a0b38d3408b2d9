package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"StockReconciler/internal/config"
	httpdelivery "StockReconciler/internal/delivery/http"
	"StockReconciler/internal/infrastructure/mapping"
	"StockReconciler/internal/infrastructure/parser"
	"StockReconciler/internal/infrastructure/platform"
	"StockReconciler/internal/infrastructure/scheduler"
	"StockReconciler/internal/infrastructure/storage"
	"StockReconciler/internal/infrastructure/telegram"
	"StockReconciler/internal/logging"
	"StockReconciler/internal/ports"
	"StockReconciler/internal/scanner"
	"StockReconciler/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	repository ports.SnapshotRepository
	closeStore storage.CloseFunc

	Assembler  *usecase.Assembler
	Reconciler *usecase.Reconciler
	scheduler  *usecase.Scheduler
}

// New opens storage and builds every service. Call Close when done.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	repo, closeStore, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	baseLogger.Info("storage ready", "driver", cfg.Storage.Driver)

	return build(cfg, baseLogger, repo, closeStore), nil
}

func build(cfg config.Config, baseLogger *slog.Logger, repo ports.SnapshotRepository, closeStore storage.CloseFunc) *Application {
	fetcher := parser.NewFetcher(
		&http.Client{Timeout: cfg.Scraper.RequestTimeout},
		cfg.Scraper.UserAgent,
		parser.NewLimiter(cfg.Scraper.RequestsPerSecond, cfg.Scraper.Burst),
	)

	registry := scanner.NewRegistry()
	registry.Register(parser.NewStorefrontScanner(fetcher, baseLogger.With("component", "scanner.storefront")))

	source := parser.NewStrategySource(registry, cfg.Sites, cfg.Scraper.MaxConcurrency, baseLogger.With("component", "source"))

	assembler := usecase.NewAssembler(usecase.AssemblerDeps{
		Source:     source,
		Repository: repo,
		Logger:     baseLogger.With("component", "assembler"),
	})

	reconciler := usecase.NewReconciler(usecase.ReconcilerDeps{
		Snapshots:   repo,
		Mappings:    mapping.NewFileSource(cfg.Mapping.Path),
		Catalog:     platform.NewClient(cfg.Platform),
		KnownBrands: cfg.Reconcile.KnownBrands,
		Logger:      baseLogger.With("component", "reconciler"),
	})

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID); tg.Configured() {
		notifier = tg
	}

	jobs := usecase.NewScheduler(usecase.SchedulerDeps{
		Driver:     scheduler.NewIntervalScheduler(cfg.Scheduler.Interval, cfg.Scheduler.SkipInitialRun),
		Assembler:  assembler,
		Reconciler: reconciler,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "scheduler"),
	})

	if closeStore == nil {
		closeStore = func(context.Context) error { return nil }
	}

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		repository: repo,
		closeStore: closeStore,
		Assembler:  assembler,
		Reconciler: reconciler,
		scheduler:  jobs,
	}
}

// Handler builds the gin router serving the HTTP API.
func (a *Application) Handler() http.Handler {
	handler := httpdelivery.NewHandler(httpdelivery.HandlerDeps{
		Stock:           a.Assembler,
		Snapshots:       a.repository,
		Reconciler:      a.Reconciler,
		SuggestMinScore: a.cfg.Reconcile.SuggestMinScore,
		Logger:          a.logger.With("component", "http"),
	})
	return httpdelivery.SetupRouter(a.cfg.Server, handler, a.logger.With("component", "http"))
}

// Serve runs the HTTP API (and the scheduler when enabled) until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	if a.cfg.Scheduler.Enabled {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval.String())
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", a.cfg.Server.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	a.logger.Info("http server stopped")
	return nil
}

// Close releases the storage connection.
func (a *Application) Close(ctx context.Context) error {
	return a.closeStore(ctx)
}
