package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/DaviDemarqui/workwise-v1/docs"
	"github.com/DaviDemarqui/workwise-v1/internal/config"
	"github.com/DaviDemarqui/workwise-v1/internal/database"
	"github.com/DaviDemarqui/workwise-v1/internal/eventlog"
	"github.com/DaviDemarqui/workwise-v1/internal/executor"
	"github.com/DaviDemarqui/workwise-v1/internal/membership"
	"github.com/DaviDemarqui/workwise-v1/internal/metrics"
	"github.com/DaviDemarqui/workwise-v1/internal/parameter"
	"github.com/DaviDemarqui/workwise-v1/internal/payout"
	"github.com/DaviDemarqui/workwise-v1/internal/proposal"
	mw "github.com/DaviDemarqui/workwise-v1/pkg/middleware"
)

func serveRun(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to database")

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	log.Info("schema ready", slog.Uint64("version", uint64(version)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// Persistence
	eventRepo := eventlog.NewRepository(db)
	payoutRepo := payout.NewRepository(db)
	journal := executor.NewRepository(db, eventRepo, payoutRepo)

	// Payout dispatcher, woken by the executor after refunds are committed
	dispatcher := payout.NewDispatcher(payoutRepo, payout.LogTransferer{Logger: log}, log, collector, payout.DispatcherConfig{
		Interval:    cfg.Payout.Interval,
		BatchSize:   cfg.Payout.BatchSize,
		MaxAttempts: cfg.Payout.MaxAttempts,
	})

	// Governance executor
	exec, err := executor.NewService(cfg.Genesis, journal,
		executor.WithLogger(log),
		executor.WithMetrics(collector),
		executor.WithPayoutNotifier(dispatcher.Notify),
	)
	if err != nil {
		return err
	}
	if err := exec.Start(ctx); err != nil {
		return fmt.Errorf("failed to start executor: %w", err)
	}

	limiter := mw.NewRateLimiter(mw.RateLimiterConfigPerMinute(cfg.RateLimit.General, cfg.RateLimit.Proposals))
	defer limiter.Stop()

	router := newRouter(routerDeps{
		Logger:     log,
		Gatherer:   reg,
		Limiter:    limiter,
		Members:    membership.NewHandler(membership.NewService(exec)).Routes(),
		Proposals:  proposal.NewHandler(proposal.NewService(exec), limiter.ProposalMiddleware()).Routes(),
		Parameters: parameter.NewHandler(exec).Routes(),
		Events:     eventlog.NewHandler(eventlog.NewService(eventRepo)).Routes(),
		Payouts:    payout.NewHandler(payout.NewService(payoutRepo, dispatcher.Notify)).Routes(),
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Start(ctx)
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		stop()
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error("server shutdown failed", slog.String("error", shutdownErr.Error()))
	}

	wg.Wait()
	return err
}

// routerDeps are the pieces the HTTP router is assembled from
type routerDeps struct {
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	Limiter  *mw.RateLimiter

	Members    http.Handler
	Proposals  http.Handler
	Parameters http.Handler
	Events     http.Handler
	Payouts    http.Handler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.IdentityMiddleware)
	r.Use(mw.NewLoggingMiddleware(d.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler(d.Gatherer))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.GeneralMiddleware())
		}

		// Mount feature routers
		r.Mount("/members", d.Members)
		r.Mount("/proposals", d.Proposals)
		r.Mount("/parameters", d.Parameters)
		r.Mount("/events", d.Events)
		r.Mount("/payouts", d.Payouts)
	})

	return r
}
