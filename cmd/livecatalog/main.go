package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voyagen/livecatalog/internal/cache"
	"github.com/voyagen/livecatalog/internal/config"
	"github.com/voyagen/livecatalog/internal/fetcher"
	"github.com/voyagen/livecatalog/internal/metrics"
	"github.com/voyagen/livecatalog/internal/service"
	"github.com/voyagen/livecatalog/internal/store"
)

// importLockKey guards against overlapping runs: the merge engine
// snapshots its working set once, so two concurrent runs could stage
// the same new entities twice.
const importLockKey = "livecatalog:import:lock"

func main() {
	configPath := flag.String("config", "", "Optional config file path (YAML); else use env DATABASE_URL / REDIS_URL")
	once := flag.Bool("once", false, "Run a single import and exit instead of scheduling")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Run migrations.
	absMigrations, err := filepath.Abs("migrations")
	if err != nil {
		absMigrations = "migrations"
	}
	if _, err := os.Stat(absMigrations); err != nil {
		if exe, e := os.Executable(); e == nil {
			absMigrations = filepath.Join(filepath.Dir(exe), "migrations")
		}
	}
	if err := store.RunMigrations(cfg.DatabaseURL, "file://"+absMigrations); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	rds, err := cache.New(cfg.RedisURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "redis: %v\n", err)
		os.Exit(1)
	}
	defer rds.Close()
	if err := rds.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "redis ping: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
	}

	importer := &service.Importer{
		Store:     pg,
		Events:    cache.NewEventStore(rds),
		Decoder:   fetcher.M3UDecoder{},
		Sources:   cfg.Sources,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	}

	if *once {
		if err := runImport(ctx, rds, importer); err != nil {
			slog.Error("import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("scheduler started", "interval", cfg.ImportInterval, "sources", len(cfg.Sources))
	ticker := time.NewTicker(cfg.ImportInterval)
	defer ticker.Stop()

	// First run immediately, then on every tick.
	if err := runImport(ctx, rds, importer); err != nil {
		slog.Error("import failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return
		case <-ticker.C:
			if err := runImport(ctx, rds, importer); err != nil {
				slog.Error("import failed", "error", err)
			}
		}
	}
}

// runImport executes one run under the distributed import lock. A held
// lock means another instance is mid-run; the tick is skipped.
func runImport(ctx context.Context, rds *cache.Redis, importer *service.Importer) error {
	unlock, err := cache.TryLock(ctx, rds, importLockKey, 30*time.Minute)
	if err != nil {
		if errors.Is(err, cache.ErrLocked) {
			slog.Warn("import already running elsewhere, skipping")
			return nil
		}
		return err
	}
	defer unlock()

	summary, err := importer.Run(ctx)
	if err != nil {
		metrics.ObserveFailure()
		return err
	}
	metrics.ObserveRun(summary)
	return nil
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server", "error", err)
	}
}
