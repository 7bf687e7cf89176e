// main is the entry point of the Zoo Keepr API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (defaults, optional YAML file, environment)
//  2. Initialise the logger and metrics
//  3. Open the storage backend and load both collections
//  4. Register API, page, health and metrics routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close storage, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/zookeepr
//	PORT=8080 go run ./cmd/zookeepr
//	go run ./cmd/zookeepr --config=config/local.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/zookeepr/internal/config"
	"github.com/aanand-mishra/zookeepr/internal/http/handlers/health"
	"github.com/aanand-mishra/zookeepr/internal/http/handlers/pages"
	"github.com/aanand-mishra/zookeepr/internal/http/handlers/resource"
	"github.com/aanand-mishra/zookeepr/internal/http/middleware"
	"github.com/aanand-mishra/zookeepr/internal/metrics"
	"github.com/aanand-mishra/zookeepr/internal/record"
	"github.com/aanand-mishra/zookeepr/internal/storage"
	"github.com/aanand-mishra/zookeepr/internal/storage/jsonfile"
	"github.com/aanand-mishra/zookeepr/internal/storage/sqlite"
	"github.com/aanand-mishra/zookeepr/web"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger and Metrics ──────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting zookeepr",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	m := metrics.New()

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// Both collections share one backend. Malformed data on disk is fatal:
	// serving from a half-loaded collection would hand out duplicate ids.
	ctx := context.Background()

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	animals, err := storage.Open(ctx, record.Animal, backend, m)
	if err != nil {
		log.Error("failed to load animals", slog.String("error", err.Error()))
		os.Exit(1)
	}
	zookeepers, err := storage.Open(ctx, record.Zookeeper, backend, m)
	if err != nil {
		log.Error("failed to load zookeepers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("path", cfg.Storage.Path),
		slog.Int("animals", animals.Len()),
		slog.Int("zookeepers", zookeepers.Len()),
	)

	site, err := pages.New(web.Public, "public")
	if err != nil {
		log.Error("failed to load pages", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// Route table:
	//   GET    /api/animals            → list / filter animals
	//   GET    /api/animals/{id}       → get one animal
	//   POST   /api/animals            → create an animal
	//   (same three under /api/zookeepers)
	//   GET    /healthz, /metrics
	//   GET    /, /animals, /zookeepers → HTML pages
	//   GET    /                       → asset or home page (fallback)
	router := http.NewServeMux()

	resource.Register(router, animals)
	resource.Register(router, zookeepers)

	router.HandleFunc("GET /healthz", health.Handler)
	router.Handle("GET /metrics", m.Handler())

	router.HandleFunc("GET /{$}", site.Page("index"))
	router.HandleFunc("GET /animals", site.Page("animals"))
	router.HandleFunc("GET /zookeepers", site.Page("zookeepers"))
	router.HandleFunc("GET /", site.Fallback())

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recover(log),
		middleware.Metrics(m),
	)

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:         cfg.HTTPServer.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", server.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// openBackend builds the storage backend named by cfg.Driver.
func openBackend(cfg config.Storage) (storage.Backend, error) {
	switch cfg.Driver {
	case config.DriverJSON:
		return jsonfile.New(cfg.Path)
	case config.DriverSQLite:
		return sqlite.New(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
