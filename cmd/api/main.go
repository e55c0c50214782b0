package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/lakbay-tourism/itinerary-api/internal/adapters/httpapi"
	memrepo "github.com/lakbay-tourism/itinerary-api/internal/adapters/memory/itineraryrepo"
	"github.com/lakbay-tourism/itinerary-api/internal/adapters/postgres"
	pgrepo "github.com/lakbay-tourism/itinerary-api/internal/adapters/postgres/itineraryrepo"
	"github.com/lakbay-tourism/itinerary-api/internal/app/itineraries"
	"github.com/lakbay-tourism/itinerary-api/internal/platform/clock"
	"github.com/lakbay-tourism/itinerary-api/internal/platform/config"
	repoport "github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryrepo"
	"github.com/lakbay-tourism/itinerary-api/migrations"
)

func main() {
	// Missing .env is fine: containerized deployments set real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	var (
		repo    repoport.Repository
		cleanup func()
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		cleanup = pool.Close
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		repo = pgrepo.NewRepo(pool)
	default:
		repo = memrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case "dev":
		log.Warn("dev auth mode enabled; requests are trusted via X-Debug-Subject")
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
	default:
		authMW = httpapi.NewAuthMiddleware(cfg.JWTSecret)
	}

	svc := itineraries.NewService(repo, clock.NewSystemClock())
	handler := httpapi.NewRouter(httpapi.NewServer(svc), httpapi.RouterOptions{
		AuthMiddleware: authMW,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("api listening", "port", cfg.Port, "storage", cfg.StorageBackend, "auth", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// runMigrations applies the embedded goose migrations. It opens a short-lived
// database/sql connection because goose drives *sql.DB, not a pgx pool.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
