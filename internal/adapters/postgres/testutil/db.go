// Package testutil provides database plumbing for Postgres adapter tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	postgres "github.com/lakbay-tourism/itinerary-api/internal/adapters/postgres"
	"github.com/lakbay-tourism/itinerary-api/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenMigratedPool connects to TEST_DATABASE_URL, applies all migrations, and
// truncates the itinerary table so every test run starts clean. Tests are
// skipped when TEST_DATABASE_URL is unset so the suite stays runnable without
// a database.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres contract tests")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open database for migrations: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("set goose dialect: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, "TRUNCATE itineraries"); err != nil {
		t.Fatalf("truncate itineraries: %v", err)
	}
	return pool
}
