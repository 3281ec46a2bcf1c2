package testing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/bookseed/internal/db"
	"github.com/vvka-141/bookseed/internal/logging"
	"github.com/vvka-141/bookseed/internal/services"
	"github.com/vvka-141/bookseed/internal/testinfra"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := testinfra.StartSimplePostgres(ctx)
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the admin connection string for tests.
// Priority: BOOKSEED_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("BOOKSEED_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("BOOKSEED_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// NewTestSeeder creates a SeedService wired with the real connector factory.
// A nil logger discards output.
func NewTestSeeder(t *testing.T, logger bookseed.Logger, renderer bookseed.TableRenderer) *services.SeedService {
	t.Helper()

	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if renderer == nil {
		renderer = &DiscardRenderer{}
	}
	return services.NewSeedService(db.NewConnector, logger, renderer)
}

// DiscardRenderer accepts and drops every table.
type DiscardRenderer struct{}

func (DiscardRenderer) Render(*bookseed.Table) error { return nil }

// CreateTestDB creates an empty database named dbName (dropping any
// leftover from an earlier run) and returns a connection config for it.
// The database is dropped when the test completes.
func CreateTestDB(t *testing.T, connString, dbName string) *bookseed.ConnectionConfig {
	t.Helper()

	ctx := context.Background()
	CleanupTestDB(t, connString, dbName)

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect for test DB creation: %v", err)
	}
	defer conn.Close(ctx) //nolint:errcheck

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Fatalf("Failed to create test database %s: %v", dbName, err)
	}
	t.Logf("✓ Created test database %s", dbName)

	t.Cleanup(func() {
		CleanupTestDB(t, connString, dbName)
	})

	cfg, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	cfg.Database = dbName
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

// CleanupTestDB drops the test database.
// Safe to call multiple times (uses DROP DATABASE IF EXISTS).
func CleanupTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer conn.Close(ctx) //nolint:errcheck

	terminateQuery := `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
	if _, err := conn.Exec(ctx, terminateQuery, dbName); err != nil {
		t.Logf("Warning: Failed to terminate connections to %s: %v", dbName, err)
	}

	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Logf("Warning: Failed to drop database %s: %v", dbName, err)
	}
}

// Connect opens a direct connection to cfg's database for assertions.
// The connection is closed when the test completes.
func Connect(t *testing.T, cfg *bookseed.ConnectionConfig) *pgx.Conn {
	t.Helper()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, db.BuildConnectionString(cfg))
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", cfg.Database, err)
	}
	t.Cleanup(func() {
		conn.Close(context.Background()) //nolint:errcheck
	})
	return conn
}

// CountRows returns SELECT count(*) for each managed table.
func CountRows(t *testing.T, conn *pgx.Conn) map[string]int {
	t.Helper()

	counts := make(map[string]int, len(bookseed.Tables))
	for _, table := range bookseed.Tables {
		var n int
		query := fmt.Sprintf("SELECT count(*) FROM %s", pgx.Identifier{table}.Sanitize())
		if err := conn.QueryRow(context.Background(), query).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		counts[table] = n
	}
	return counts
}

// UniqueDBName derives a database name from the test name.
func UniqueDBName(t *testing.T) string {
	t.Helper()

	name := strings.ToLower(t.Name())
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
	name = "bookseed_" + name
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}
