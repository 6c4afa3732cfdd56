package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"
)

// pragmas are applied by the driver to every new connection, so foreign keys
// (and with them cascading deletes) hold regardless of which pooled
// connection runs a statement.
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Open opens the SQLite database at dbPath and brings its schema to the
// current version. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, dbPath string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One local writer; a single connection also keeps ":memory:" databases
	// from splitting across pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := NewMigrator(db, logger).EnsureSchema(ctx); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("%w (also failed to close db: %v)", err, cerr)
		}
		return nil, err
	}

	return db, nil
}

// OpenForTesting returns a migrated in-memory database.
func OpenForTesting() (*sql.DB, error) {
	return Open(context.Background(), ":memory:", slog.New(slog.DiscardHandler))
}

// OpenRaw opens dbPath with the connection pragmas but without touching the
// schema. Tests use it to stage legacy layouts.
func OpenRaw(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func dsn(dbPath string) string {
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	return "file:" + dbPath + "?" + strings.Join(params, "&")
}
