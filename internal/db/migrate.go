package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
)

//go:embed sql/schema.sql
var schemaFS embed.FS

// CurrentVersion is the schema version produced by sql/schema.sql and by
// applying every migration step.
const CurrentVersion = 3

// legacyVersion is assumed for databases created before versions were recorded.
const legacyVersion = 1

// ErrMigration wraps any failure that leaves the schema unusable.
var ErrMigration = errors.New("schema migration failed")

// step upgrades the schema to version. apply must be idempotent: a rerun
// after a partial failure has to succeed.
type step struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

// steps are applied in order. Append new steps at the end and bump
// CurrentVersion and sql/schema.sql with them.
var steps = []step{
	{
		version: 2,
		name:    "container hierarchy",
		apply: func(ctx context.Context, tx *sql.Tx) error {
			if err := addColumn(ctx, tx, "containers", "parent_container_id",
				"TEXT REFERENCES containers(id) ON DELETE CASCADE"); err != nil {
				return err
			}
			if err := addColumn(ctx, tx, "containers", "type", "TEXT NOT NULL DEFAULT 'box'"); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `UPDATE containers SET type = 'box' WHERE type IS NULL OR type = ''`); err != nil {
				return fmt.Errorf("failed to backfill container type: %w", err)
			}
			_, err := tx.ExecContext(ctx,
				`CREATE INDEX IF NOT EXISTS idx_containers_parent ON containers(parent_container_id)`)
			return err
		},
	},
	{
		version: 3,
		name:    "item details",
		apply: func(ctx context.Context, tx *sql.Tx) error {
			for _, column := range []string{"brand", "model", "serial_number", "warranty_date"} {
				if err := addColumn(ctx, tx, "items", column, "TEXT"); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// Migrator brings a database to CurrentVersion. The version counter lives in
// the schema_migrations table managed by golang-migrate's sqlite driver.
type Migrator struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMigrator(db *sql.DB, logger *slog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// EnsureSchema handles the three starting states: a fresh database gets the
// full schema at CurrentVersion; a database with tables but no recorded
// version is treated as legacyVersion; anything older than CurrentVersion
// gets the pending steps. Running it again is a no-op.
func (m *Migrator) EnsureSchema(ctx context.Context) error {
	// Never Close the driver: that closes m.db.
	driver, err := sqlite.WithInstance(m.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("%w: failed to open version table: %w", ErrMigration, err)
	}

	version, recorded, err := m.storedVersion(ctx, driver)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigration, err)
	}

	if version == 0 {
		exists, err := tableExists(ctx, m.db, "containers")
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMigration, err)
		}
		if !exists {
			return m.createFresh(driver)
		}
		m.logger.Info("existing database without schema version, migrating", "from", legacyVersion)
		version = legacyVersion
	}

	if version > CurrentVersion {
		return fmt.Errorf("%w: database version %d is newer than supported version %d",
			ErrMigration, version, CurrentVersion)
	}

	applied := false
	for _, s := range steps {
		if s.version <= version {
			continue
		}
		applied = true
		m.logger.Info("applying migration", "version", s.version, "name", s.name)
		if err := m.applyStep(ctx, s); err != nil {
			return fmt.Errorf("%w: step %d (%s): %w", ErrMigration, s.version, s.name, err)
		}
		if err := driver.SetVersion(s.version, false); err != nil {
			return fmt.Errorf("%w: failed to record version %d: %w", ErrMigration, s.version, err)
		}
	}

	if !applied && !recorded {
		if err := driver.SetVersion(version, false); err != nil {
			return fmt.Errorf("%w: failed to record version %d: %w", ErrMigration, version, err)
		}
	}

	return nil
}

// Version returns the recorded schema version, 0 when none is recorded.
func (m *Migrator) Version(ctx context.Context) (int, error) {
	driver, err := sqlite.WithInstance(m.db, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("failed to open version table: %w", err)
	}
	version, _, err := m.storedVersion(ctx, driver)
	return version, err
}

// storedVersion prefers the migrate version table and falls back to
// PRAGMA user_version, which older installs used as their counter. recorded
// is false when the version did not come from the version table.
func (m *Migrator) storedVersion(ctx context.Context, driver database.Driver) (version int, recorded bool, err error) {
	version, _, err = driver.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != database.NilVersion {
		return version, true, nil
	}

	var userVersion int
	if err := m.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&userVersion); err != nil {
		return 0, false, fmt.Errorf("failed to read user_version: %w", err)
	}
	return userVersion, false, nil
}

func (m *Migrator) createFresh(driver database.Driver) error {
	data, err := schemaFS.ReadFile("sql/schema.sql")
	if err != nil {
		return fmt.Errorf("%w: failed to read schema: %w", ErrMigration, err)
	}

	m.logger.Info("creating schema", "version", CurrentVersion)
	if err := driver.Run(strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("%w: failed to create schema: %w", ErrMigration, err)
	}
	if err := driver.SetVersion(CurrentVersion, false); err != nil {
		return fmt.Errorf("%w: failed to record version %d: %w", ErrMigration, CurrentVersion, err)
	}
	return nil
}

func (m *Migrator) applyStep(ctx context.Context, s step) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.apply(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// addColumn adds column to table unless it is already there.
func addColumn(ctx context.Context, tx *sql.Tx, table, column, definition string) error {
	columns, err := tableColumns(ctx, tx, table)
	if err != nil {
		return err
	}
	if columns[column] {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition)); err != nil {
		return fmt.Errorf("failed to add %s.%s: %w", table, column, err)
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// tableColumns returns the set of column names of table.
func tableColumns(ctx context.Context, q queryer, table string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}
	return columns, nil
}

func tableExists(ctx context.Context, q queryer, table string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return n > 0, nil
}
