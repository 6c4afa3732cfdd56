// Package store maps the four inventory tables to domain types. Stores work
// on either a *sql.DB or a *sql.Tx.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/stokosor/internal/domain"
)

// DBTX is the subset of *sql.DB and *sql.Tx the stores use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Order selects the ordering of list queries.
type Order int

const (
	// ByRecent lists the most recently updated rows first.
	ByRecent Order = iota
	// ByName lists rows alphabetically, as exports do.
	ByName
)

func (o Order) clause() string {
	if o == ByName {
		return "ORDER BY name ASC, id ASC"
	}
	return "ORDER BY updated_at DESC, id ASC"
}

type rowScanner interface {
	Scan(dest ...any) error
}

// assignments collects the SET clause of a partial update.
type assignments struct {
	columns []string
	args    []any
}

func (a *assignments) add(column string, value any) {
	a.columns = append(a.columns, column+" = ?")
	a.args = append(a.args, value)
}

func setOpt[T any](a *assignments, column string, o domain.Opt[T]) {
	if v, ok := o.Get(); ok {
		a.add(column, v)
	}
}

func setPacked(a *assignments, column string, o domain.Opt[[]string]) error {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	packed, err := pack(v)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", column, err)
	}
	a.add(column, packed)
	return nil
}

// update runs UPDATE table SET ... , updated_at = ? WHERE id = ?.
func update(ctx context.Context, db DBTX, table, id string, a assignments, updatedAt string) error {
	a.add("updated_at", updatedAt)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(a.columns, ", "))
	result, err := db.ExecContext(ctx, query, append(a.args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	return expectRow(result, table, id)
}

func deleteByID(ctx context.Context, db DBTX, table, id string) error {
	result, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return expectRow(result, table, id)
}

func deleteAll(ctx context.Context, db DBTX, table string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	return nil
}

func expectRow(result sql.Result, table, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
	}
	return nil
}

// pack serializes a string collection after Compact; empty collections are
// stored as NULL.
func pack(values []string) (any, error) {
	values = domain.Compact(values)
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unpack(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, err
	}
	return domain.Compact(values), nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func decimalPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}

// collect drains rows through scan and closes them.
func collect[T any](rows *sql.Rows, what string, scan func(rowScanner) (T, error)) ([]T, error) {
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}
	return out, nil
}
