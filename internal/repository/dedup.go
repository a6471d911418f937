package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type column struct {
	name  string
	value any
}

func columns(names []string, values []any) []column {
	out := make([]column, len(names))
	for i, n := range names {
		out[i] = column{name: n, value: values[i]}
	}
	return out
}

// exists reports whether table holds a row matching every key column,
// treating NULL as equal to NULL.
func (db *DB) exists(ctx context.Context, table string, key []column) (bool, error) {
	where := make([]string, len(key))
	args := make([]any, len(key))
	for i, c := range key {
		where[i] = db.dialect.equal(c.name)
		args[i] = c.value
	}

	q := "SELECT 1 FROM " + table + " WHERE " + strings.Join(where, " AND ") + " LIMIT 1"
	var one int
	err := db.queryRow(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", table, err)
	}
	return true, nil
}

func (db *DB) insert(ctx context.Context, table string, cols []column) (int64, error) {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = c.name
		marks[i] = "?"
		args[i] = c.value
	}

	q := "INSERT INTO " + table + " (" + strings.Join(names, ", ") + ") VALUES (" +
		strings.Join(marks, ", ") + ") RETURNING id"
	var id int64
	if err := db.queryRow(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return id, nil
}

// insertIfAbsent inserts key plus rest into table unless a row with the same
// key already exists. The lookup and the insert share one unit of work.
func (db *DB) insertIfAbsent(ctx context.Context, table string, key, rest []column) (int64, bool, error) {
	var (
		id       int64
		inserted bool
	)
	err := db.InTx(ctx, table, func(ctx context.Context) error {
		found, err := db.exists(ctx, table, key)
		if err != nil || found {
			return err
		}
		all := make([]column, 0, len(key)+len(rest))
		all = append(all, key...)
		all = append(all, rest...)
		id, err = db.insert(ctx, table, all)
		if err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return id, inserted, nil
}

func (db *DB) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := db.queryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (db *DB) maxTimestamp(ctx context.Context, table string) (nullTime, error) {
	var nt nullTime
	if err := db.queryRow(ctx, "SELECT MAX(recorded_at) FROM "+table).Scan(&nt); err != nil {
		return nullTime{}, fmt.Errorf("max recorded_at %s: %w", table, err)
	}
	return nt, nil
}
