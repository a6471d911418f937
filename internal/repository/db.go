package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// DB is a store connection together with the dialect its SQL is rendered in.
type DB struct {
	sql     *sql.DB
	dialect Dialect
}

// Open connects to the store and ensures every layer's tables exist.
//
// driver is one of "postgres" (lib/pq), "pgx" (pgx stdlib) or "sqlite". For
// sqlite pass ":memory:" for an in-memory database.
func Open(driver, dsn string) (*DB, error) {
	var dialect Dialect
	switch driver {
	case "postgres", "pgx":
		dialect = DialectPostgres
	case "sqlite":
		dialect = DialectSQLite
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if dialect == DialectSQLite {
		// A single connection keeps :memory: databases alive and serializes writers.
		sqlDB.SetMaxOpenConns(1)
		if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("set wal mode: %w", err)
		}
	}

	db := &DB{sql: sqlDB, dialect: dialect}
	if err := db.createTables(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements(db.dialect) {
		if _, err := db.sql.ExecContext(ctx, stmt); err != nil {
			head := stmt
			if len(head) > 60 {
				head = head[:60]
			}
			return fmt.Errorf("exec %q: %w", head, err)
		}
	}
	return nil
}

func (db *DB) Dialect() Dialect { return db.dialect }

func (db *DB) Ping(ctx context.Context) error { return db.sql.PingContext(ctx) }

func (db *DB) Close() error { return db.sql.Close() }
