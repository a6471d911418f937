package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wakala/dwh/internal/domain"
)

type RatioRepo struct {
	db *DB
}

func NewRatioRepo(db *DB) *RatioRepo {
	return &RatioRepo{db: db}
}

func (r *RatioRepo) table() string {
	return r.db.dialect.table(domain.LayerMart, "params")
}

func (r *RatioRepo) Exists(ctx context.Context, day domain.Date) (bool, error) {
	return r.db.exists(ctx, r.table(), []column{{name: "date", value: day}})
}

// Insert writes the ratio row unless its date is already present.
func (r *RatioRepo) Insert(ctx context.Context, row domain.RatioRow) (bool, error) {
	rest := []column{
		{name: "n1_0", value: row.N1_0},
		{name: "standard_n1_0", value: row.Standards.N1_0},
		{name: "n1_1", value: row.N1_1},
		{name: "standard_n1_1", value: row.Standards.N1_1},
		{name: "n1_2", value: row.N1_2},
		{name: "standard_n1_2", value: row.Standards.N1_2},
		{name: "recorded_at", value: r.db.dialect.timestamp(row.RecordedAt)},
	}
	_, inserted, err := r.db.insertIfAbsent(ctx, r.table(), []column{{name: "date", value: row.Date}}, rest)
	if err != nil {
		return false, fmt.Errorf("insert params %s: %w", row.Date, err)
	}
	return inserted, nil
}

const ratioColumns = "date, n1_0, standard_n1_0, n1_1, standard_n1_1, n1_2, standard_n1_2, recorded_at"

func scanRatio(row rowScanner) (*domain.RatioRow, error) {
	var (
		rr domain.RatioRow
		ts nullTime
	)
	err := row.Scan(&rr.Date, &rr.N1_0, &rr.Standards.N1_0, &rr.N1_1, &rr.Standards.N1_1,
		&rr.N1_2, &rr.Standards.N1_2, &ts)
	if err != nil {
		return nil, err
	}
	rr.RecordedAt = ts.Time
	return &rr, nil
}

func (r *RatioRepo) Get(ctx context.Context, day domain.Date) (*domain.RatioRow, error) {
	rr, err := scanRatio(r.db.queryRow(ctx, "SELECT "+ratioColumns+" FROM "+r.table()+" WHERE date = ? ORDER BY id LIMIT 1", day))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get params %s: %w", day, err)
	}
	return rr, nil
}

func (r *RatioRepo) List(ctx context.Context, f DateRange) ([]domain.RatioRow, error) {
	where, args := f.where()
	rows, err := r.db.query(ctx, "SELECT "+ratioColumns+" FROM "+r.table()+where+" ORDER BY date, id", args...)
	if err != nil {
		return nil, fmt.Errorf("query params: %w", err)
	}
	defer rows.Close()

	var out []domain.RatioRow
	for rows.Next() {
		rr, err := scanRatio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan params: %w", err)
		}
		out = append(out, *rr)
	}
	return out, rows.Err()
}
