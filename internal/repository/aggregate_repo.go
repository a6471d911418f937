package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wakala/dwh/internal/domain"
)

// DateRange bounds a listing by date, both ends inclusive. A nil end is open.
type DateRange struct {
	From *domain.Date
	To   *domain.Date
}

func (f DateRange) where() (string, []any) {
	var clauses []string
	var args []any
	if f.From != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, *f.To)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type AggregateRepo struct {
	db *DB
}

func NewAggregateRepo(db *DB) *AggregateRepo {
	return &AggregateRepo{db: db}
}

func (r *AggregateRepo) table() string {
	return r.db.dialect.table(domain.LayerWarehouse, "common_data")
}

func (r *AggregateRepo) Exists(ctx context.Context, day domain.Date) (bool, error) {
	return r.db.exists(ctx, r.table(), []column{{name: "date", value: day}})
}

// Insert writes the aggregate unless its date is already present.
func (r *AggregateRepo) Insert(ctx context.Context, agg domain.DailyAggregate) (bool, error) {
	rest := []column{
		{name: "client_deposits_total", value: agg.ClientDeposits},
		{name: "company_deposits_total", value: agg.CompanyDeposits},
		{name: "bank_total_capital", value: agg.Capital},
		{name: "bank_total_assets", value: agg.Assets},
		{name: "bank_total_liabilities", value: agg.Liabilities},
		{name: "recorded_at", value: r.db.dialect.timestamp(agg.RecordedAt)},
	}
	_, inserted, err := r.db.insertIfAbsent(ctx, r.table(), []column{{name: "date", value: agg.Date}}, rest)
	if err != nil {
		return false, fmt.Errorf("insert common data %s: %w", agg.Date, err)
	}
	return inserted, nil
}

const aggregateColumns = "date, client_deposits_total, company_deposits_total, " +
	"bank_total_capital, bank_total_assets, bank_total_liabilities, recorded_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAggregate(row rowScanner) (*domain.DailyAggregate, error) {
	var (
		agg domain.DailyAggregate
		ts  nullTime
	)
	err := row.Scan(&agg.Date, &agg.ClientDeposits, &agg.CompanyDeposits,
		&agg.Capital, &agg.Assets, &agg.Liabilities, &ts)
	if err != nil {
		return nil, err
	}
	agg.RecordedAt = ts.Time
	return &agg, nil
}

func (r *AggregateRepo) Get(ctx context.Context, day domain.Date) (*domain.DailyAggregate, error) {
	row := r.db.queryRow(ctx, "SELECT "+aggregateColumns+" FROM "+r.table()+" WHERE date = ? ORDER BY id LIMIT 1", day)
	agg, err := scanAggregate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get common data %s: %w", day, err)
	}
	return agg, nil
}

// List returns the aggregates within f ordered by date.
func (r *AggregateRepo) List(ctx context.Context, f DateRange) ([]domain.DailyAggregate, error) {
	where, args := f.where()
	rows, err := r.db.query(ctx, "SELECT "+aggregateColumns+" FROM "+r.table()+where+" ORDER BY date, id", args...)
	if err != nil {
		return nil, fmt.Errorf("query common data: %w", err)
	}
	defer rows.Close()

	var out []domain.DailyAggregate
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan common data: %w", err)
		}
		out = append(out, *agg)
	}
	return out, rows.Err()
}
