package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wakala/dwh/internal/domain"
)

type PartyRepo struct {
	db *DB
}

func NewPartyRepo(db *DB) *PartyRepo {
	return &PartyRepo{db: db}
}

func partyValues(p domain.Party) []any {
	switch v := p.(type) {
	case domain.Client:
		return []any{v.FirstName, v.LastName, v.Address, v.PhoneNumber, v.RegistrationDate, v.Email}
	case domain.Company:
		return []any{v.Name, v.PhoneNumber, v.Address, v.RegistrationDate, v.Email, v.INN}
	}
	return nil
}

// partyTargets returns scan destinations for the party columns of kind and a
// func building the party once the row has been scanned.
func partyTargets(kind domain.PartyKind) ([]any, func() domain.Party) {
	if kind == domain.PartyCompany {
		var c domain.Company
		return []any{&c.Name, &c.PhoneNumber, &c.Address, &c.RegistrationDate, &c.Email, &c.INN},
			func() domain.Party { return c }
	}
	var c domain.Client
	return []any{&c.FirstName, &c.LastName, &c.Address, &c.PhoneNumber, &c.RegistrationDate, &c.Email},
		func() domain.Party { return c }
}

func depositValues(dep *domain.Deposit) []any {
	if dep == nil {
		return []any{nil, nil, nil, nil}
	}
	return []any{dep.Amount, dep.OpeningDate, dep.ClosingDate, dep.InterestRate}
}

type depositScan struct {
	amount   decimal.NullDecimal
	opening  domain.NullDate
	closing  domain.NullDate
	interest decimal.NullDecimal
}

func (d *depositScan) targets() []any {
	return []any{&d.amount, &d.opening, &d.closing, &d.interest}
}

func (d *depositScan) deposit() *domain.Deposit {
	if !d.amount.Valid {
		return nil
	}
	return &domain.Deposit{
		Amount:       d.amount.Decimal,
		OpeningDate:  d.opening.Date,
		ClosingDate:  d.closing,
		InterestRate: d.interest.Decimal,
	}
}

// InsertStaging stores one file row. Party and deposit attributes form the
// key; the ingestion timestamp is not part of it.
func (r *PartyRepo) InsertStaging(ctx context.Context, rec domain.PartyRecord) (bool, error) {
	pt := partyTablesFor(rec.Party.PartyKind())
	key := append(columns(pt.columns, partyValues(rec.Party)), columns(depositColumns, depositValues(rec.Deposit))...)
	rest := []column{
		{name: "file_name", value: rec.FileName},
		{name: "recorded_at", value: r.db.dialect.timestamp(rec.RecordedAt)},
	}

	_, inserted, err := r.db.insertIfAbsent(ctx, r.db.dialect.table(domain.LayerStaging, pt.party), key, rest)
	if err != nil {
		return false, fmt.Errorf("insert staging %s: %w", pt.party, err)
	}
	return inserted, nil
}

// Insert stores a party and its deposit above staging as one unit. The key
// is the party attributes, the carried timestamp and the deposit attributes,
// so one party with several deposits in a file keeps all of them.
func (r *PartyRepo) Insert(ctx context.Context, layer domain.Layer, rec domain.PartyRecord) (int64, bool, error) {
	pt := partyTablesFor(rec.Party.PartyKind())
	d := r.db.dialect
	ts := d.timestamp(rec.RecordedAt)
	partyCols := append(columns(pt.columns, partyValues(rec.Party)), column{name: "recorded_at", value: ts})

	var (
		id       int64
		inserted bool
	)
	err := r.db.InTx(ctx, d.table(layer, pt.party), func(ctx context.Context) error {
		found, err := r.exists(ctx, layer, pt, partyCols, rec.Deposit)
		if err != nil || found {
			return err
		}
		if id, err = r.db.insert(ctx, d.table(layer, pt.party), partyCols); err != nil {
			return err
		}
		inserted = true
		if rec.Deposit == nil {
			return nil
		}
		depCols := append([]column{{name: pt.ref, value: id}}, columns(depositColumns, depositValues(rec.Deposit))...)
		depCols = append(depCols, column{name: "recorded_at", value: ts})
		_, err = r.db.insert(ctx, d.table(layer, pt.deposit), depCols)
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("insert %s %s: %w", layer, pt.party, err)
	}
	return id, inserted, nil
}

// exists looks for a party row matching partyCols whose deposit matches dep.
// A nil dep matches a party stored without a deposit.
func (r *PartyRepo) exists(ctx context.Context, layer domain.Layer, pt partyTables, partyCols []column, dep *domain.Deposit) (bool, error) {
	d := r.db.dialect
	var (
		where []string
		args  []any
	)
	for _, c := range partyCols {
		where = append(where, d.equal("p."+c.name))
		args = append(args, c.value)
	}
	for _, c := range columns(depositColumns, depositValues(dep)) {
		where = append(where, d.equal("d."+c.name))
		args = append(args, c.value)
	}

	q := "SELECT 1 FROM " + d.table(layer, pt.party) + " p LEFT JOIN " + d.table(layer, pt.deposit) +
		" d ON d." + pt.ref + " = p.id WHERE " + strings.Join(where, " AND ") + " LIMIT 1"
	var one int
	err := r.db.queryRow(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", pt.party, err)
	}
	return true, nil
}

// List returns every party of kind in layer with its deposit, if any.
func (r *PartyRepo) List(ctx context.Context, layer domain.Layer, kind domain.PartyKind) ([]domain.PartyRecord, error) {
	pt := partyTablesFor(kind)
	d := r.db.dialect

	var q string
	if layer == domain.LayerStaging {
		q = "SELECT id, " + strings.Join(pt.columns, ", ") + ", recorded_at, file_name, " +
			strings.Join(depositColumns, ", ") + " FROM " + d.table(layer, pt.party) + " ORDER BY id"
	} else {
		q = "SELECT p.id, " + prefixed("p.", pt.columns) + ", p.recorded_at, '', " + prefixed("d.", depositColumns) +
			" FROM " + d.table(layer, pt.party) + " p LEFT JOIN " + d.table(layer, pt.deposit) +
			" d ON d." + pt.ref + " = p.id ORDER BY p.id, d.id"
	}

	rows, err := r.db.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s %s: %w", layer, pt.party, err)
	}
	defer rows.Close()

	var out []domain.PartyRecord
	seen := make(map[int64]bool)
	for rows.Next() {
		var (
			rec domain.PartyRecord
			ts  nullTime
			dep depositScan
		)
		partyDest, build := partyTargets(kind)
		dest := append([]any{&rec.ID}, partyDest...)
		dest = append(dest, &ts, &rec.FileName)
		dest = append(dest, dep.targets()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", pt.party, err)
		}
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		rec.Party = build()
		rec.Deposit = dep.deposit()
		rec.RecordedAt = ts.Time
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Watermark is the latest party timestamp stored in layer.
func (r *PartyRepo) Watermark(ctx context.Context, layer domain.Layer, kind domain.PartyKind) (domain.Watermark, error) {
	nt, err := r.db.maxTimestamp(ctx, r.db.dialect.table(layer, partyTablesFor(kind).party))
	if err != nil {
		return domain.Watermark{}, err
	}
	return domain.Watermark{At: nt.Time, Valid: nt.Valid}, nil
}

// ActiveDepositTotal sums the deposits of kind open on day: opened before it
// and not closed on or before it.
func (r *PartyRepo) ActiveDepositTotal(ctx context.Context, layer domain.Layer, kind domain.PartyKind, day domain.Date) (decimal.Decimal, error) {
	q := "SELECT COALESCE(SUM(deposit_amount), 0) FROM " + r.db.dialect.table(layer, partyTablesFor(kind).deposit) +
		" WHERE opening_date < ? AND (closing_date IS NULL OR closing_date > ?)"

	var total decimal.Decimal
	if err := r.db.queryRow(ctx, q, day, day).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s deposits on %s: %w", kind, day, err)
	}
	return total, nil
}

func (r *PartyRepo) Count(ctx context.Context, layer domain.Layer, kind domain.PartyKind) (int, error) {
	return r.db.count(ctx, r.db.dialect.table(layer, partyTablesFor(kind).party))
}

func (r *PartyRepo) CountDeposits(ctx context.Context, layer domain.Layer, kind domain.PartyKind) (int, error) {
	return r.db.count(ctx, r.db.dialect.table(layer, partyTablesFor(kind).deposit))
}

func prefixed(prefix string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return strings.Join(out, ", ")
}

// LayerDeposits sums the deposits of a single layer.
type LayerDeposits struct {
	repo  *PartyRepo
	layer domain.Layer
}

func (r *PartyRepo) In(layer domain.Layer) LayerDeposits {
	return LayerDeposits{repo: r, layer: layer}
}

func (d LayerDeposits) ActiveDepositTotal(ctx context.Context, kind domain.PartyKind, day domain.Date) (decimal.Decimal, error) {
	return d.repo.ActiveDepositTotal(ctx, d.layer, kind, day)
}
