package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wakala/dwh/internal/domain"
)

type BankRepo struct {
	db *DB
}

func NewBankRepo(db *DB) *BankRepo {
	return &BankRepo{db: db}
}

func bankKey(b domain.Bank) []column {
	return columns(bankColumns, []any{b.Name, b.Address, b.LicenseNumber})
}

func (r *BankRepo) InsertStaging(ctx context.Context, rec domain.BankRecord) (bool, error) {
	rest := []column{
		{name: "file_name", value: rec.FileName},
		{name: "recorded_at", value: r.db.dialect.timestamp(rec.RecordedAt)},
	}
	_, inserted, err := r.db.insertIfAbsent(ctx, r.db.dialect.table(domain.LayerStaging, "bank"), bankKey(rec.Bank), rest)
	if err != nil {
		return false, fmt.Errorf("insert staging bank: %w", err)
	}
	return inserted, nil
}

// Insert stores the bank in layer unless one with the same identity exists.
func (r *BankRepo) Insert(ctx context.Context, layer domain.Layer, rec domain.BankRecord) (int64, bool, error) {
	rest := []column{{name: "recorded_at", value: r.db.dialect.timestamp(rec.RecordedAt)}}
	id, inserted, err := r.db.insertIfAbsent(ctx, r.db.dialect.table(layer, "bank"), bankKey(rec.Bank), rest)
	if err != nil {
		return 0, false, fmt.Errorf("insert %s bank: %w", layer, err)
	}
	return id, inserted, nil
}

func (r *BankRepo) List(ctx context.Context, layer domain.Layer) ([]domain.BankRecord, error) {
	fileName := "file_name"
	if layer != domain.LayerStaging {
		fileName = "''"
	}
	rows, err := r.db.query(ctx,
		"SELECT id, name, address, license_number, recorded_at, "+fileName+
			" FROM "+r.db.dialect.table(layer, "bank")+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query %s bank: %w", layer, err)
	}
	defer rows.Close()

	var out []domain.BankRecord
	for rows.Next() {
		var (
			rec domain.BankRecord
			ts  nullTime
		)
		if err := rows.Scan(&rec.ID, &rec.Bank.Name, &rec.Bank.Address, &rec.Bank.LicenseNumber, &ts, &rec.FileName); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		rec.RecordedAt = ts.Time
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *BankRepo) Watermark(ctx context.Context, layer domain.Layer) (domain.Watermark, error) {
	nt, err := r.db.maxTimestamp(ctx, r.db.dialect.table(layer, "bank"))
	if err != nil {
		return domain.Watermark{}, err
	}
	return domain.Watermark{At: nt.Time, Valid: nt.Valid}, nil
}

// LatestID returns the most recently inserted bank of layer. This stands in
// for "the current bank" and is only meaningful with a single bank.
func (r *BankRepo) LatestID(ctx context.Context, layer domain.Layer) (int64, error) {
	var id int64
	err := r.db.queryRow(ctx, "SELECT id FROM "+r.db.dialect.table(layer, "bank")+" ORDER BY id DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNoBank
	}
	if err != nil {
		return 0, fmt.Errorf("latest %s bank: %w", layer, err)
	}
	return id, nil
}

func (r *BankRepo) Count(ctx context.Context, layer domain.Layer) (int, error) {
	return r.db.count(ctx, r.db.dialect.table(layer, "bank"))
}
