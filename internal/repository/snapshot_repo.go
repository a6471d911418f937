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

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

func amountValues(f domain.Fact) []any {
	amounts := f.Amounts()
	out := make([]any, len(amounts))
	for i, a := range amounts {
		out[i] = a
	}
	return out
}

// InsertStaging stores a file row. The timestamp joins the amounts in the key
// only when the file supplied it.
func (r *SnapshotRepo) InsertStaging(ctx context.Context, snap domain.Snapshot, fileTimestamp bool) (bool, error) {
	kind := snap.Kind()
	ts := column{name: "recorded_at", value: r.db.dialect.timestamp(snap.RecordedAt)}
	key := columns(factColumns[kind], amountValues(snap.Fact))
	rest := []column{{name: "file_name", value: snap.FileName}}
	if fileTimestamp {
		key = append(key, ts)
	} else {
		rest = append(rest, ts)
	}

	_, inserted, err := r.db.insertIfAbsent(ctx, r.db.dialect.table(domain.LayerStaging, factTables[kind]), key, rest)
	if err != nil {
		return false, fmt.Errorf("insert staging %s: %w", kind, err)
	}
	return inserted, nil
}

// Insert stores a snapshot above staging. Amounts and timestamp form the key.
func (r *SnapshotRepo) Insert(ctx context.Context, layer domain.Layer, snap domain.Snapshot) (bool, error) {
	kind := snap.Kind()
	key := append(columns(factColumns[kind], amountValues(snap.Fact)),
		column{name: "recorded_at", value: r.db.dialect.timestamp(snap.RecordedAt)})
	rest := []column{{name: "bank_id", value: snap.BankID}}

	_, inserted, err := r.db.insertIfAbsent(ctx, r.db.dialect.table(layer, factTables[kind]), key, rest)
	if err != nil {
		return false, fmt.Errorf("insert %s %s: %w", layer, kind, err)
	}
	return inserted, nil
}

func (r *SnapshotRepo) selectQuery(layer domain.Layer, kind domain.FactKind) string {
	extra := "0, file_name"
	if layer != domain.LayerStaging {
		extra = "COALESCE(bank_id, 0), ''"
	}
	return "SELECT id, " + strings.Join(factColumns[kind], ", ") + ", recorded_at, " + extra +
		" FROM " + r.db.dialect.table(layer, factTables[kind])
}

func scanSnapshot(row rowScanner, kind domain.FactKind) (*domain.Snapshot, error) {
	var (
		snap domain.Snapshot
		ts   nullTime
	)
	amounts := make([]decimal.Decimal, kind.Arity())
	dest := []any{&snap.ID}
	for i := range amounts {
		dest = append(dest, &amounts[i])
	}
	dest = append(dest, &ts, &snap.BankID, &snap.FileName)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	fact, err := domain.NewFact(kind, amounts)
	if err != nil {
		return nil, err
	}
	snap.Fact = fact
	snap.RecordedAt = ts.Time
	return &snap, nil
}

// List returns every snapshot of kind in layer, oldest first.
func (r *SnapshotRepo) List(ctx context.Context, layer domain.Layer, kind domain.FactKind) ([]domain.Snapshot, error) {
	rows, err := r.db.query(ctx, r.selectQuery(layer, kind)+" ORDER BY recorded_at, id")
	if err != nil {
		return nil, fmt.Errorf("query %s %s: %w", layer, kind, err)
	}
	defer rows.Close()

	var out []domain.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

// LatestOnDay returns the snapshot of kind with the greatest timestamp within
// day, or nil when the day has none.
func (r *SnapshotRepo) LatestOnDay(ctx context.Context, layer domain.Layer, kind domain.FactKind, day domain.Date) (*domain.Snapshot, error) {
	d := r.db.dialect
	q := r.selectQuery(layer, kind) +
		" WHERE recorded_at >= ? AND recorded_at < ? ORDER BY recorded_at DESC, id DESC LIMIT 1"
	snap, err := scanSnapshot(r.db.queryRow(ctx, q, d.timestamp(day.Start()), d.timestamp(day.AddDays(1).Start())), kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s %s on %s: %w", layer, kind, day, err)
	}
	return snap, nil
}

func (r *SnapshotRepo) Watermark(ctx context.Context, layer domain.Layer, kind domain.FactKind) (domain.Watermark, error) {
	nt, err := r.db.maxTimestamp(ctx, r.db.dialect.table(layer, factTables[kind]))
	if err != nil {
		return domain.Watermark{}, err
	}
	return domain.Watermark{At: nt.Time, Valid: nt.Valid}, nil
}

func (r *SnapshotRepo) Count(ctx context.Context, layer domain.Layer, kind domain.FactKind) (int, error) {
	return r.db.count(ctx, r.db.dialect.table(layer, factTables[kind]))
}

// LayerFacts reads the snapshots of a single layer.
type LayerFacts struct {
	repo  *SnapshotRepo
	layer domain.Layer
}

func (r *SnapshotRepo) In(layer domain.Layer) LayerFacts {
	return LayerFacts{repo: r, layer: layer}
}

func (f LayerFacts) LatestOnDay(ctx context.Context, kind domain.FactKind, day domain.Date) (*domain.Snapshot, error) {
	return f.repo.LatestOnDay(ctx, f.layer, kind, day)
}
