package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/logger"
	"github.com/wakala/dwh/internal/metrics"
	"github.com/wakala/dwh/internal/repository"
)

// Result is returned from a successful ingestion.
type Result struct {
	Entity     domain.Entity `json:"entity"`
	File       string        `json:"file"`
	Read       int           `json:"read"`
	Inserted   int           `json:"inserted"`
	Duplicates int           `json:"duplicates"`
	Malformed  int           `json:"malformed"`
}

// Service loads entity files into the staging layer.
type Service struct {
	store   *repository.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates a new ingestion service.
func NewService(store *repository.Store, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m, now: time.Now}
}

// WithClock replaces the clock used to stamp rows whose file gave no timestamp.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IngestAll loads the file configured for each entity in order.
func (s *Service) IngestAll(ctx context.Context, paths map[domain.Entity]string, entities []domain.Entity) ([]Result, error) {
	var results []Result
	for _, e := range entities {
		path, ok := paths[e]
		if !ok || path == "" {
			return results, fmt.Errorf("no file configured for %s", e)
		}
		res, err := s.IngestFile(ctx, e, path)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

func (s *Service) IngestFile(ctx context.Context, entity domain.Entity, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Ingest(ctx, entity, filepath.Base(path), data)
}

// Ingest parses one file and stores its rows in staging as a single unit of
// work. Rows already present in staging are counted as duplicates.
func (s *Service) Ingest(ctx context.Context, entity domain.Entity, fileName string, data []byte) (*Result, error) {
	start := time.Now()
	defer s.metrics.ObserveStage("ingest_"+string(entity), start)

	stamp := s.now().UTC().Truncate(time.Microsecond)
	res := &Result{Entity: entity, File: fileName}

	var (
		skipped []RowError
		store   func(ctx context.Context) error
	)

	switch {
	case entity == domain.EntityBank:
		records, rowErrs, err := ParseBank(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", fileName, err)
		}
		skipped = rowErrs
		res.Read = len(records)
		store = func(ctx context.Context) error {
			for _, rec := range records {
				rec.RecordedAt, rec.FileName = stamp, fileName
				ok, err := s.store.Banks.InsertStaging(ctx, rec)
				if err != nil {
					return err
				}
				res.count(ok)
			}
			return nil
		}

	case entity == domain.EntityClients || entity == domain.EntityCompanies:
		parse := ParseClients
		if entity == domain.EntityCompanies {
			parse = ParseCompanies
		}
		records, rowErrs, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", fileName, err)
		}
		skipped = rowErrs
		res.Read = len(records)
		store = func(ctx context.Context) error {
			for _, rec := range records {
				rec.RecordedAt, rec.FileName = stamp, fileName
				ok, err := s.store.Parties.InsertStaging(ctx, rec)
				if err != nil {
					return err
				}
				res.count(ok)
			}
			return nil
		}

	default:
		kind, ok := entity.FactKind()
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, entity)
		}
		records, rowErrs, err := ParseSnapshots(data, kind)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", fileName, err)
		}
		skipped = rowErrs
		res.Read = len(records)
		store = func(ctx context.Context) error {
			for _, rec := range records {
				snap := rec.Snapshot
				snap.FileName = fileName
				if !rec.Stamped {
					snap.RecordedAt = stamp
				}
				ok, err := s.store.Snapshots.InsertStaging(ctx, snap, rec.Stamped)
				if err != nil {
					return err
				}
				res.count(ok)
			}
			return nil
		}
	}

	for _, rowErr := range skipped {
		logger.Warn("[ingestion] %s: skipping %v", fileName, rowErr)
	}
	res.Malformed = len(skipped)

	if err := s.store.DB.InTx(ctx, "ingest:"+string(entity), store); err != nil {
		return nil, fmt.Errorf("store %s: %w", fileName, err)
	}

	layer := string(domain.LayerStaging)
	s.metrics.AddWritten(layer, string(entity), res.Inserted)
	s.metrics.AddSkipped(layer, string(entity), "duplicate", res.Duplicates)
	s.metrics.AddSkipped(layer, string(entity), "malformed", res.Malformed)

	logger.Info("[ingestion] Ingested %s from %s: %d rows (%d new, %d duplicate, %d malformed)",
		entity, fileName, res.Read, res.Inserted, res.Duplicates, res.Malformed)
	return res, nil
}

func (r *Result) count(inserted bool) {
	if inserted {
		r.Inserted++
	} else {
		r.Duplicates++
	}
}
