package propagation

import (
	"context"
	"fmt"
	"time"

	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/logger"
	"github.com/wakala/dwh/internal/metrics"
	"github.com/wakala/dwh/internal/repository"
)

// Result counts what one entity's hand-off did. Every candidate is either
// propagated, below the watermark, or a duplicate of a destination row.
type Result struct {
	From           domain.Layer  `json:"from"`
	To             domain.Layer  `json:"to"`
	Entity         domain.Entity `json:"entity"`
	Mode           Mode          `json:"mode"`
	Candidates     int           `json:"candidates"`
	Propagated     int           `json:"propagated"`
	BelowWatermark int           `json:"below_watermark"`
	Duplicates     int           `json:"duplicates"`
	MissingDeposit int           `json:"missing_deposit"`
}

func (r *Result) count(inserted bool) {
	if inserted {
		r.Propagated++
	} else {
		r.Duplicates++
	}
}

// Service copies rows from one layer to the next.
type Service struct {
	store   *repository.Store
	from    domain.Layer
	to      domain.Layer
	metrics *metrics.Metrics
}

// NewService creates the hand-off out of from, which must be staging or
// canonical.
func NewService(store *repository.Store, from domain.Layer, m *metrics.Metrics) (*Service, error) {
	to, ok := from.Next()
	if !ok || to == domain.LayerMart {
		return nil, fmt.Errorf("no propagation out of layer %q", from)
	}
	return &Service{store: store, from: from, to: to, metrics: m}, nil
}

// Run propagates every requested entity. Each entity is its own unit of
// work: a failure rolls that entity back and stops the run, while entities
// already committed stay in place.
func (s *Service) Run(ctx context.Context, req Request) ([]Result, error) {
	start := time.Now()
	defer s.metrics.ObserveStage("propagate_"+string(s.to), start)

	var results []Result
	for _, entity := range req.Entities {
		res := Result{From: s.from, To: s.to, Entity: entity, Mode: req.Mode}
		lock := fmt.Sprintf("propagate:%s:%s", s.to, entity)

		err := s.store.DB.InTx(ctx, lock, func(ctx context.Context) error {
			res = Result{From: s.from, To: s.to, Entity: entity, Mode: req.Mode}
			if kind, ok := entity.PartyKind(); ok {
				return s.parties(ctx, kind, &res)
			}
			if kind, ok := entity.FactKind(); ok {
				return s.snapshots(ctx, kind, req, &res)
			}
			if entity == domain.EntityBank {
				return s.bank(ctx, &res)
			}
			return fmt.Errorf("%w: %q", domain.ErrUnknownEntity, entity)
		})
		if err != nil {
			return results, fmt.Errorf("propagate %s to %s: %w", entity, s.to, err)
		}

		s.record(res)
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) record(res Result) {
	layer, entity := string(s.to), string(res.Entity)
	s.metrics.AddWritten(layer, entity, res.Propagated)
	s.metrics.AddSkipped(layer, entity, "watermark", res.BelowWatermark)
	s.metrics.AddSkipped(layer, entity, "duplicate", res.Duplicates)
	s.metrics.AddFlagged(layer, entity, "missing_deposit", res.MissingDeposit)

	logger.Info("[propagation] %s -> %s %s (%s): %d candidates, %d propagated, %d below watermark, %d duplicate",
		s.from, s.to, res.Entity, res.Mode, res.Candidates, res.Propagated, res.BelowWatermark, res.Duplicates)
}

// parties propagates clients or companies with their deposits. The
// watermark is read once before the pass, so rows sharing a timestamp travel
// together.
func (s *Service) parties(ctx context.Context, kind domain.PartyKind, res *Result) error {
	w, err := s.store.Parties.Watermark(ctx, s.to, kind)
	if err != nil {
		return err
	}
	src, err := s.store.Parties.List(ctx, s.from, kind)
	if err != nil {
		return err
	}

	res.Candidates = len(src)
	next := w
	for _, rec := range src {
		if !w.Admits(rec.RecordedAt) {
			res.BelowWatermark++
			continue
		}
		if rec.Deposit == nil {
			res.MissingDeposit++
			logger.Warn("[propagation] %s %s #%d has no deposit, propagating party only", s.from, kind.Entity(), rec.ID)
		}
		_, inserted, err := s.store.Parties.Insert(ctx, s.to, rec)
		if err != nil {
			return err
		}
		res.count(inserted)
		if inserted {
			next = next.Advance(rec.RecordedAt)
		}
	}
	s.metrics.SetWatermark(string(s.to), string(kind.Entity()), next.At)
	return nil
}

func (s *Service) bank(ctx context.Context, res *Result) error {
	w, err := s.store.Banks.Watermark(ctx, s.to)
	if err != nil {
		return err
	}
	src, err := s.store.Banks.List(ctx, s.from)
	if err != nil {
		return err
	}

	res.Candidates = len(src)
	next := w
	for _, rec := range src {
		if !w.Admits(rec.RecordedAt) {
			res.BelowWatermark++
			continue
		}
		_, inserted, err := s.store.Banks.Insert(ctx, s.to, rec)
		if err != nil {
			return err
		}
		res.count(inserted)
		if inserted {
			next = next.Advance(rec.RecordedAt)
		}
	}
	s.metrics.SetWatermark(string(s.to), string(domain.EntityBank), next.At)
	return nil
}

// snapshots chooses the representative rows for the request and writes
// them under the destination's current bank.
func (s *Service) snapshots(ctx context.Context, kind domain.FactKind, req Request, res *Result) error {
	w, err := s.store.Snapshots.Watermark(ctx, s.to, kind)
	if err != nil {
		return err
	}

	var (
		candidates []domain.Snapshot
		force      bool
	)
	switch req.Mode {
	case ModeCurrent, ModeDate:
		snap, err := s.store.Snapshots.LatestOnDay(ctx, s.from, kind, req.Date)
		if err != nil {
			return err
		}
		if snap == nil {
			logger.Info("[propagation] %s %s: nothing recorded on %s", s.from, kind, req.Date)
			return nil
		}
		if req.Mode == ModeDate {
			snap.RecordedAt = req.Date.Start()
			force = true
		}
		candidates = []domain.Snapshot{*snap}
	case ModeHistory:
		all, err := s.store.Snapshots.List(ctx, s.from, kind)
		if err != nil {
			return err
		}
		candidates = LatestPerDay(all)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownMode, req.Mode)
	}

	res.Candidates = len(candidates)
	var bankID int64
	next := w
	for _, snap := range candidates {
		if !force && !w.Admits(snap.RecordedAt) {
			res.BelowWatermark++
			continue
		}
		if bankID == 0 {
			if bankID, err = s.store.Banks.LatestID(ctx, s.to); err != nil {
				return fmt.Errorf("%s %s: %w", s.to, kind, err)
			}
		}
		snap.BankID = bankID
		inserted, err := s.store.Snapshots.Insert(ctx, s.to, snap)
		if err != nil {
			return err
		}
		res.count(inserted)
		if inserted {
			next = next.Advance(snap.RecordedAt)
		}
	}
	s.metrics.SetWatermark(string(s.to), string(kind.Entity()), next.At)
	return nil
}
