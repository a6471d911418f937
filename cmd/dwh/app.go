package main

import (
	"fmt"
	"time"

	"github.com/wakala/dwh/internal/aggregate"
	"github.com/wakala/dwh/internal/config"
	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/ingestion"
	"github.com/wakala/dwh/internal/logger"
	"github.com/wakala/dwh/internal/mart"
	"github.com/wakala/dwh/internal/metrics"
	"github.com/wakala/dwh/internal/propagation"
	"github.com/wakala/dwh/internal/repository"
)

// usageError is an invocation the program refuses before touching the store.
type usageError struct {
	err error
}

func (e usageError) Error() string { return "usage: " + e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// app wires the store and the pipeline stages for one invocation.
type app struct {
	cfg     *config.Config
	db      *repository.DB
	store   *repository.Store
	metrics *metrics.Metrics
}

func openApp(cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, usageError{err}
	}

	logger.Info("Opening %s store", cfg.Driver)
	db, err := repository.Open(cfg.Driver, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &app{
		cfg:     cfg,
		db:      db,
		store:   repository.NewStore(db),
		metrics: metrics.New(),
	}, nil
}

func (a *app) close() {
	if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
		logger.Warn("%v", err)
	}
	if err := a.db.Close(); err != nil {
		logger.Warn("close store: %v", err)
	}
}

func today() domain.Date {
	return domain.DateOf(time.Now().UTC())
}

func (a *app) ingestion() *ingestion.Service {
	return ingestion.NewService(a.store, a.metrics)
}

func (a *app) propagation(from domain.Layer) (*propagation.Service, error) {
	return propagation.NewService(a.store, from, a.metrics)
}

func (a *app) builder() (*aggregate.Builder, error) {
	return aggregate.NewBuilder(
		a.store.Snapshots.In(domain.LayerWarehouse),
		a.store.Parties.In(domain.LayerWarehouse),
		a.store.Aggregates,
		a.cfg.DeltaDays,
		a.metrics,
	)
}

func (a *app) writer() *mart.Writer {
	return mart.NewWriter(a.store, a.cfg.Standards, a.metrics)
}
