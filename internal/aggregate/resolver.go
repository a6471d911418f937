package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/wakala/dwh/internal/domain"
)

var ErrNegativeWindow = errors.New("delta days must not be negative")

// FactSource returns the latest snapshot of kind recorded on day, or nil.
type FactSource interface {
	LatestOnDay(ctx context.Context, kind domain.FactKind, day domain.Date) (*domain.Snapshot, error)
}

// Resolve finds the snapshot of kind that represents day. It probes the day
// after, the day itself, then up to deltaDays earlier days, and returns the
// latest row of the first day that has one. Nil means the window is empty.
func Resolve(ctx context.Context, src FactSource, kind domain.FactKind, day domain.Date, deltaDays int) (*domain.Snapshot, error) {
	if deltaDays < 0 {
		return nil, ErrNegativeWindow
	}
	for back := -1; back <= deltaDays; back++ {
		probe := day.AddDays(-back)
		snap, err := src.LatestOnDay(ctx, kind, probe)
		if err != nil {
			return nil, fmt.Errorf("resolve %s on %s: %w", kind, probe, err)
		}
		if snap != nil {
			return snap, nil
		}
	}
	return nil, nil
}
