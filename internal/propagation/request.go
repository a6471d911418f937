package propagation

import (
	"fmt"
	"strings"

	"github.com/wakala/dwh/internal/domain"
)

type Mode string

const (
	// ModeCurrent loads the latest snapshot of the run date, gated by the watermark.
	ModeCurrent Mode = "current"
	// ModeHistory loads the latest snapshot of every day in the source, gated by the watermark.
	ModeHistory Mode = "history"
	// ModeDate force-loads the latest snapshot of one date, stamped with that date.
	ModeDate Mode = "date"
)

// Request selects what a hand-off propagates. Parties and the bank always
// follow the watermark; Mode only changes how snapshots are chosen.
type Request struct {
	Mode     Mode
	Entities []domain.Entity
	Date     domain.Date
}

// ParseRequest validates an invocation. An empty mode means date when a date
// is given and current otherwise. today is the run date in UTC.
func ParseRequest(mode, entities, date string, today domain.Date) (Request, error) {
	ents, err := domain.ParseEntities(entities)
	if err != nil {
		return Request{}, err
	}

	m := Mode(strings.ToLower(strings.TrimSpace(mode)))
	if m == "" {
		m = ModeCurrent
		if date != "" {
			m = ModeDate
		}
	}

	req := Request{Mode: m, Entities: ents, Date: today}
	switch m {
	case ModeCurrent, ModeHistory:
		if date != "" {
			return Request{}, fmt.Errorf("mode %s does not take a date", m)
		}
	case ModeDate:
		if date == "" {
			return Request{}, fmt.Errorf("mode date requires a date")
		}
		if req.Date, err = domain.ParseDate(date); err != nil {
			return Request{}, err
		}
	default:
		return Request{}, fmt.Errorf("%w: %q (want current, history or date)", domain.ErrUnknownMode, mode)
	}
	return req, nil
}
