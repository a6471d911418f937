package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/logger"
	"github.com/wakala/dwh/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	store *repository.Store
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseRange reads the optional from/to query parameters.
func parseRange(r *http.Request) (repository.DateRange, error) {
	var f repository.DateRange
	q := r.URL.Query()
	if s := q.Get("from"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return f, err
		}
		f.From = &d
	}
	if s := q.Get("to"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return f, err
		}
		f.To = &d
	}
	return f, nil
}

// --- Healthz ---

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.store.DB.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- ListRatios ---

func (h *Handlers) ListRatios(w http.ResponseWriter, r *http.Request) {
	f, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.store.Ratios.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []domain.RatioRow{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ratios": rows,
		"total":  len(rows),
	})
}

// --- GetRatio ---

func (h *Handlers) GetRatio(w http.ResponseWriter, r *http.Request) {
	day, err := domain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := h.store.Ratios.Get(r.Context(), day)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no ratios for "+day.String())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// --- ListAggregates ---

func (h *Handlers) ListAggregates(w http.ResponseWriter, r *http.Request) {
	f, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	aggs, err := h.store.Aggregates.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if aggs == nil {
		aggs = []domain.DailyAggregate{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"aggregates": aggs,
		"total":      len(aggs),
	})
}

// --- GetWatermarks ---

// GetWatermarks reports, per layer and entity, the latest timestamp stored.
func (h *Handlers) GetWatermarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out := make(map[domain.Layer]map[domain.Entity]domain.Watermark)

	for _, layer := range []domain.Layer{domain.LayerStaging, domain.LayerCanonical, domain.LayerWarehouse} {
		marks := make(map[domain.Entity]domain.Watermark)
		for _, e := range domain.AllEntities {
			var (
				wm  domain.Watermark
				err error
			)
			switch {
			case e == domain.EntityBank:
				wm, err = h.store.Banks.Watermark(ctx, layer)
			default:
				if kind, ok := e.PartyKind(); ok {
					wm, err = h.store.Parties.Watermark(ctx, layer, kind)
				} else if kind, ok := e.FactKind(); ok {
					wm, err = h.store.Snapshots.Watermark(ctx, layer, kind)
				}
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			marks[e] = wm
		}
		out[layer] = marks
	}

	writeJSON(w, http.StatusOK, out)
}
