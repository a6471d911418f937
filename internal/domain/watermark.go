package domain

import "time"

// Watermark is the latest timestamp already propagated into a layer for an
// entity. An invalid watermark means the destination is empty.
type Watermark struct {
	At    time.Time `json:"at"`
	Valid bool      `json:"valid"`
}

// Admits reports whether a source row stamped t should be propagated.
func (w Watermark) Admits(t time.Time) bool {
	return !w.Valid || t.After(w.At)
}

// Advance returns the watermark after a row stamped t has been written.
func (w Watermark) Advance(t time.Time) Watermark {
	if !w.Valid || t.After(w.At) {
		return Watermark{At: t, Valid: true}
	}
	return w
}
