package propagation

import (
	"sort"

	"github.com/wakala/dwh/internal/domain"
)

// LatestPerDay keeps the snapshot with the greatest timestamp for every
// distinct UTC day, ordered by day. Equal timestamps fall back to the higher id.
func LatestPerDay(snaps []domain.Snapshot) []domain.Snapshot {
	best := make(map[domain.Date]domain.Snapshot)
	for _, s := range snaps {
		day := s.Day()
		cur, ok := best[day]
		if !ok || s.RecordedAt.After(cur.RecordedAt) ||
			(s.RecordedAt.Equal(cur.RecordedAt) && s.ID > cur.ID) {
			best[day] = s
		}
	}

	out := make([]domain.Snapshot, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out
}
