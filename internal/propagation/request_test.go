package propagation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakala/dwh/internal/domain"
)

func TestParseRequest(t *testing.T) {
	today := domain.Date{Year: 2024, Month: time.November, Day: 1}

	t.Run("defaults to current for every entity", func(t *testing.T) {
		req, err := ParseRequest("", "", "", today)
		require.NoError(t, err)
		assert.Equal(t, ModeCurrent, req.Mode)
		assert.Equal(t, today, req.Date)
		assert.Equal(t, domain.AllEntities, req.Entities)
	})

	t.Run("a date implies date mode", func(t *testing.T) {
		req, err := ParseRequest("", "capital", "2024-10-15", today)
		require.NoError(t, err)
		assert.Equal(t, ModeDate, req.Mode)
		assert.Equal(t, "2024-10-15", req.Date.String())
		assert.Equal(t, []domain.Entity{domain.EntityCapital}, req.Entities)
	})

	t.Run("history", func(t *testing.T) {
		req, err := ParseRequest("HISTORY", "clients,bank", "", today)
		require.NoError(t, err)
		assert.Equal(t, ModeHistory, req.Mode)
		assert.Equal(t, []domain.Entity{domain.EntityClients, domain.EntityBank}, req.Entities)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := ParseRequest("weekly", "", "", today)
		assert.ErrorIs(t, err, domain.ErrUnknownMode)

		_, err = ParseRequest("", "loans", "", today)
		assert.ErrorIs(t, err, domain.ErrUnknownEntity)

		_, err = ParseRequest("date", "", "", today)
		assert.ErrorContains(t, err, "requires a date")

		_, err = ParseRequest("current", "", "2024-10-15", today)
		assert.ErrorContains(t, err, "does not take a date")

		_, err = ParseRequest("date", "", "15.10.2024", today)
		assert.Error(t, err)
	})
}
