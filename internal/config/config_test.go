package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakala/dwh/internal/domain"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, 3, cfg.DeltaDays)
	assert.Equal(t, "0.045", cfg.Standards.N1_1.String())
	assert.Equal(t, "testdata/capital.csv", cfg.Paths[domain.EntityCapital])
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=dwh sslmode=disable", cfg.ConnString())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "dwh.db")
	t.Setenv("DELTA_DAYS", "5")
	t.Setenv("PATH_BANK", "/data/bank.csv")
	t.Setenv("STANDARD_N1_0", "0.1")
	t.Setenv("API_ADDR", ":9090")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "dwh.db", cfg.ConnString())
	assert.Equal(t, 5, cfg.DeltaDays)
	assert.Equal(t, "/data/bank.csv", cfg.Paths[domain.EntityBank])
	assert.Equal(t, "testdata/clients.csv", cfg.Paths[domain.EntityClients])
	assert.Equal(t, "0.1", cfg.Standards.N1_0.String())
	assert.Equal(t, "0.06", cfg.Standards.N1_2.String())
	assert.Equal(t, ":9090", cfg.APIAddr)
}

func TestLoadFromEnvironmentRejectsBadValues(t *testing.T) {
	for env, value := range map[string]string{
		"DB_PORT":       "fivefour",
		"DELTA_DAYS":    "three",
		"STANDARD_N1_1": "high",
	} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, value)
			err := NewConfig().LoadFromEnvironment()
			assert.ErrorContains(t, err, env)
		})
	}
}

func TestExplicitDSNWins(t *testing.T) {
	cfg := NewConfig()
	cfg.DSN = "postgres://dwh@db/dwh"
	cfg.DBPort = 0
	assert.Equal(t, "postgres://dwh@db/dwh", cfg.ConnString())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.DBPort = 70000
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.DeltaDays = -1
	assert.Error(t, cfg.Validate())
}
