package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://ledger@localhost/ledger")
	t.Setenv("DOMESTIC_CURRENCY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.True(t, cfg.SeedDefaultAccounts)
	assert.Equal(t, "30-M", cfg.ImportRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_DomesticCurrency(t *testing.T) {
	t.Setenv("DOMESTIC_CURRENCY", "jpy")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "JPY", cfg.DomesticCurrency)
	assert.Equal(t, int32(0), cfg.AmountScale())
}

func TestLoadConfig_RejectsUnknownCurrency(t *testing.T) {
	t.Setenv("DOMESTIC_CURRENCY", "XYZ")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
