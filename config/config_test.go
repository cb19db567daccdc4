package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/marketsim/sim"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad source", func(c *Config) { c.Market.Source = "csv" }},
		{"zero start price", func(c *Config) { c.Market.StartPrice = 0 }},
		{"zero volatility", func(c *Config) { c.Market.VolatilityPct = 0 }},
		{"zero tick size", func(c *Config) { c.Market.TickSize = 0 }},
		{"bad mode", func(c *Config) { c.Trading.Mode = "margin" }},
		{"futures without leverage", func(c *Config) { c.Trading.Leverage = 0 }},
		{"zero balance", func(c *Config) { c.Trading.Balance = 0 }},
		{"negative fee", func(c *Config) { c.Trading.TakerFeePct = -1 }},
		{"csv journal without files", func(c *Config) { c.Journal.Type = "csv" }},
		{"sqlite journal without path", func(c *Config) { c.Journal.Type = "sqlite" }},
		{"zero bars", func(c *Config) { c.Run.Bars = 0 }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPercentConversion(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Market.VolatilityPct = 2
	cfg.Trading.TakerFeePct = 0.04
	cfg.Trading.MaintenancePct = 0.5
	cfg.Trading.StopPct = 2

	mc := cfg.MarketConfig()
	assert.InDelta(t, 0.02, mc.BaseVol, 1e-12)
	assert.InDelta(t, 0.05, mc.SwitchProb, 1e-12)

	ec := cfg.EngineConfig()
	assert.Equal(t, sim.Futures, ec.Mode)
	assert.InDelta(t, 0.0004, ec.TakerFee, 1e-12)
	assert.InDelta(t, 0.005, ec.MaintenanceRate, 1e-12)
	assert.InDelta(t, 0.02, ec.DefaultStopPct, 1e-12)

	// The derived engine config must itself be valid.
	assert.NoError(t, ec.Validate())
	assert.NoError(t, mc.Validate())
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := Default()
	cfg.Market.Seed = 1234
	cfg.Strategy.Name = "mean-revert"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")

	cfg := Default()
	cfg.Run.Bars = 77
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 77, loaded.Run.Bars)
}

func TestLoadInvalidConfigFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("market:\n  source: nope\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
