package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/pv_data.csv", cfg.Data.Path)
	assert.Equal(t, time.Minute, cfg.Data.CacheTTL)
	assert.False(t, cfg.Data.Strict)
	assert.Equal(t, ":8080", cfg.Dashboard.Addr)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, ":8000", cfg.Exporter.Addr)

	assert.InDelta(t, 0.48, cfg.Split.Direct, 0.001)
	assert.InDelta(t, 0.35, cfg.Split.Battery, 0.001)
	assert.InDelta(t, 0.17, cfg.Split.Grid, 0.001)
	require.NoError(t, cfg.SplitRatios().Validate())

	assert.InDelta(t, 0.40, cfg.Shares.Export, 0.001)
	assert.InDelta(t, 0.60, cfg.Shares.SelfUse, 0.001)
	require.NoError(t, cfg.SharesValue().Validate())

	assert.InDelta(t, 5.0, cfg.Gauge.MaxPowerKW, 0.001)
	assert.InDelta(t, 0.12, cfg.Cost.PerKWhUSD, 0.001)
}
