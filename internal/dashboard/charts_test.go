package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv_dashboard/internal/aggregate"
	"pv_dashboard/internal/model"
)

var now = time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		Split:      aggregate.DefaultSplitRatios(),
		Shares:     aggregate.DefaultShares(),
		MaxPowerKW: 5.0,
		CostPerKWh: 0.12,
	}
}

func testReadings() []model.Reading {
	mk := func(hour int, ac, yield float64) model.Reading {
		return model.Reading{
			Timestamp:      time.Date(2024, 6, 15, hour, 0, 0, 0, time.UTC),
			PowerDC1W:      ac * 0.55,
			PowerDC2W:      ac * 0.55,
			PowerACW:       ac,
			EnergyTodayKWh: yield,
		}
	}
	return []model.Reading{
		mk(6, 205, 0.2),
		mk(10, 1500, 1.3),
		mk(12, 2000, 2.4),
		mk(18, 560, 1.1),
	}
}

func TestBuildSnapshot(t *testing.T) {
	snap := BuildSnapshot(testReadings(), testConfig(), now)

	assert.True(t, snap.DataAvailable)
	assert.Equal(t, now.Format(time.RFC3339), snap.GeneratedAt)

	assert.InDelta(t, 5.0, snap.Summary.YieldKWh, 0.001)
	assert.InDelta(t, 2.0, snap.Summary.ExportedKWh, 0.001)
	assert.InDelta(t, 3.0, snap.Summary.SelfUseKWh, 0.001)

	// Latest reading drives the gauge: 560 W -> 0.56 kW.
	assert.InDelta(t, 0.56, snap.Gauge.ValueKW, 0.001)
	assert.InDelta(t, 5.0, snap.Gauge.MaxKW, 0.001)
	assert.InDelta(t, 4.5, snap.Gauge.ThresholdKW, 0.001)

	assert.InDelta(t, 5.0, snap.EnergyKWh, 0.001)
	assert.InDelta(t, 0.6, snap.CostUSD, 0.001)
}

func TestBuildSnapshot_YieldChartDisplayHours(t *testing.T) {
	snap := BuildSnapshot(testReadings(), testConfig(), now)

	require.Len(t, snap.Yield.Labels, 7)
	assert.Equal(t, []string{"6 am", "8 am", "10 am", "12 pm", "14 pm", "16 pm", "18 pm"}, snap.Yield.Labels)

	// Hour 8 has no readings: zero bars, not a failure.
	assert.InDelta(t, 0.0, snap.Yield.Yield[1], 0.001)

	// Hour 12 bucket.
	assert.InDelta(t, 2.4, snap.Yield.Yield[3], 0.001)
	assert.InDelta(t, 2.4*0.40, snap.Yield.Exported[3], 0.001)
	assert.InDelta(t, 2.4*0.60, snap.Yield.SelfUse[3], 0.001)
	assert.InDelta(t, 2.0, snap.Yield.MeanAC[3], 0.001)
}

func TestBuildSnapshot_DonutSumsToHundred(t *testing.T) {
	snap := BuildSnapshot(testReadings(), testConfig(), now)

	require.Len(t, snap.SelfPower.Values, 3)
	sum := snap.SelfPower.Values[0] + snap.SelfPower.Values[1] + snap.SelfPower.Values[2]
	assert.InDelta(t, 100.0, sum, 1e-6)
	assert.InDelta(t, 48.0, snap.SelfPower.Values[0], 0.001)
}

func TestBuildSnapshot_TodayAndMonthPanels(t *testing.T) {
	snap := BuildSnapshot(testReadings(), testConfig(), now)

	require.Len(t, snap.Today, 3)
	assert.Equal(t, "Energy exported", snap.Today[0].Label)
	assert.InDelta(t, 2.0, snap.Today[0].ValueKWh, 0.001)
	assert.Equal(t, "Yield energy", snap.Today[2].Label)
	assert.InDelta(t, 5.0, snap.Today[2].ValueKWh, 0.001)

	// All fixture readings sit inside the trailing 30-day window, so the
	// month panel matches the day totals here.
	require.Len(t, snap.Month, 3)
	assert.InDelta(t, 5.0, snap.Month[2].ValueKWh, 0.001)
}

func TestBuildSnapshot_Empty(t *testing.T) {
	snap := BuildSnapshot(nil, testConfig(), now)

	assert.False(t, snap.DataAvailable)
	assert.Zero(t, snap.Summary.YieldKWh)
	assert.Zero(t, snap.Gauge.ValueKW)
	assert.InDelta(t, 5.0, snap.Gauge.MaxKW, 0.001)
	assert.Empty(t, snap.Today)
	assert.Zero(t, snap.CostUSD)
}
