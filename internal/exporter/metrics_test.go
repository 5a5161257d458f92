package exporter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv_dashboard/internal/aggregate"
	"pv_dashboard/internal/model"
)

var noon = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testReadings() []model.Reading {
	return []model.Reading{
		{
			Timestamp:      noon.Add(-time.Hour),
			PowerDC1W:      800,
			PowerDC2W:      850,
			PowerACW:       1500,
			EnergyTodayKWh: 1.6,
			EnergyTotalKWh: 12454.0,
		},
		{
			Timestamp:      noon,
			PowerDC1W:      1000,
			PowerDC2W:      1200,
			PowerACW:       2000,
			EnergyTodayKWh: 2.4,
			EnergyTotalKWh: 12456.1,
			ModuleTempC:    42.1,
			AmbientTempC:   26.0,
			VoltageDC1V:    390.5,
			VoltageDC2V:    388.2,
		},
	}
}

func TestMetrics_Update(t *testing.T) {
	m := New()
	m.Update(testReadings(), aggregate.DefaultShares())

	// Instantaneous gauges reflect the latest reading only.
	assert.InDelta(t, 1000.0, testutil.ToFloat64(m.powerDC1), 0.001)
	assert.InDelta(t, 1200.0, testutil.ToFloat64(m.powerDC2), 0.001)
	assert.InDelta(t, 2000.0, testutil.ToFloat64(m.powerAC), 0.001)
	assert.InDelta(t, 2.4, testutil.ToFloat64(m.energyToday), 0.001)
	assert.InDelta(t, 12456.1, testutil.ToFloat64(m.energyTotal), 0.001)
	assert.InDelta(t, 42.1, testutil.ToFloat64(m.moduleTemp), 0.001)
	assert.InDelta(t, 26.0, testutil.ToFloat64(m.ambientTemp), 0.001)
	assert.InDelta(t, 390.5, testutil.ToFloat64(m.voltageDC1), 0.001)
	assert.InDelta(t, 388.2, testutil.ToFloat64(m.voltageDC2), 0.001)

	assert.InDelta(t, 2200.0, testutil.ToFloat64(m.totalDCPower), 0.001)
	assert.InDelta(t, 90.909, testutil.ToFloat64(m.efficiency), 0.001)

	// Exported/self-use cover the whole sequence: (1.6+2.4) split 40/60.
	assert.InDelta(t, 1.6, testutil.ToFloat64(m.exported), 0.001)
	assert.InDelta(t, 2.4, testutil.ToFloat64(m.selfUse), 0.001)
}

func TestMetrics_UpdateZeroDCPower(t *testing.T) {
	m := New()
	m.Update([]model.Reading{{Timestamp: noon, PowerACW: 50}}, aggregate.DefaultShares())

	assert.InDelta(t, 0.0, testutil.ToFloat64(m.efficiency), 0.001)
	assert.InDelta(t, 0.0, testutil.ToFloat64(m.totalDCPower), 0.001)
}

func TestMetrics_UpdateEmptyIsNoop(t *testing.T) {
	m := New()
	m.Update(testReadings(), aggregate.DefaultShares())
	m.Update(nil, aggregate.DefaultShares())

	assert.InDelta(t, 2000.0, testutil.ToFloat64(m.powerAC), 0.001)
}

func TestMetrics_UpdateIsIdempotent(t *testing.T) {
	m := New()
	readings := testReadings()

	m.Update(readings, aggregate.DefaultShares())
	first := testutil.ToFloat64(m.exported)
	m.Update(readings, aggregate.DefaultShares())

	assert.InDelta(t, first, testutil.ToFloat64(m.exported), 1e-9)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Update(testReadings(), aggregate.DefaultShares())

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "pv_power_ac_watts 2000")
	assert.Contains(t, body, "pv_total_dc_power_watts 2200")
}
