package exporter

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pv_dashboard/internal/aggregate"
	"pv_dashboard/internal/model"
)

// Metrics exposes the latest reading's derived values for scraping. Every
// Update call overwrites the gauge set from the reading sequence; the
// exposition itself carries no history.
type Metrics struct {
	registry *prometheus.Registry

	powerDC1    prometheus.Gauge
	powerDC2    prometheus.Gauge
	powerAC     prometheus.Gauge
	energyToday prometheus.Gauge
	energyTotal prometheus.Gauge
	moduleTemp  prometheus.Gauge
	ambientTemp prometheus.Gauge
	voltageDC1  prometheus.Gauge
	voltageDC2  prometheus.Gauge

	totalDCPower prometheus.Gauge
	efficiency   prometheus.Gauge
	exported     prometheus.Gauge
	selfUse      prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
		m.registry.MustRegister(g)
		return g
	}

	m.powerDC1 = gauge("pv_power_dc1_watts", "DC power from string 1 in watts")
	m.powerDC2 = gauge("pv_power_dc2_watts", "DC power from string 2 in watts")
	m.powerAC = gauge("pv_power_ac_watts", "AC power output in watts")
	m.energyToday = gauge("pv_energy_today_kwh", "Energy produced today in kWh")
	m.energyTotal = gauge("pv_energy_total_kwh", "Total energy produced in kWh")
	m.moduleTemp = gauge("pv_module_temperature_celsius", "Module temperature in Celsius")
	m.ambientTemp = gauge("pv_ambient_temperature_celsius", "Ambient temperature in Celsius")
	m.voltageDC1 = gauge("pv_voltage_dc1_volts", "DC voltage string 1 in volts")
	m.voltageDC2 = gauge("pv_voltage_dc2_volts", "DC voltage string 2 in volts")

	m.totalDCPower = gauge("pv_total_dc_power_watts", "Total DC power from both strings")
	m.efficiency = gauge("pv_efficiency_percent", "System efficiency (AC/DC power ratio)")
	m.exported = gauge("pv_exported_energy_kwh", "Energy exported to grid")
	m.selfUse = gauge("pv_self_use_energy_kwh", "Energy used directly")

	return m
}

// Handler returns the scrape endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Update sets every gauge from the most recent reading. The exported and
// self-use gauges use the summed daily energy split by the configured
// shares. An empty sequence leaves the gauges untouched.
func (m *Metrics) Update(readings []model.Reading, shares aggregate.Shares) {
	latest, ok := model.Latest(readings)
	if !ok {
		return
	}

	m.powerDC1.Set(latest.PowerDC1W)
	m.powerDC2.Set(latest.PowerDC2W)
	m.powerAC.Set(latest.PowerACW)
	m.energyToday.Set(latest.EnergyTodayKWh)
	m.energyTotal.Set(latest.EnergyTotalKWh)
	m.moduleTemp.Set(latest.ModuleTempC)
	m.ambientTemp.Set(latest.AmbientTempC)
	m.voltageDC1.Set(latest.VoltageDC1V)
	m.voltageDC2.Set(latest.VoltageDC2V)

	m.totalDCPower.Set(aggregate.TotalDC(latest))
	m.efficiency.Set(aggregate.Efficiency(latest) * 100)

	totals := aggregate.Summarize(readings, shares)
	m.exported.Set(totals.ExportedKWh)
	m.selfUse.Set(totals.SelfUseKWh)
}
