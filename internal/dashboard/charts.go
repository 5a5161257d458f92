package dashboard

import (
	"fmt"
	"time"

	"pv_dashboard/internal/aggregate"
	"pv_dashboard/internal/model"
)

// Config collects the presentation parameters of the dashboard page.
type Config struct {
	Split      aggregate.SplitRatios
	Shares     aggregate.Shares
	MaxPowerKW float64
	CostPerKWh float64
}

// displayHours are the hour-of-day slots shown on the yield bar chart.
var displayHours = []int{6, 8, 10, 12, 14, 16, 18}

// YieldChart is the grouped hourly bar chart (yield / exported / self-use).
type YieldChart struct {
	Labels   []string  `json:"labels"`
	Yield    []float64 `json:"yield_kwh"`
	Exported []float64 `json:"exported_kwh"`
	SelfUse  []float64 `json:"self_use_kwh"`
	MeanAC   []float64 `json:"mean_ac_kw"`
}

// DonutChart is the self-power status donut, values in percent.
type DonutChart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Gauge is the current AC output meter.
type Gauge struct {
	ValueKW     float64 `json:"value_kw"`
	MaxKW       float64 `json:"max_kw"`
	ThresholdKW float64 `json:"threshold_kw"`
}

// HBar is one row of the Today / This month horizontal bar panels.
type HBar struct {
	Label    string  `json:"label"`
	ValueKWh float64 `json:"value_kwh"`
}

// Summary mirrors the metric row above the yield chart.
type Summary struct {
	YieldKWh    float64 `json:"yield_kwh"`
	ExportedKWh float64 `json:"exported_kwh"`
	SelfUseKWh  float64 `json:"self_use_kwh"`
}

// Snapshot is everything the page renders in one refresh cycle.
type Snapshot struct {
	GeneratedAt   string     `json:"generated_at"`
	DataAvailable bool       `json:"data_available"`
	Summary       Summary    `json:"summary"`
	Yield         YieldChart `json:"yield"`
	SelfPower     DonutChart `json:"self_power"`
	Gauge         Gauge      `json:"gauge"`
	Today         []HBar     `json:"today"`
	Month         []HBar     `json:"month"`
	EnergyKWh     float64    `json:"energy_kwh"`
	CostUSD       float64    `json:"cost_usd"`
}

// BuildSnapshot derives the full chart payload from a reading sequence.
// An empty sequence produces the zero-valued empty state.
func BuildSnapshot(readings []model.Reading, cfg Config, now time.Time) Snapshot {
	snap := Snapshot{
		GeneratedAt: now.Format(time.RFC3339),
		Gauge: Gauge{
			MaxKW:       cfg.MaxPowerKW,
			ThresholdKW: cfg.MaxPowerKW * 0.9,
		},
	}
	if len(readings) == 0 {
		return snap
	}

	totals := aggregate.Summarize(readings, cfg.Shares)
	hourly := aggregate.HourlyRollup(readings, cfg.Shares)
	monthly := aggregate.MonthlyRollup(readings, cfg.Shares, now)
	split := aggregate.Split(totals.YieldKWh, cfg.Split)

	snap.DataAvailable = true
	snap.Summary = Summary{
		YieldKWh:    totals.YieldKWh,
		ExportedKWh: totals.ExportedKWh,
		SelfUseKWh:  totals.SelfUseKWh,
	}
	snap.Yield = buildYieldChart(hourly)
	snap.SelfPower = buildSelfPowerDonut(totals.YieldKWh, split)
	snap.Gauge.ValueKW = totals.LatestACkW

	snap.Today = []HBar{
		{Label: "Energy exported", ValueKWh: totals.ExportedKWh},
		{Label: "Direct self use", ValueKWh: totals.SelfUseKWh},
		{Label: "Yield energy", ValueKWh: totals.YieldKWh},
	}

	monthYield, monthExported, monthSelfUse := aggregate.SumDays(monthly)
	snap.Month = []HBar{
		{Label: "Energy exported", ValueKWh: monthExported},
		{Label: "Direct self use", ValueKWh: monthSelfUse},
		{Label: "Yield energy", ValueKWh: monthYield},
	}

	snap.EnergyKWh = totals.YieldKWh
	snap.CostUSD = totals.YieldKWh * cfg.CostPerKWh

	return snap
}

func buildYieldChart(hourly []aggregate.HourBucket) YieldChart {
	byHour := make(map[int]aggregate.HourBucket, len(hourly))
	for _, b := range hourly {
		byHour[b.Hour] = b
	}

	chart := YieldChart{
		Labels:   make([]string, 0, len(displayHours)),
		Yield:    make([]float64, 0, len(displayHours)),
		Exported: make([]float64, 0, len(displayHours)),
		SelfUse:  make([]float64, 0, len(displayHours)),
		MeanAC:   make([]float64, 0, len(displayHours)),
	}
	for _, h := range displayHours {
		b := byHour[h] // zero bucket for hours without readings
		chart.Labels = append(chart.Labels, hourLabel(h))
		chart.Yield = append(chart.Yield, b.YieldKWh)
		chart.Exported = append(chart.Exported, b.ExportedKWh)
		chart.SelfUse = append(chart.SelfUse, b.SelfUseKWh)
		chart.MeanAC = append(chart.MeanAC, b.MeanACkW)
	}
	return chart
}

func buildSelfPowerDonut(totalYield float64, split aggregate.EnergySplit) DonutChart {
	donut := DonutChart{Labels: []string{"Direct solar", "Battery", "Grid"}}
	if totalYield <= 0 {
		donut.Values = []float64{0, 0, 0}
		return donut
	}
	donut.Values = []float64{
		split.DirectKWh / totalYield * 100,
		split.BatteryKWh / totalYield * 100,
		split.GridKWh / totalYield * 100,
	}
	return donut
}

func hourLabel(hour int) string {
	if hour < 12 {
		return fmt.Sprintf("%d am", hour)
	}
	return fmt.Sprintf("%d pm", hour)
}
