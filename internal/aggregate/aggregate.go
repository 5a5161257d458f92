package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pv_dashboard/internal/model"
)

const ratioTolerance = 1e-9

// TotalDC returns the combined DC power of both strings in watts.
func TotalDC(r model.Reading) float64 {
	return r.PowerDC1W + r.PowerDC2W
}

// Efficiency returns the AC/DC conversion ratio of a reading. A reading
// without DC power has no defined efficiency and reports 0.
func Efficiency(r model.Reading) float64 {
	dc := TotalDC(r)
	if dc <= 0 {
		return 0
	}
	return r.PowerACW / dc
}

// SplitRatios distributes produced energy across its destinations. The
// three ratios must sum to 1.
type SplitRatios struct {
	Direct  float64
	Battery float64
	Grid    float64
}

func DefaultSplitRatios() SplitRatios {
	return SplitRatios{Direct: 0.48, Battery: 0.35, Grid: 0.17}
}

func (s SplitRatios) Validate() error {
	for name, v := range map[string]float64{"direct": s.Direct, "battery": s.Battery, "grid": s.Grid} {
		if v < 0 || v > 1 {
			return fmt.Errorf("split ratio %s out of range: %v", name, v)
		}
	}
	if sum := s.Direct + s.Battery + s.Grid; math.Abs(sum-1) > ratioTolerance {
		return fmt.Errorf("split ratios sum to %v, want 1", sum)
	}
	return nil
}

// EnergySplit is produced energy divided across destinations, in kWh.
type EnergySplit struct {
	DirectKWh  float64
	BatteryKWh float64
	GridKWh    float64
}

// Split divides a total using the configured ratios. The parts sum back to
// the total.
func Split(totalKWh float64, r SplitRatios) EnergySplit {
	return EnergySplit{
		DirectKWh:  totalKWh * r.Direct,
		BatteryKWh: totalKWh * r.Battery,
		GridKWh:    totalKWh * r.Grid,
	}
}

// Shares divide yield between energy exported to the grid and energy used
// on-site. The two shares must sum to 1.
type Shares struct {
	Export  float64
	SelfUse float64
}

func DefaultShares() Shares {
	return Shares{Export: 0.40, SelfUse: 0.60}
}

func (s Shares) Validate() error {
	if s.Export < 0 || s.SelfUse < 0 {
		return fmt.Errorf("shares must be non-negative: export %v, self-use %v", s.Export, s.SelfUse)
	}
	if sum := s.Export + s.SelfUse; math.Abs(sum-1) > ratioTolerance {
		return fmt.Errorf("shares sum to %v, want 1", sum)
	}
	return nil
}

// HourBucket is the rollup of all readings falling into one hour of day.
type HourBucket struct {
	Hour        int
	YieldKWh    float64
	ExportedKWh float64
	SelfUseKWh  float64
	MeanACkW    float64
}

// HourlyRollup groups readings by hour of day, summing yield and splitting
// it into exported and self-used energy. Hours without readings are absent
// from the result; an empty input produces an empty slice.
func HourlyRollup(readings []model.Reading, shares Shares) []HourBucket {
	type acc struct {
		yield   float64
		acSum   float64
		samples int
	}
	byHour := make(map[int]*acc)

	for _, r := range readings {
		h := r.Timestamp.Hour()
		a, ok := byHour[h]
		if !ok {
			a = &acc{}
			byHour[h] = a
		}
		a.yield += r.EnergyTodayKWh
		a.acSum += r.PowerACW / 1000
		a.samples++
	}

	buckets := make([]HourBucket, 0, len(byHour))
	for h, a := range byHour {
		buckets = append(buckets, HourBucket{
			Hour:        h,
			YieldKWh:    a.yield,
			ExportedKWh: a.yield * shares.Export,
			SelfUseKWh:  a.yield * shares.SelfUse,
			MeanACkW:    a.acSum / float64(a.samples),
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Hour < buckets[j].Hour })

	return buckets
}

// DayBucket is the rollup of all readings falling on one calendar day.
type DayBucket struct {
	Day         time.Time
	YieldKWh    float64
	ExportedKWh float64
	SelfUseKWh  float64
}

// monthlyWindowDays is the trailing window covered by the monthly rollup.
const monthlyWindowDays = 30

// MonthlyRollup groups readings by calendar day over the trailing 30-day
// window ending at now. Readings outside the window are excluded; an empty
// result is an empty slice, never an error.
func MonthlyRollup(readings []model.Reading, shares Shares, now time.Time) []DayBucket {
	cutoff := now.AddDate(0, 0, -monthlyWindowDays)

	byDay := make(map[time.Time]float64)
	for _, r := range readings {
		if !r.Timestamp.After(cutoff) || r.Timestamp.After(now) {
			continue
		}
		day := time.Date(r.Timestamp.Year(), r.Timestamp.Month(), r.Timestamp.Day(), 0, 0, 0, 0, r.Timestamp.Location())
		byDay[day] += r.EnergyTodayKWh
	}

	buckets := make([]DayBucket, 0, len(byDay))
	for day, yield := range byDay {
		buckets = append(buckets, DayBucket{
			Day:         day,
			YieldKWh:    yield,
			ExportedKWh: yield * shares.Export,
			SelfUseKWh:  yield * shares.SelfUse,
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Day.Before(buckets[j].Day) })

	return buckets
}

// Totals is the all-readings summary shown at the top of the dashboard.
type Totals struct {
	YieldKWh    float64
	ExportedKWh float64
	SelfUseKWh  float64
	LatestACkW  float64
	LatestAt    time.Time
	Readings    int
}

// Summarize computes the overall yield totals and the latest instantaneous
// AC power. An empty input yields a zero-valued summary.
func Summarize(readings []model.Reading, shares Shares) Totals {
	var t Totals
	for _, r := range readings {
		t.YieldKWh += r.EnergyTodayKWh
	}
	t.ExportedKWh = t.YieldKWh * shares.Export
	t.SelfUseKWh = t.YieldKWh * shares.SelfUse
	t.Readings = len(readings)

	if latest, ok := model.Latest(readings); ok {
		t.LatestACkW = latest.PowerACW / 1000
		t.LatestAt = latest.Timestamp
	}
	return t
}

// SumDays totals a day-bucket slice, for the monthly summary panel.
func SumDays(days []DayBucket) (yieldKWh, exportedKWh, selfUseKWh float64) {
	for _, d := range days {
		yieldKWh += d.YieldKWh
		exportedKWh += d.ExportedKWh
		selfUseKWh += d.SelfUseKWh
	}
	return yieldKWh, exportedKWh, selfUseKWh
}
