package model

import "time"

// Reading is one timestamped telemetry row from the inverter CSV export.
// Readings are immutable once loaded; sequences are kept sorted by timestamp.
type Reading struct {
	Timestamp      time.Time
	PowerDC1W      float64
	PowerDC2W      float64
	PowerACW       float64
	EnergyTodayKWh float64
	EnergyTotalKWh float64
	ModuleTempC    float64
	AmbientTempC   float64
	VoltageDC1V    float64
	VoltageDC2V    float64
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ReadingsTimeRange returns the time span covered by a sorted reading sequence.
func ReadingsTimeRange(readings []Reading) (TimeRange, bool) {
	if len(readings) == 0 {
		return TimeRange{}, false
	}
	return TimeRange{
		Start: readings[0].Timestamp,
		End:   readings[len(readings)-1].Timestamp,
	}, true
}

// Latest returns the most recent reading of a sorted sequence.
func Latest(readings []Reading) (Reading, bool) {
	if len(readings) == 0 {
		return Reading{}, false
	}
	return readings[len(readings)-1], true
}
