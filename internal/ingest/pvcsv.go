package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"pv_dashboard/internal/model"
)

// PVParser parses inverter CSV exports.
//
// Expected format (header names may carry surrounding whitespace):
//
//	Datum,Uhrzeit,Leistung_DC_1 (W),Leistung_DC_2 (W),Leistung_AC (W),Energie_Heute (kWh),Energie_Gesamt (kWh),Modultemperatur (°C),Umgebungstemperatur (°C),Spannung_DC_1 (V),Spannung_DC_2 (V)
//	15.06.2024,06:00,120.5,98.2,205.0,0.2,12453.7,18.5,14.2,310.2,305.8
type PVParser struct {
	// Strict makes the first malformed data row abort the whole parse.
	// The default is to skip malformed rows.
	Strict bool
}

var pvColumns = []string{
	"Datum",
	"Uhrzeit",
	"Leistung_DC_1 (W)",
	"Leistung_DC_2 (W)",
	"Leistung_AC (W)",
	"Energie_Heute (kWh)",
	"Energie_Gesamt (kWh)",
	"Modultemperatur (°C)",
	"Umgebungstemperatur (°C)",
	"Spannung_DC_1 (V)",
	"Spannung_DC_2 (V)",
}

func NewPVParser(strict bool) *PVParser {
	return &PVParser{Strict: strict}
}

func (p *PVParser) Parse(r io.Reader) ([]model.Reading, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validatePVHeader(header); err != nil {
		return nil, err
	}

	var readings []model.Reading
	lineNum := 1 // header was line 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if p.Strict {
				return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
			}
			continue
		}

		reading, err := parsePVRecord(record, lineNum)
		if err != nil {
			if p.Strict {
				return nil, err
			}
			continue
		}

		readings = append(readings, reading)
	}

	// Order is significant for time-series charts.
	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})

	return readings, nil
}

func validatePVHeader(header []string) error {
	if len(header) < len(pvColumns) {
		return fmt.Errorf("expected at least %d columns, got %d", len(pvColumns), len(header))
	}

	for i, col := range pvColumns {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, header[i])
		}
	}

	return nil
}

func parsePVRecord(record []string, lineNum int) (model.Reading, error) {
	if len(record) < len(pvColumns) {
		return model.Reading{}, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, len(pvColumns), len(record))
	}

	ts, err := parseTimestamp(strings.TrimSpace(record[0]), strings.TrimSpace(record[1]))
	if err != nil {
		return model.Reading{}, fmt.Errorf("line %d: %w", lineNum, err)
	}

	values := make([]float64, len(pvColumns)-2)
	for i := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+2]), 64)
		if err != nil {
			return model.Reading{}, fmt.Errorf("line %d: parsing %s %q: %w", lineNum, pvColumns[i+2], record[i+2], err)
		}
		values[i] = v
	}

	return model.Reading{
		Timestamp:      ts,
		PowerDC1W:      values[0],
		PowerDC2W:      values[1],
		PowerACW:       values[2],
		EnergyTodayKWh: values[3],
		EnergyTotalKWh: values[4],
		ModuleTempC:    values[5],
		AmbientTempC:   values[6],
		VoltageDC1V:    values[7],
		VoltageDC2V:    values[8],
	}, nil
}

// parseTimestamp combines the separate date and time columns. Dates use the
// German day-first format; times come with or without seconds.
func parseTimestamp(date, clock string) (time.Time, error) {
	combined := date + " " + clock
	for _, layout := range []string{
		"02.01.2006 15:04:05",
		"02.01.2006 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	} {
		if ts, err := time.Parse(layout, combined); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q", combined)
}
