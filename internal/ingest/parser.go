package ingest

import (
	"io"

	"pv_dashboard/internal/model"
)

// Parser reads telemetry data from a source and returns readings.
type Parser interface {
	Parse(r io.Reader) ([]model.Reading, error)
}
