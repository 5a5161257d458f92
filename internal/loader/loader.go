package loader

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pv_dashboard/internal/ingest"
	"pv_dashboard/internal/model"
)

// ErrDataUnavailable signals that the telemetry file is missing, unreadable
// or contains no parseable rows. The presentation layer turns it into the
// user-visible empty state.
var ErrDataUnavailable = errors.New("pv data unavailable")

// Loader reads the telemetry CSV and memoizes the result for a bounded
// window so the UI refresh loop does not re-read the file on every tick.
// Cache state is explicit: lastLoaded plus the configured TTL decide whether
// a Load call hits the file.
type Loader struct {
	path   string
	ttl    time.Duration
	parser ingest.Parser
	log    *logrus.Logger

	mu         sync.Mutex
	cached     []model.Reading
	lastLoaded time.Time
}

func New(path string, ttl time.Duration, strict bool, log *logrus.Logger) *Loader {
	return &Loader{
		path:   path,
		ttl:    ttl,
		parser: ingest.NewPVParser(strict),
		log:    log,
	}
}

// Load returns the reading sequence, re-reading the file when the cached
// copy is older than the TTL. The clock is passed in so cache expiry is
// testable without sleeping.
func (l *Loader) Load(now time.Time) ([]model.Reading, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && now.Sub(l.lastLoaded) < l.ttl {
		return l.cached, nil
	}

	readings, err := l.read()
	if err != nil {
		return nil, err
	}

	l.cached = readings
	l.lastLoaded = now
	return readings, nil
}

// Invalidate drops the cached readings so the next Load re-reads the file.
// This is the human-triggered refresh recovery path.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
	l.lastLoaded = time.Time{}
}

func (l *Loader) read() ([]model.Reading, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrDataUnavailable, l.path, err)
	}
	defer f.Close()

	readings, err := l.parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrDataUnavailable, l.path, err)
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrDataUnavailable, l.path)
	}

	l.log.Infof("Loaded %d readings from %s", len(readings), l.path)
	return readings, nil
}
