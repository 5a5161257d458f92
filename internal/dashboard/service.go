package dashboard

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"pv_dashboard/internal/loader"
)

// Service recomputes dashboard snapshots from the loader on demand. It holds
// no derived state: every snapshot is rebuilt from the reading sequence.
type Service struct {
	loader *loader.Loader
	cfg    Config
	log    *logrus.Logger
	now    func() time.Time
}

func NewService(l *loader.Loader, cfg Config, log *logrus.Logger) *Service {
	return &Service{
		loader: l,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Snapshot loads readings (served from cache within the TTL) and derives the
// chart payload. Loader failures degrade to the empty-state snapshot.
func (s *Service) Snapshot() Snapshot {
	now := s.now()
	readings, err := s.loader.Load(now)
	if err != nil {
		if errors.Is(err, loader.ErrDataUnavailable) {
			s.log.Warnf("Snapshot degraded to empty state: %v", err)
		} else {
			s.log.Errorf("Loading readings: %v", err)
		}
		return BuildSnapshot(nil, s.cfg, now)
	}
	return BuildSnapshot(readings, s.cfg, now)
}

// ForceRefresh drops the loader cache and rebuilds the snapshot from the
// file. This backs the page's manual refresh control.
func (s *Service) ForceRefresh() Snapshot {
	s.loader.Invalidate()
	return s.Snapshot()
}
