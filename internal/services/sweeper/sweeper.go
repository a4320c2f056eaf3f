// Package sweeper runs the scheduled retention sweep over the cached
// analysis store.
package sweeper

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/interfaces"
)

// Sweeper periodically deletes analysis records past their retention
// window.
type Sweeper struct {
	storage  interfaces.AnalysisStorage
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
	logger   arbor.ILogger
}

// New creates a sweeper from the cache configuration
func New(storage interfaces.AnalysisStorage, config *common.Config, logger arbor.ILogger) *Sweeper {
	return &Sweeper{
		storage:  storage,
		ttl:      config.CacheTTL(),
		schedule: config.Cache.SweepSchedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Start registers the sweep job and starts the scheduler
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.schedule).
		Dur("ttl", s.ttl).
		Msg("Cache retention sweeper started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Cache retention sweeper stopped")
}

// Sweep runs one retention pass immediately
func (s *Sweeper) Sweep() (int, error) {
	return s.storage.DeleteOlderThan(time.Now().Add(-s.ttl))
}

func (s *Sweeper) sweep() {
	deleted, err := s.Sweep()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Retention sweep failed")
		return
	}
	if deleted > 0 {
		s.logger.Info().Int("deleted", deleted).Msg("Retention sweep completed")
	}
}
