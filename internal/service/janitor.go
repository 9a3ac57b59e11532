package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultJanitorSchedule is the cron spec of the idle-profile sweep.
const DefaultJanitorSchedule = "@every 10m"

// Janitor periodically evicts idle unauthenticated profiles from a Registry.
type Janitor struct {
	registry  *Registry
	clock     clockwork.Clock
	spec      string
	idleAfter time.Duration
	logger    *zap.Logger
}

// NewJanitor creates a new Janitor running on the cron spec.
func NewJanitor(registry *Registry, clock clockwork.Clock, spec string, idleAfter time.Duration, logger *zap.Logger) *Janitor {
	if spec == "" {
		spec = DefaultJanitorSchedule
	}
	return &Janitor{
		registry:  registry,
		clock:     clock,
		spec:      spec,
		idleAfter: idleAfter,
		logger:    logger,
	}
}

// Start runs the sweep on schedule until ctx is done.
func (j *Janitor) Start(ctx context.Context) error {
	j.logger.Info("janitor started", zap.String("schedule", j.spec))

	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(j.spec, func() { j.Sweep() }); err != nil {
		return fmt.Errorf("add janitor job: %w", err)
	}

	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("janitor stopped")
	return nil
}

// Sweep evicts idle profiles once and returns how many were dropped.
func (j *Janitor) Sweep() int {
	evicted := j.registry.EvictIdle(j.clock.Now(), j.idleAfter)
	if len(evicted) > 0 {
		j.logger.Info("evicted idle profiles",
			zap.Int("count", len(evicted)),
			zap.Int("remaining", j.registry.Len()),
		)
	}
	return len(evicted)
}
