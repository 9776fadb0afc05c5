package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// EmptyDayPruner deletes stored days with no assigned slot.
type EmptyDayPruner interface {
	PruneEmptyDays(ctx context.Context) (int, error)
}

// Pruner periodically removes all-empty meal plan days. An absent day reads
// the same as an empty one, so pruning never changes what clients see.
type Pruner struct {
	target   EmptyDayPruner
	schedule string
	timeout  time.Duration
	logger   *zap.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewPruner creates a pruner for a standard 5-field cron schedule.
func NewPruner(target EmptyDayPruner, schedule string, logger *zap.Logger) *Pruner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pruner{
		target:   target,
		schedule: schedule,
		timeout:  time.Minute,
		logger:   logger.Named("jobs.prune"),
	}
}

// RunOnce prunes immediately and returns the number of removed days.
func (p *Pruner) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	n, err := p.target.PruneEmptyDays(ctx)
	if err != nil {
		p.logger.Error("prune failed", zap.Error(err))
		return 0, err
	}
	p.logger.Info("pruned empty meal plan days",
		zap.Int("removed", n),
		zap.Duration("took", time.Since(started)),
	)
	return n, nil
}

// Start schedules the job. Calling Start twice is an error.
func (p *Pruner) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		return fmt.Errorf("pruner already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(p.schedule, func() {
		_, _ = p.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid PRUNE_SCHEDULE %q: %w", p.schedule, err)
	}

	c.Start()
	p.cron = c
	p.logger.Info("prune job scheduled", zap.String("schedule", p.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
}
