package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// Evictor is the part of the orchestrator the cleaner needs.
type Evictor interface {
	EvictExpired() int
}

// Cleaner handles periodic eviction of expired interview sessions
type Cleaner struct {
	evictor  Evictor
	interval time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(evictor Evictor, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		evictor:  evictor,
		interval: interval,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cleanup worker started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Run immediately on start
	c.cleanup()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup evicts expired sessions
func (c *Cleaner) cleanup() {
	slog.Debug("running cleanup cycle")

	evicted := c.evictor.EvictExpired()
	if evicted == 0 {
		slog.Debug("no expired sessions found")
		return
	}

	slog.Info("expired sessions evicted", "count", evicted)
}
