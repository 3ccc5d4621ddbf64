// Package world drives the simulation: a tick clock, day-phase
// derivation, and the per-agent tick runner that feeds snapshots through
// the decision engine. All scheduler state (cycle counter, tension) is
// explicit — passed into and returned from tick calls, never hidden in
// package-level variables.
package world

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/agent"
)

// ClockListener receives simulated-time tick events.
type ClockListener interface {
	OnTick(worldTime time.Time)
}

// Clock advances simulated world time at a configurable speed and fans
// ticks out to listeners.
type Clock struct {
	interval  time.Duration
	speed     float64 // world-time multiplier, 1.0 = realtime
	worldTime time.Time
	listeners []ClockListener
	cancel    context.CancelFunc
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewClock creates a clock with the given tick interval and speed.
func NewClock(interval time.Duration, speed float64, logger *zap.Logger) *Clock {
	return &Clock{
		interval:  interval,
		speed:     speed,
		worldTime: time.Now(),
		logger:    logger,
	}
}

// AddListener registers a tick listener.
func (c *Clock) AddListener(l ClockListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// WorldTime returns the current simulated time.
func (c *Clock) WorldTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.worldTime
}

// Phase returns the current day phase.
func (c *Clock) Phase() agent.Phase {
	return PhaseOf(c.WorldTime())
}

// Start begins the tick loop in a background goroutine.
func (c *Clock) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.loop(ctx)
	c.logger.Info("world clock started",
		zap.Duration("interval", c.interval),
		zap.Float64("speed", c.speed))
}

// Stop halts the tick loop.
func (c *Clock) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.logger.Info("world clock stopped")
	}
}

func (c *Clock) loop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *Clock) tick() {
	c.mu.Lock()
	c.worldTime = c.worldTime.Add(time.Duration(float64(c.interval) * c.speed))
	wt := c.worldTime
	listeners := make([]ClockListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l.OnTick(wt)
	}
}
