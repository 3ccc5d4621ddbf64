package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/drama"
)

// Record tracks a delivered announcement for history queries.
type Record struct {
	Announcement *Announcement `json:"announcement"`
	SentAt       time.Time     `json:"sent_at"`
	Targets      []string      `json:"targets"`
}

// Broadcaster turns storyteller events into platform announcements.
// It satisfies the world runner's event sink.
type Broadcaster struct {
	gateway *Gateway
	history []Record
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewBroadcaster creates a broadcaster backed by the given gateway.
func NewBroadcaster(gw *Gateway, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		gateway: gw,
		logger:  logger,
	}
}

// Publish formats a drama event and fans it out to all platforms.
func (b *Broadcaster) Publish(ctx context.Context, ev *drama.Event) error {
	if ev == nil {
		return fmt.Errorf("nil drama event")
	}

	ann := &Announcement{
		Kind:       string(ev.Type),
		Headline:   ev.Headline,
		Body:       formatShifts(ev),
		ChaosLevel: ev.ChaosLevel,
	}

	b.logger.Info("broadcasting drama event",
		zap.String("type", string(ev.Type)),
		zap.String("headline", ev.Headline),
		zap.Int("chaos", ev.ChaosLevel),
	)

	if err := b.gateway.Announce(ctx, ann); err != nil {
		return err
	}

	b.mu.Lock()
	b.history = append(b.history, Record{
		Announcement: ann,
		SentAt:       time.Now(),
		Targets:      b.gateway.Adapters(),
	})
	b.mu.Unlock()
	return nil
}

// History returns the most recent announcement records.
func (b *Broadcaster) History(limit int) []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limit <= 0 || limit > len(b.history) {
		limit = len(b.history)
	}
	start := len(b.history) - limit
	out := make([]Record, limit)
	copy(out, b.history[start:])
	return out
}

// formatShifts renders an event's trait shifts as a short readable line.
func formatShifts(ev *drama.Event) string {
	if len(ev.TraitShifts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ev.TraitShifts))
	for trait, delta := range ev.TraitShifts {
		parts = append(parts, fmt.Sprintf("%s %+d", trait, delta))
	}
	sort.Strings(parts)
	return "Mood shifts: " + strings.Join(parts, ", ")
}
