package gateway

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Adapter is a platform endpoint that can carry world announcements.
type Adapter interface {
	Platform() string
	Connect(ctx context.Context) error
	Announce(ctx context.Context, ann *Announcement) error
	Close() error
}

// Announcement is a world event formatted for outside platforms.
type Announcement struct {
	Kind       string `json:"kind"`
	Headline   string `json:"headline"`
	Body       string `json:"body,omitempty"`
	ChaosLevel int    `json:"chaos_level,omitempty"`
}

// Gateway manages platform adapters and fans announcements out to them.
type Gateway struct {
	adapters map[string]Adapter
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewGateway creates a gateway manager.
func NewGateway(logger *zap.Logger) *Gateway {
	return &Gateway{
		adapters: make(map[string]Adapter),
		logger:   logger,
	}
}

// Register adds an adapter under its platform name.
func (g *Gateway) Register(adapter Adapter) {
	g.mu.Lock()
	defer g.mu.Unlock()

	platform := adapter.Platform()
	g.adapters[platform] = adapter
	g.logger.Info("registered gateway adapter", zap.String("platform", platform))
}

// ConnectAll starts all registered adapters.
func (g *Gateway) ConnectAll(ctx context.Context) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for platform, adapter := range g.adapters {
		if err := adapter.Connect(ctx); err != nil {
			g.logger.Error("adapter connect failed",
				zap.String("platform", platform), zap.Error(err))
			return fmt.Errorf("connect %s: %w", platform, err)
		}
		g.logger.Info("adapter connected", zap.String("platform", platform))
	}
	return nil
}

// Announce fans an announcement out to every adapter. Individual platform
// failures are logged and collected rather than aborting the fan-out.
func (g *Gateway) Announce(ctx context.Context, ann *Announcement) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var failed int
	for platform, adapter := range g.adapters {
		if err := adapter.Announce(ctx, ann); err != nil {
			g.logger.Error("announce failed",
				zap.String("platform", platform), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("announce failed on %d platform(s)", failed)
	}
	return nil
}

// Close shuts down all adapters.
func (g *Gateway) Close() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for platform, adapter := range g.adapters {
		if err := adapter.Close(); err != nil {
			g.logger.Error("adapter close failed",
				zap.String("platform", platform), zap.Error(err))
		}
	}
	return nil
}

// Adapters returns the registered platform names.
func (g *Gateway) Adapters() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.adapters))
	for p := range g.adapters {
		names = append(names, p)
	}
	return names
}
