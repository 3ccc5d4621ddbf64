// Package memory keeps each agent's recent memory entries in capped
// Redis streams. The tick runner reads them back as read-only snapshots
// for the scorer's "recent insight" and the gravitation engine's
// "unexplored room" signals.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/agent"
)

const (
	streamPrefix = "agora:memory:"
	maxEntries   = 200
)

// Store is a Redis-backed recent-memory store.
type Store struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewStore connects to Redis and returns a memory store.
func NewStore(ctx context.Context, redisURL string, logger *zap.Logger) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("Redis connected")
	return &Store{rdb: rdb, logger: logger}, nil
}

// Close shuts down the client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Append records a memory entry on the agent's stream, trimming to the
// cap. A missing id or timestamp is filled in.
func (s *Store) Append(ctx context.Context, agentID string, m agent.MemoryEntry) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}

	stream := streamPrefix + agentID
	err = s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxEntries,
		Approx: true,
		Values: map[string]any{"data": string(data)},
	}).Err()
	if err != nil {
		return fmt.Errorf("append memory to %s: %w", stream, err)
	}
	return nil
}

// Recent returns up to limit entries for an agent, newest first.
func (s *Store) Recent(ctx context.Context, agentID string, limit int) ([]agent.MemoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	stream := streamPrefix + agentID
	msgs, err := s.rdb.XRevRangeN(ctx, stream, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("read memories from %s: %w", stream, err)
	}

	var out []agent.MemoryEntry
	for _, msg := range msgs {
		raw, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}
		var m agent.MemoryEntry
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			s.logger.Warn("skipping undecodable memory",
				zap.String("agent", agentID),
				zap.Error(err))
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
