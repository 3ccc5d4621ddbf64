// Package relation stores the directed agent-to-agent social graph in
// Neo4j and serves read-only relationship snapshots to the tick runner.
package relation

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/agent"
)

// Graph manages alliance/rivalry/trust edges in Neo4j.
type Graph struct {
	driver    neo4j.DriverWithContext
	decayRate int // trust decay per tick
	logger    *zap.Logger
}

// NewGraph creates a relation graph backed by Neo4j.
func NewGraph(ctx context.Context, uri, user, password string, decayRate int, logger *zap.Logger) (*Graph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	logger.Info("Neo4j connected")
	return &Graph{driver: driver, decayRate: decayRate, logger: logger}, nil
}

// Close shuts down the driver.
func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// Set creates or updates a directed relationship edge.
func (g *Graph) Set(ctx context.Context, rel agent.Relationship) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		`MERGE (a:Agent {id: $from})
		 MERGE (b:Agent {id: $to})
		 MERGE (a)-[r:KNOWS]->(b)
		 SET r.alliance = $alliance,
		     r.rivalry = $rivalry,
		     r.trust = $trust,
		     r.updated_at = datetime()`,
		map[string]any{
			"from":     rel.FromID,
			"to":       rel.ToID,
			"alliance": rel.Alliance,
			"rivalry":  rel.Rivalry,
			"trust":    agent.Clamp(rel.Trust, 0, 100),
		})
	if err != nil {
		return fmt.Errorf("set relationship: %w", err)
	}
	return nil
}

// For returns all outgoing relationships for an agent as a read-only
// snapshot.
func (g *Graph) For(ctx context.Context, agentID string) ([]agent.Relationship, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		`MATCH (a:Agent {id: $id})-[r:KNOWS]->(b:Agent)
		 RETURN b.id, r.alliance, r.rivalry, r.trust`,
		map[string]any{"id": agentID})
	if err != nil {
		return nil, fmt.Errorf("get relationships: %w", err)
	}

	var out []agent.Relationship
	for result.Next(ctx) {
		rec := result.Record()
		toID, _ := rec.Get("b.id")
		alliance, _ := rec.Get("r.alliance")
		rivalry, _ := rec.Get("r.rivalry")
		trust, _ := rec.Get("r.trust")

		rel := agent.Relationship{FromID: agentID}
		if s, ok := toID.(string); ok {
			rel.ToID = s
		}
		if b, ok := alliance.(bool); ok {
			rel.Alliance = b
		}
		if b, ok := rivalry.(bool); ok {
			rel.Rivalry = b
		}
		if n, ok := trust.(int64); ok {
			rel.Trust = int(n)
		}
		out = append(out, rel)
	}
	return out, nil
}

// RecordInteraction boosts trust on an existing edge, capped at 100.
func (g *Graph) RecordInteraction(ctx context.Context, fromID, toID string, boost int) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		`MATCH (a:Agent {id: $from})-[r:KNOWS]->(b:Agent {id: $to})
		 SET r.trust = CASE WHEN r.trust + $boost > 100 THEN 100 ELSE r.trust + $boost END,
		     r.updated_at = datetime()`,
		map[string]any{"from": fromID, "to": toID, "boost": boost})
	if err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	return nil
}

// OnTick implements world.ClockListener. Trust erodes slowly when
// agents stop interacting.
func (g *Graph) OnTick(worldTime time.Time) {
	if g.decayRate <= 0 {
		return
	}
	ctx := context.Background()
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		`MATCH ()-[r:KNOWS]->()
		 WHERE r.trust > 0
		 SET r.trust = CASE WHEN r.trust - $decay < 0 THEN 0 ELSE r.trust - $decay END`,
		map[string]any{"decay": g.decayRate})
	if err != nil {
		g.logger.Warn("trust decay tick failed", zap.Error(err))
	}
}
