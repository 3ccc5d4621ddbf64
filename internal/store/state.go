package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nidhogg/agora-world/internal/agent"
)

// SaveState upserts an agent's state row.
func (s *Store) SaveState(ctx context.Context, a agent.State) error {
	needs, err := json.Marshal(a.Needs)
	if err != nil {
		return fmt.Errorf("marshal needs: %w", err)
	}
	traits, err := json.Marshal(a.Traits)
	if err != nil {
		return fmt.Errorf("marshal traits: %w", err)
	}
	skills, err := json.Marshal(a.SkillAllocation)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	proclivities, err := json.Marshal(a.Proclivities)
	if err != nil {
		return fmt.Errorf("marshal proclivities: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO agent_states (
			id, needs, traits, energy, reputation, influence,
			contests_won, upvotes_received, tool_readiness,
			skill_allocation, proclivities, current_room_id,
			last_diagnostic, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			needs = EXCLUDED.needs,
			traits = EXCLUDED.traits,
			energy = EXCLUDED.energy,
			reputation = EXCLUDED.reputation,
			influence = EXCLUDED.influence,
			contests_won = EXCLUDED.contests_won,
			upvotes_received = EXCLUDED.upvotes_received,
			tool_readiness = EXCLUDED.tool_readiness,
			skill_allocation = EXCLUDED.skill_allocation,
			proclivities = EXCLUDED.proclivities,
			current_room_id = EXCLUDED.current_room_id,
			last_diagnostic = EXCLUDED.last_diagnostic,
			updated_at = EXCLUDED.updated_at`,
		a.ID, needs, traits, a.Energy, a.Reputation, a.Influence,
		a.ContestsWon, a.UpvotesReceived, a.ToolReadiness,
		skills, proclivities, a.CurrentRoomID,
		a.LastDiagnostic, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save state %s: %w", a.ID, err)
	}
	return nil
}

// GetState retrieves a single agent's state.
func (s *Store) GetState(ctx context.Context, id string) (agent.State, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, needs, traits, energy, reputation, influence,
		       contests_won, upvotes_received, tool_readiness,
		       skill_allocation, proclivities, COALESCE(current_room_id, ''),
		       last_diagnostic
		FROM agent_states WHERE id = $1`, id)
	return scanState(row)
}

// ListStates returns all agent states.
func (s *Store) ListStates(ctx context.Context) ([]agent.State, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, needs, traits, energy, reputation, influence,
		       contests_won, upvotes_received, tool_readiness,
		       skill_allocation, proclivities, COALESCE(current_room_id, ''),
		       last_diagnostic
		FROM agent_states ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()

	var out []agent.State
	for rows.Next() {
		a, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AgentIDs returns every known agent id.
func (s *Store) AgentIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM agent_states ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list agent ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan agent id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanState(row rowScanner) (agent.State, error) {
	var a agent.State
	var needs, traits, skills, proclivities []byte
	err := row.Scan(
		&a.ID, &needs, &traits, &a.Energy, &a.Reputation, &a.Influence,
		&a.ContestsWon, &a.UpvotesReceived, &a.ToolReadiness,
		&skills, &proclivities, &a.CurrentRoomID, &a.LastDiagnostic,
	)
	if err != nil {
		return agent.State{}, fmt.Errorf("scan state: %w", err)
	}
	if err := json.Unmarshal(needs, &a.Needs); err != nil {
		return agent.State{}, fmt.Errorf("decode needs: %w", err)
	}
	if err := json.Unmarshal(traits, &a.Traits); err != nil {
		return agent.State{}, fmt.Errorf("decode traits: %w", err)
	}
	if err := json.Unmarshal(skills, &a.SkillAllocation); err != nil {
		return agent.State{}, fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal(proclivities, &a.Proclivities); err != nil {
		return agent.State{}, fmt.Errorf("decode proclivities: %w", err)
	}
	return a, nil
}
