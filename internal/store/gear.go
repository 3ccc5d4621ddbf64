package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nidhogg/agora-world/internal/gear"
)

// SaveTool upserts a tool catalog entry.
func (s *Store) SaveTool(ctx context.Context, t gear.Tool) error {
	synergy, err := json.Marshal(t.SynergyTools)
	if err != nil {
		return fmt.Errorf("marshal synergy: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO tools (id, name, tier, practice_gain, decay_rate,
			calibration_threshold, synergy_tools, is_discoverable, category)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			tier = EXCLUDED.tier,
			practice_gain = EXCLUDED.practice_gain,
			decay_rate = EXCLUDED.decay_rate,
			calibration_threshold = EXCLUDED.calibration_threshold,
			synergy_tools = EXCLUDED.synergy_tools,
			is_discoverable = EXCLUDED.is_discoverable,
			category = EXCLUDED.category`,
		t.ID, t.Name, t.Tier, t.PracticeGain, t.DecayRate,
		t.CalibrationThreshold, synergy, t.IsDiscoverable, t.Category,
	)
	if err != nil {
		return fmt.Errorf("save tool %s: %w", t.ID, err)
	}
	return nil
}

// ListTools returns the full tool catalog keyed by id.
func (s *Store) ListTools(ctx context.Context) (map[string]gear.Tool, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, tier, practice_gain, decay_rate,
		       calibration_threshold, synergy_tools, is_discoverable,
		       COALESCE(category, '')
		FROM tools`)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	out := make(map[string]gear.Tool)
	for rows.Next() {
		var t gear.Tool
		var synergy []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.Tier, &t.PracticeGain,
			&t.DecayRate, &t.CalibrationThreshold, &synergy,
			&t.IsDiscoverable, &t.Category); err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		if err := json.Unmarshal(synergy, &t.SynergyTools); err != nil {
			return nil, fmt.Errorf("decode synergy: %w", err)
		}
		out[t.ID] = t
	}
	return out, rows.Err()
}

// SaveProficiency upserts one agent x tool proficiency row.
func (s *Store) SaveProficiency(ctx context.Context, p gear.Proficiency) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO tool_proficiencies (agent_id, tool_id, proficiency,
			condition, streak_days, peak_proficiency, advanced_unlocked, last_used)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (agent_id, tool_id) DO UPDATE SET
			proficiency = EXCLUDED.proficiency,
			condition = EXCLUDED.condition,
			streak_days = EXCLUDED.streak_days,
			peak_proficiency = EXCLUDED.peak_proficiency,
			advanced_unlocked = EXCLUDED.advanced_unlocked,
			last_used = EXCLUDED.last_used`,
		p.AgentID, p.ToolID, p.Proficiency, string(p.Condition),
		p.StreakDays, p.PeakProficiency, p.AdvancedUnlocked, p.LastUsed,
	)
	if err != nil {
		return fmt.Errorf("save proficiency %s/%s: %w", p.AgentID, p.ToolID, err)
	}
	return nil
}

// ListProficiencies returns every proficiency row for one agent.
func (s *Store) ListProficiencies(ctx context.Context, agentID string) ([]gear.Proficiency, error) {
	rows, err := s.db.Query(ctx, `
		SELECT agent_id, tool_id, proficiency, condition, streak_days,
		       peak_proficiency, advanced_unlocked, last_used
		FROM tool_proficiencies WHERE agent_id = $1 ORDER BY tool_id`, agentID)
	if err != nil {
		return nil, fmt.Errorf("list proficiencies %s: %w", agentID, err)
	}
	defer rows.Close()

	var out []gear.Proficiency
	for rows.Next() {
		var p gear.Proficiency
		var cond string
		if err := rows.Scan(&p.AgentID, &p.ToolID, &p.Proficiency, &cond,
			&p.StreakDays, &p.PeakProficiency, &p.AdvancedUnlocked,
			&p.LastUsed); err != nil {
			return nil, fmt.Errorf("scan proficiency: %w", err)
		}
		p.Condition = gear.Condition(cond)
		out = append(out, p)
	}
	return out, rows.Err()
}
