// Package gear models an agent's instrument set: proficiency that grows
// with practice and calibration and atrophies with neglect, plus the
// diagnostics and maintenance candidates that keep it alive. Structurally
// it mirrors the needs model, on a slower per-tool cadence.
package gear

import "time"

// Tool is a catalog entry. Tier weights the tool's influence on
// aggregate health; synergy tools boost each other's practice.
type Tool struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Tier                 int      `json:"tier"` // positive
	PracticeGain         float64  `json:"practice_gain"`
	DecayRate            float64  `json:"decay_rate"`
	CalibrationThreshold int      `json:"calibration_threshold"`
	SynergyTools         []string `json:"synergy_tools,omitempty"`
	IsDiscoverable       bool     `json:"is_discoverable"`
	Category             string   `json:"category,omitempty"`
}

// Condition is the discrete label derived from proficiency.
type Condition string

const (
	ConditionPristine   Condition = "pristine"
	ConditionSharp      Condition = "sharp"
	ConditionFunctional Condition = "functional"
	ConditionDull       Condition = "dull"
	ConditionBroken     Condition = "broken"
)

// Proficiency is the per-agent, per-tool skill record the engine reads
// and proposes updates to. It never creates or deletes these rows.
type Proficiency struct {
	ToolID           string     `json:"tool_id"`
	AgentID          string     `json:"agent_id"`
	Proficiency      int        `json:"proficiency"` // 0-100
	Condition        Condition  `json:"condition"`
	StreakDays       int        `json:"streak_days"`
	PeakProficiency  int        `json:"peak_proficiency"`
	AdvancedUnlocked bool       `json:"advanced_unlocked"`
	LastUsed         *time.Time `json:"last_used,omitempty"`
}

// ConditionFor labels a proficiency value. Out-of-range input clamps.
func ConditionFor(proficiency int) Condition {
	switch {
	case proficiency >= 80:
		return ConditionPristine
	case proficiency >= 60:
		return ConditionSharp
	case proficiency >= 40:
		return ConditionFunctional
	case proficiency >= 20:
		return ConditionDull
	default:
		return ConditionBroken
	}
}

// clampProficiency bounds a value to [0,100]; negative input is treated
// as 0, never rejected.
func clampProficiency(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
