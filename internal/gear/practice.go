package gear

import (
	"math"
	"time"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/rng"
)

// PracticeResult reports the outcome of one practice session.
type PracticeResult struct {
	Proficiency Proficiency `json:"proficiency"`
	Gain        int         `json:"gain"`
	NewPeak     bool        `json:"new_peak"`
}

// streakMultiplier steps up at 3, 7, and 14 consecutive days.
func streakMultiplier(streakDays int) float64 {
	switch {
	case streakDays >= 14:
		return 2.0
	case streakDays >= 7:
		return 1.5
	case streakDays >= 3:
		return 1.2
	default:
		return 1.0
	}
}

// diminishingReturns slows growth once a tool is already sharp.
func diminishingReturns(proficiency int) float64 {
	switch {
	case proficiency >= 80:
		return 0.5
	case proficiency >= 60:
		return 0.8
	default:
		return 1.0
	}
}

// Practice runs one session:
//
//	gain = (baseGain + synergy) * streakMult * (1 + strategy/100*0.5) * diminishing
//
// Synergy adds +1 per linked tool currently at proficiency >= 60. The
// streak multiplier uses the streak including this session. Proficiency
// caps at 100 and a new peak is recorded when reached.
func Practice(s agent.State, tool Tool, p Proficiency, linked []Proficiency, now time.Time) PracticeResult {
	current := clampProficiency(p.Proficiency)

	synergy := 0.0
	linkSet := make(map[string]bool, len(tool.SynergyTools))
	for _, id := range tool.SynergyTools {
		linkSet[id] = true
	}
	for _, lp := range linked {
		if linkSet[lp.ToolID] && clampProficiency(lp.Proficiency) >= 60 {
			synergy++
		}
	}

	newStreak := p.StreakDays + 1
	strategyBonus := float64(s.TraitValue(agent.TraitStrategy)) / 100.0 * 0.5

	gain := (tool.PracticeGain + synergy) *
		streakMultiplier(newStreak) *
		(1.0 + strategyBonus) *
		diminishingReturns(current)

	rounded := int(math.Round(gain))
	if rounded < 0 {
		rounded = 0
	}

	updated := clampProficiency(current + rounded)
	newPeak := updated > p.PeakProficiency

	p.Proficiency = updated
	p.Condition = ConditionFor(updated)
	p.StreakDays = newStreak
	if newPeak {
		p.PeakProficiency = updated
	}
	p.LastUsed = &now

	return PracticeResult{Proficiency: p, Gain: updated - current, NewPeak: newPeak}
}

// CalibrationResult reports a calibration pass.
type CalibrationResult struct {
	Proficiency      Proficiency `json:"proficiency"`
	Boost            int         `json:"boost"`
	UnlockedAdvanced bool        `json:"unlocked_advanced"`
}

// Calibrate is the cheap tune-up: a small proficiency boost
// (2 + strategy/100*3), a condition computed more generously (from
// proficiency + boost + 10), and a curiosity-and-proficiency-driven
// chance of unlocking advanced uses, once per tool.
func Calibrate(src rng.Source, s agent.State, p Proficiency, now time.Time) CalibrationResult {
	current := clampProficiency(p.Proficiency)

	boost := int(math.Round(2.0 + float64(s.TraitValue(agent.TraitStrategy))/100.0*3.0))
	if boost < 0 {
		boost = 0
	}

	updated := clampProficiency(current + boost)
	p.Proficiency = updated
	// Calibration flatters the condition beyond the raw proficiency.
	p.Condition = ConditionFor(clampProficiency(updated + 10))
	if updated > p.PeakProficiency {
		p.PeakProficiency = updated
	}
	p.LastUsed = &now

	unlocked := false
	if !p.AdvancedUnlocked {
		curiosity := float64(s.TraitValue(agent.TraitCuriosity)+100) / 200.0
		chance := curiosity * float64(updated) / 100.0 * 0.3
		if src.Float64() < chance {
			p.AdvancedUnlocked = true
			unlocked = true
		}
	}

	return CalibrationResult{Proficiency: p, Boost: updated - current, UnlockedAdvanced: unlocked}
}
