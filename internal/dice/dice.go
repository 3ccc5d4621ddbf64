// Package dice implements the contest roll: a uniform 1-100 roll shifted
// by named modifiers derived from the agent's skills, traits, standing,
// fatigue, momentum, and tool readiness.
package dice

import (
	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/rng"
)

// Threshold is the final value a roll must reach to succeed.
const Threshold = 50

// Roll records one resolved contest roll.
type Roll struct {
	RollValue  int            `json:"roll_value"` // raw 1-100
	Modifiers  map[string]int `json:"modifiers"`
	FinalValue int            `json:"final_value"` // clamped 1-100
	Threshold  int            `json:"threshold"`
	Succeeded  bool           `json:"succeeded"`
}

// Resolve produces a modified roll for an action kind. All modifiers are
// additive; extras are merged in under their own names. The final value
// is clamped to [1,100] no matter how extreme the modifiers get.
func Resolve(src rng.Source, s agent.State, kind agent.ActionKind, extra map[string]int) Roll {
	mods := make(map[string]int)

	if pts := s.SkillPoints(kind); pts != 0 {
		mods["skill"] = pts * 3
	}
	if tv := s.TraitValue(agent.TraitFor(kind)); tv != 0 {
		mods["trait"] = tv / 10
	}
	if rep := agent.Clamp(s.Reputation, 0, 100); rep > 60 {
		mods["reputation"] = (rep - 50) / 5
	}
	if s.Energy < 30 {
		mods["fatigue"] = -10
	}
	if s.ContestsWon > 0 {
		momentum := s.ContestsWon * 2
		if momentum > 10 {
			momentum = 10
		}
		mods["momentum"] = momentum
	}
	switch ready := agent.Clamp(s.ToolReadiness, 0, 100); {
	case ready < 40:
		mods["tool_readiness"] = -15
	case ready < 60:
		mods["tool_readiness"] = -8
	case ready >= 90:
		mods["tool_readiness"] = 5
	}
	for name, v := range extra {
		mods[name] = v
	}

	raw := src.Intn(100) + 1
	final := raw
	for _, v := range mods {
		final += v
	}
	final = agent.Clamp(final, 1, 100)

	return Roll{
		RollValue:  raw,
		Modifiers:  mods,
		FinalValue: final,
		Threshold:  Threshold,
		Succeeded:  final >= Threshold,
	}
}
