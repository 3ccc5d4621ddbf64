package gear

import "math"

// DecayTick atrophies one tool's proficiency for one tick:
//
//	decay = round(rate * neglectMultiplier * (1 - streakResistance))
//
// Neglect compounds: tools already below 30 decay at 1.5x, below 50 at
// 1.2x. Habit resists: each streak day shaves 5%, capped at 50%.
func DecayTick(tool Tool, p Proficiency) Proficiency {
	current := clampProficiency(p.Proficiency)

	neglect := 1.0
	switch {
	case current < 30:
		neglect = 1.5
	case current < 50:
		neglect = 1.2
	}

	resistance := float64(p.StreakDays) * 0.05
	if resistance > 0.5 {
		resistance = 0.5
	}

	decay := int(math.Round(tool.DecayRate * neglect * (1.0 - resistance)))
	if decay < 0 {
		decay = 0
	}

	p.Proficiency = clampProficiency(current - decay)
	p.Condition = ConditionFor(p.Proficiency)
	return p
}

// DecayAll applies DecayTick across an agent's full proficiency list.
// Unknown tool ids decay with a neutral rate of 1.
func DecayAll(tools map[string]Tool, profs []Proficiency) []Proficiency {
	out := make([]Proficiency, len(profs))
	for i, p := range profs {
		tool, ok := tools[p.ToolID]
		if !ok {
			tool = Tool{ID: p.ToolID, DecayRate: 1}
		}
		out[i] = DecayTick(tool, p)
	}
	return out
}
