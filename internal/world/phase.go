package world

import (
	"time"

	"github.com/nidhogg/agora-world/internal/agent"
)

// PhaseOf derives the five-valued day phase from a world time.
func PhaseOf(t time.Time) agent.Phase {
	switch h := t.Hour(); {
	case h >= 5 && h < 9:
		return agent.PhaseDawn
	case h >= 9 && h < 12:
		return agent.PhaseMorning
	case h >= 12 && h < 17:
		return agent.PhaseMidday
	case h >= 17 && h < 22:
		return agent.PhaseEvening
	default:
		return agent.PhaseNight
	}
}
