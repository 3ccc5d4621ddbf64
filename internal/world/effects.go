package world

import (
	"time"

	"github.com/nidhogg/agora-world/internal/action"
	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/gear"
	"github.com/nidhogg/agora-world/internal/rng"
)

// discoveredProficiency is the starting proficiency for a tool that
// turns up during a diagnostic.
const discoveredProficiency = 10

// ApplyOutcome settles the chosen action against the decision: the
// reward table's need restore and energy delta, contest bookkeeping,
// and the tool side-effects of practice, calibration, and diagnostics.
// Contested actions spend the energy either way but grant the need
// restore and the win only on a successful roll.
func ApplyOutcome(src rng.Source, snap Snapshot, d Decision, now time.Time) Decision {
	if d.Chosen == nil {
		return d
	}

	reward := action.RewardFor(d.Chosen.Kind)
	d.State.Energy = agent.Clamp(d.State.Energy-reward.EnergyCost, 0, 100)
	if d.Roll == nil || d.Roll.Succeeded {
		d.State.Needs = agent.SetNeed(d.State.Needs, reward.Need,
			d.State.NeedValue(reward.Need)+reward.NeedDelta)
		if d.Roll != nil {
			d.State.ContestsWon++
		}
	}

	switch d.Chosen.Kind {
	case agent.ActionPractice:
		if i := profIndex(d.Proficiencies, d.Chosen.TargetID); i >= 0 {
			res := gear.Practice(d.State, snap.Tools[d.Chosen.TargetID],
				d.Proficiencies[i], d.Proficiencies, now)
			d.Proficiencies[i] = res.Proficiency
		}
	case agent.ActionCalibrate:
		if i := profIndex(d.Proficiencies, d.Chosen.TargetID); i >= 0 {
			res := gear.Calibrate(src, d.State, d.Proficiencies[i], now)
			d.Proficiencies[i] = res.Proficiency
		}
	case agent.ActionDiagnostic:
		diag := gear.Diagnose(src, d.State, snap.Tools, d.Proficiencies, snap.Discoverable, now)
		stamp := now
		d.State.LastDiagnostic = &stamp
		for _, id := range diag.Discovered {
			d.Proficiencies = append(d.Proficiencies, gear.Proficiency{
				ToolID:      id,
				AgentID:     d.State.ID,
				Proficiency: discoveredProficiency,
				Condition:   gear.ConditionFor(discoveredProficiency),
			})
		}
	}

	return d
}

func profIndex(profs []gear.Proficiency, toolID string) int {
	for i, p := range profs {
		if p.ToolID == toolID {
			return i
		}
	}
	return -1
}

// LastAction scans a newest-first memory list for the most recent action
// entry and returns its kind, or "" when none is recorded. Action
// entries carry the kind as their first tag.
func LastAction(memories []agent.MemoryEntry) agent.ActionKind {
	for _, m := range memories {
		if m.SourceType == "action" && len(m.Tags) > 0 {
			return agent.ActionKind(m.Tags[0])
		}
	}
	return ""
}
