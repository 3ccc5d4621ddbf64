package gear

import (
	"fmt"
	"time"

	"github.com/nidhogg/agora-world/internal/action"
	"github.com/nidhogg/agora-world/internal/agent"
)

const (
	diagnosticDue    = 6 * time.Hour
	diagnosticUrgent = 24 * time.Hour
)

// MaintenanceCandidates proposes the upkeep actions the catalog merges
// in: a diagnostic when one is due, a practice candidate per known tool
// weighted inversely to proficiency, and a calibration candidate for any
// tool at or past its calibration threshold but not yet at 90.
func MaintenanceCandidates(s agent.State, tools map[string]Tool, profs []Proficiency, now time.Time) []action.Candidate {
	var out []action.Candidate

	elapsed := diagnosticUrgent + time.Hour // never diagnosed yet
	if s.LastDiagnostic != nil {
		elapsed = now.Sub(*s.LastDiagnostic)
	}
	if elapsed > diagnosticDue {
		base := 35.0
		if elapsed > diagnosticUrgent {
			base = 60.0
		}
		out = append(out, candidate(s, agent.ActionDiagnostic, "", "Run a full instrument diagnostic", base))
	}

	for _, p := range profs {
		prof := clampProficiency(p.Proficiency)
		name := toolName(tools, p.ToolID)

		// Urgency scales inversely with proficiency: 0 -> 50, 100 -> 10.
		base := 50.0 - float64(prof)*2.0/5.0
		out = append(out, candidate(s, agent.ActionPractice, p.ToolID,
			fmt.Sprintf("Practice with %s", name), base))

		threshold := 40
		if t, ok := tools[p.ToolID]; ok && t.CalibrationThreshold > 0 {
			threshold = t.CalibrationThreshold
		}
		if prof >= threshold && prof < 90 {
			out = append(out, candidate(s, agent.ActionCalibrate, p.ToolID,
				fmt.Sprintf("Calibrate %s", name), 25))
		}
	}

	return out
}

func candidate(s agent.State, kind agent.ActionKind, target, label string, base float64) action.Candidate {
	return action.Candidate{
		Kind:      kind,
		TargetID:  target,
		Label:     label,
		BaseScore: base,
		Need:      agent.NeedFor(kind),
		Trait:     agent.TraitFor(kind),
		Cost:      action.Cost(s, kind),
	}
}
