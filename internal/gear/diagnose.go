package gear

import (
	"fmt"
	"sort"
	"time"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/rng"
)

// Urgency classifies how badly a tool needs work.
type Urgency string

const (
	UrgencyNone     Urgency = "none"
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// urgencyRank orders urgencies for sorting, critical first.
var urgencyRank = map[Urgency]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
	UrgencyLow:      3,
	UrgencyNone:     4,
}

// ToolFinding is one diagnosed tool.
type ToolFinding struct {
	ToolID         string  `json:"tool_id"`
	Proficiency    int     `json:"proficiency"`
	Urgency        Urgency `json:"urgency"`
	Recommendation string  `json:"recommendation"`
}

// Diagnostic is the full instrument checkup.
type Diagnostic struct {
	Findings    []ToolFinding `json:"findings"`
	Discovered  []string      `json:"discovered,omitempty"` // newly found tool ids
	Overall     int           `json:"overall"`
	Narrative   string        `json:"narrative"`
	PerformedAt time.Time     `json:"performed_at"`
}

// UrgencyFor bands a proficiency value.
func UrgencyFor(proficiency int) Urgency {
	switch {
	case proficiency < 20:
		return UrgencyCritical
	case proficiency < 40:
		return UrgencyHigh
	case proficiency < 60:
		return UrgencyMedium
	case proficiency < 80:
		return UrgencyLow
	default:
		return UrgencyNone
	}
}

// Diagnose inspects every known tool, probabilistically discovers
// workspace tools the agent does not know yet (curious agents find more;
// exotic high-tier tools resist discovery), and produces the aggregate
// health number with a narrative selected by health band.
func Diagnose(src rng.Source, s agent.State, tools map[string]Tool, profs []Proficiency, discoverable []Tool, now time.Time) Diagnostic {
	d := Diagnostic{PerformedAt: now}

	for _, p := range profs {
		prof := clampProficiency(p.Proficiency)
		urgency := UrgencyFor(prof)
		d.Findings = append(d.Findings, ToolFinding{
			ToolID:         p.ToolID,
			Proficiency:    prof,
			Urgency:        urgency,
			Recommendation: recommendation(toolName(tools, p.ToolID), urgency),
		})
	}
	sort.SliceStable(d.Findings, func(i, j int) bool {
		if urgencyRank[d.Findings[i].Urgency] != urgencyRank[d.Findings[j].Urgency] {
			return urgencyRank[d.Findings[i].Urgency] < urgencyRank[d.Findings[j].Urgency]
		}
		return d.Findings[i].Proficiency < d.Findings[j].Proficiency
	})

	known := make(map[string]bool, len(profs))
	for _, p := range profs {
		known[p.ToolID] = true
	}
	curiosity := float64(s.TraitValue(agent.TraitCuriosity)+100) / 200.0
	for _, t := range discoverable {
		if !t.IsDiscoverable || known[t.ID] {
			continue
		}
		tier := t.Tier
		if tier < 1 {
			tier = 1
		}
		chance := curiosity * 0.25 / float64(tier)
		if src.Float64() < chance {
			d.Discovered = append(d.Discovered, t.ID)
		}
	}

	d.Overall = OverallHealth(tools, profs)
	d.Narrative = narrative(d.Overall)
	return d
}

func recommendation(name string, u Urgency) string {
	switch u {
	case UrgencyCritical:
		return fmt.Sprintf("%s is broken down — rebuild proficiency from scratch", name)
	case UrgencyHigh:
		return fmt.Sprintf("%s is dull and slipping — schedule daily practice", name)
	case UrgencyMedium:
		return fmt.Sprintf("%s works but feels clumsy — regular practice would help", name)
	case UrgencyLow:
		return fmt.Sprintf("%s is sharp — a calibration pass would keep it that way", name)
	default:
		return fmt.Sprintf("%s is in pristine shape", name)
	}
}

// narrative picks the health-band paragraph. Richer prose belongs to the
// LLM collaborator; these are the templated fallbacks.
func narrative(overall int) string {
	switch {
	case overall >= 90:
		return "Every instrument hums under your hands. The whole kit feels like an extension of your body."
	case overall >= 70:
		return "Your tools are in solid working order, with only minor roughness at the edges."
	case overall >= 50:
		return "The kit functions, but hesitation creeps in — some instruments no longer answer instantly."
	case overall >= 30:
		return "Neglect shows everywhere. Several tools fight you, and the ones you trust are slipping."
	default:
		return "The workshop is in disrepair. Most instruments have gone strange in your hands."
	}
}
