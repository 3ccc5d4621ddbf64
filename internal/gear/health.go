package gear

import (
	"fmt"
	"sort"
	"time"
)

// fadeAfter marks a tool as losing muscle memory when unused this long.
const fadeAfter = 24 * time.Hour

// HealthReport aggregates an agent's instrument condition.
type HealthReport struct {
	Overall         int      `json:"overall"` // tier-weighted 0-100
	CriticalTools   []string `json:"critical_tools"`
	AttentionTools  []string `json:"attention_tools"`
	FadingTools     []string `json:"fading_tools"`
	Recommendations []string `json:"recommendations"`
}

// OverallHealth computes the tier-weighted average proficiency. Higher
// tier tools influence the score more. An empty set is a valid state and
// reports a neutral 50.
func OverallHealth(tools map[string]Tool, profs []Proficiency) int {
	weightSum := 0
	total := 0
	for _, p := range profs {
		tier := 1
		if t, ok := tools[p.ToolID]; ok && t.Tier > 0 {
			tier = t.Tier
		}
		total += clampProficiency(p.Proficiency) * tier
		weightSum += tier
	}
	if weightSum == 0 {
		return 50
	}
	return total / weightSum
}

// Health builds the aggregate report: overall score, flags for critical
// (<20) and attention (<40) tools, fading flags for tools unused past a
// day, and recommendations ordered with critical issues first.
func Health(tools map[string]Tool, profs []Proficiency, now time.Time) HealthReport {
	report := HealthReport{Overall: OverallHealth(tools, profs)}

	sorted := make([]Proficiency, len(profs))
	copy(sorted, profs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Proficiency < sorted[j].Proficiency
	})

	for _, p := range sorted {
		name := toolName(tools, p.ToolID)
		prof := clampProficiency(p.Proficiency)
		switch {
		case prof < 20:
			report.CriticalTools = append(report.CriticalTools, p.ToolID)
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("%s is nearly unusable — practice it before anything else", name))
		case prof < 40:
			report.AttentionTools = append(report.AttentionTools, p.ToolID)
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("%s needs attention soon", name))
		}
	}

	for _, p := range sorted {
		if p.LastUsed != nil && now.Sub(*p.LastUsed) > fadeAfter {
			report.FadingTools = append(report.FadingTools, p.ToolID)
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("%s has gone unused for over a day — muscle memory is fading", toolName(tools, p.ToolID)))
		}
	}

	return report
}

func toolName(tools map[string]Tool, id string) string {
	if t, ok := tools[id]; ok && t.Name != "" {
		return t.Name
	}
	return id
}
