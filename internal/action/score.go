package action

import (
	"sort"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/rng"
)

// Context bundles the situational snapshot scoring reads. Everything is
// read-only; cross-agent effects arrive pre-captured by the caller.
type Context struct {
	Phase          agent.Phase
	LastActionKind agent.ActionKind // immediately preceding action, if any
	Goals          []agent.Goal
	Relationships  []agent.Relationship // outgoing edges for this agent
	ChaosEvents    []agent.ChaosEvent
	RecentMemories []agent.MemoryEntry
	Present        []string // ids of other agents in the current room
}

// Scored is a candidate with its final utility score.
type Scored struct {
	Candidate
	FinalScore float64 `json:"final_score"`
}

// needUrgency is the non-linear step curve that lets starved needs
// dominate scoring. Low needs must win exponentially, not linearly.
func needUrgency(value int) float64 {
	switch {
	case value >= 80:
		return 0.5
	case value >= 60:
		return 0.8
	case value >= 40:
		return 1.2
	case value >= 20:
		return 2.0
	default:
		return 3.0
	}
}

// personalityWeight maps a trait value in [-100,100] to [0.5,1.5].
func personalityWeight(traitValue int) float64 {
	return 0.5 + float64(traitValue+100)/200.0
}

// situationalModifier accumulates goal, chaos, ally, and memory terms on
// a base of 1.0.
func situationalModifier(c Candidate, ctx Context) float64 {
	mod := 1.0

	for _, g := range ctx.Goals {
		for _, t := range g.RelatedTraits {
			if t == c.Trait {
				mod += 0.3 * float64(g.Weight) / 100.0
				break
			}
		}
	}

	for _, ev := range ctx.ChaosEvents {
		if shift, ok := ev.TraitShifts[c.Trait]; ok {
			mod += float64(shift) / 100.0
		}
	}

	if c.Kind == agent.ActionCollaborate {
		allies := make(map[string]bool)
		for _, r := range ctx.Relationships {
			if r.Alliance {
				allies[r.ToID] = true
			}
		}
		for _, id := range ctx.Present {
			if allies[id] {
				mod += 0.1
			}
		}
	}

	for _, m := range ctx.RecentMemories {
		if memoryMatches(m, c) {
			mod += 0.15
			break
		}
	}

	return mod
}

func memoryMatches(m agent.MemoryEntry, c Candidate) bool {
	for _, tag := range m.Tags {
		if tag == string(c.Kind) || tag == string(c.Need) {
			return true
		}
	}
	return false
}

// Score assigns the utility score to every candidate and returns them
// sorted descending:
//
//	base * urgency * personality * situational * (1+commitment) + noise
//
// Noise is uniform in [-5,+5] and applies to mandatory candidates too,
// so behavior is never perfectly deterministic.
func Score(src rng.Source, s agent.State, ctx Context, candidates []Candidate) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		urgency := needUrgency(s.NeedValue(c.Need))
		weight := personalityWeight(s.TraitValue(c.Trait))
		situational := situationalModifier(c, ctx)

		commitment := 0.0
		if ctx.LastActionKind != "" && ctx.LastActionKind == c.Kind {
			commitment = 0.2
		}

		noise := src.Float64()*10.0 - 5.0
		final := c.BaseScore*urgency*weight*situational*(1.0+commitment) + noise

		out = append(out, Scored{Candidate: c, FinalScore: final})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})
	return out
}

// Select draws one candidate from the top bucket: everything scoring at
// least 0.7x the best, weighted by max(1, score). Returns false when the
// list is empty; the caller decides the fallback (typically resting).
func Select(src rng.Source, scored []Scored) (Scored, bool) {
	if len(scored) == 0 {
		return Scored{}, false
	}

	threshold := 0.7 * scored[0].FinalScore
	bucket := scored[:0:0]
	for _, sc := range scored {
		if sc.FinalScore >= threshold {
			bucket = append(bucket, sc)
		}
	}
	if len(bucket) == 0 {
		bucket = scored[:1]
	}

	total := 0.0
	weights := make([]float64, len(bucket))
	for i, sc := range bucket {
		w := sc.FinalScore
		if w < 1 {
			w = 1
		}
		weights[i] = w
		total += w
	}

	pick := src.Float64() * total
	for i, w := range weights {
		pick -= w
		if pick < 0 {
			return bucket[i], true
		}
	}
	return bucket[len(bucket)-1], true
}
