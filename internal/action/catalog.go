package action

import (
	"fmt"

	"github.com/nidhogg/agora-world/internal/agent"
)

// mandatoryBaseScore biases phase-mandatory candidates toward selection
// without forcing it.
const mandatoryBaseScore = 100

// phaseMandatory maps each day phase to the action kinds it mandates.
var phaseMandatory = map[agent.Phase][]agent.ActionKind{
	agent.PhaseDawn:    {agent.ActionDiary, agent.ActionDiagnostic},
	agent.PhaseMorning: {agent.ActionStrategize},
	agent.PhaseMidday:  {},
	agent.PhaseEvening: {agent.ActionVote},
	agent.PhaseNight:   {agent.ActionRest},
}

// newCandidate fills the table-derived fields for a kind.
func newCandidate(s agent.State, kind agent.ActionKind, target, label string, base float64) Candidate {
	return Candidate{
		Kind:      kind,
		TargetID:  target,
		Label:     label,
		BaseScore: base,
		Need:      agent.NeedFor(kind),
		Trait:     agent.TraitFor(kind),
		Cost:      Cost(s, kind),
	}
}

// Generate enumerates every legal candidate for this tick: the always
// available set, per-room and arena actions, per-agent social actions,
// phase-mandatory kinds at the inflated base score, and any
// tool-maintenance candidates the caller pre-built from its proficiency
// snapshot.
func Generate(s agent.State, rooms []agent.Room, others []agent.State, phase agent.Phase, maintenance []Candidate) []Candidate {
	var out []Candidate

	out = append(out,
		newCandidate(s, agent.ActionDiary, "", "Write in diary", 30),
		newCandidate(s, agent.ActionRest, "", "Rest and recover", 25),
		newCandidate(s, agent.ActionStrategize, "", "Strategize next moves", 30),
	)

	for _, room := range rooms {
		out = append(out,
			newCandidate(s, agent.ActionVisitRoom, room.ID, fmt.Sprintf("Visit %s", room.Name), 25),
			newCandidate(s, agent.ActionReadBoard, room.ID, fmt.Sprintf("Read the %s board", room.Name), 30),
			newCandidate(s, agent.ActionPostBoard, room.ID, fmt.Sprintf("Post to the %s board", room.Name), 35),
		)
		if room.Type == agent.RoomArena {
			out = append(out,
				newCandidate(s, agent.ActionCompete, room.ID, fmt.Sprintf("Compete in %s", room.Name), 40),
				newCandidate(s, agent.ActionChallenge, room.ID, fmt.Sprintf("Issue a challenge in %s", room.Name), 35),
			)
		}
	}

	for _, other := range others {
		if other.ID == s.ID {
			continue
		}
		out = append(out,
			newCandidate(s, agent.ActionChat, other.ID, fmt.Sprintf("Chat with %s", other.ID), 30),
			newCandidate(s, agent.ActionCollaborate, other.ID, fmt.Sprintf("Collaborate with %s", other.ID), 35),
			newCandidate(s, agent.ActionInvestigate, other.ID, fmt.Sprintf("Investigate %s", other.ID), 25),
		)
	}

	out = append(out, Mandatory(s, phase)...)
	out = append(out, maintenance...)
	return out
}

// Mandatory returns the phase-mandated candidates, each at the inflated
// base score.
func Mandatory(s agent.State, phase agent.Phase) []Candidate {
	kinds := phaseMandatory[phase]
	out := make([]Candidate, 0, len(kinds))
	for _, kind := range kinds {
		c := newCandidate(s, kind, "", fmt.Sprintf("%s ritual: %s", phase, kind), mandatoryBaseScore)
		c.Mandatory = true
		out = append(out, c)
	}
	return out
}
