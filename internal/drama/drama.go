// Package drama is the storyteller: it watches the world's tension level
// and proposes at most one narrative event per check to push tension
// back toward the target band. Applying an event's trait shifts is a
// separate pure operation the caller invokes if it accepts the event.
package drama

import (
	"github.com/google/uuid"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/rng"
)

// EventType labels a proposed narrative event.
type EventType string

const (
	EventCrisis       EventType = "crisis"
	EventTwist        EventType = "twist"
	EventChallenge    EventType = "challenge"
	EventSocial       EventType = "social"
	EventCalm         EventType = "calm"
	EventResolution   EventType = "resolution"
	EventCelebration  EventType = "celebration"
	EventPowerShuffle EventType = "power_shuffle"
)

// Event is a proposed narrative intervention. ChaosLevel is the signed
// tension delta the caller applies when it accepts the event.
type Event struct {
	ID             string              `json:"id"`
	Type           EventType           `json:"type"`
	Headline       string              `json:"headline"`
	TraitShifts    map[agent.Trait]int `json:"trait_shifts"`
	ChaosLevel     int                 `json:"chaos_level"`
	SuggestedPhase agent.Phase         `json:"suggested_phase,omitempty"`
}

// escalationPool is drawn from when tension runs flat.
var escalationPool = []Event{
	{
		Type:        EventCrisis,
		Headline:    "A resource shortage grips the commons",
		TraitShifts: map[agent.Trait]int{agent.TraitAggression: 10, agent.TraitLoyalty: -5},
		ChaosLevel:  25,
	},
	{
		Type:        EventTwist,
		Headline:    "An anonymous post upends a long-held assumption",
		TraitShifts: map[agent.Trait]int{agent.TraitCuriosity: 10, agent.TraitHonesty: -5},
		ChaosLevel:  20,
	},
	{
		Type:           EventChallenge,
		Headline:       "The arena announces an open tournament",
		TraitShifts:    map[agent.Trait]int{agent.TraitAggression: 8, agent.TraitStrategy: 5},
		ChaosLevel:     15,
		SuggestedPhase: agent.PhaseMidday,
	},
	{
		Type:        EventSocial,
		Headline:    "Rumors of a secret alliance start circulating",
		TraitShifts: map[agent.Trait]int{agent.TraitSociality: 8, agent.TraitHonesty: -8},
		ChaosLevel:  18,
	},
}

// reliefPool is drawn from when tension runs hot.
var reliefPool = []Event{
	{
		Type:        EventCalm,
		Headline:    "A quiet evening settles over the rooms",
		TraitShifts: map[agent.Trait]int{agent.TraitAggression: -10},
		ChaosLevel:  -20,
	},
	{
		Type:        EventResolution,
		Headline:    "Two old rivals publicly bury the hatchet",
		TraitShifts: map[agent.Trait]int{agent.TraitLoyalty: 8, agent.TraitAggression: -8},
		ChaosLevel:  -25,
	},
	{
		Type:           EventCelebration,
		Headline:       "The lounge hosts an impromptu celebration",
		TraitShifts:    map[agent.Trait]int{agent.TraitSociality: 10},
		ChaosLevel:     -15,
		SuggestedPhase: agent.PhaseEvening,
	},
}

// powerShuffle is the fixed periodic escalation.
var powerShuffle = Event{
	Type:        EventPowerShuffle,
	Headline:    "Council influence is unexpectedly redistributed",
	TraitShifts: map[agent.Trait]int{agent.TraitStrategy: 10, agent.TraitAggression: 5},
	ChaosLevel:  20,
}

// CheckTension applies the pacing rules in priority order and returns at
// most one proposed event, or nil when no intervention is needed.
// Tension in [20,80] with an off-cadence cycle always returns nil.
func CheckTension(src rng.Source, tension, recentEvents, agentCount, cycle int) *Event {
	tension = agent.Clamp(tension, 0, 100)

	switch {
	case tension < 20 && recentEvents < 2:
		return draw(src, escalationPool)
	case tension > 80:
		return draw(src, reliefPool)
	case cycle > 0 && cycle%5 == 0 && tension < 60:
		ev := powerShuffle
		ev.ID = uuid.New().String()
		return &ev
	default:
		return nil
	}
}

func draw(src rng.Source, pool []Event) *Event {
	ev := pool[src.Intn(len(pool))]
	ev.ID = uuid.New().String()
	return &ev
}

// ApplyTraitShifts adds an event's shifts to the agent's traits, clamping
// each into its declared range, and returns the updated state.
func ApplyTraitShifts(s agent.State, shifts map[agent.Trait]int) agent.State {
	traits := make(map[agent.Trait]int, len(agent.AllTraits))
	for _, t := range agent.AllTraits {
		traits[t] = s.TraitValue(t)
	}
	for t, delta := range shifts {
		traits[t] = agent.Clamp(traits[t]+delta, -100, 100)
	}
	s.Traits = traits
	return s
}
