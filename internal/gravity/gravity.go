// Package gravity scores rooms for attractiveness: a boids-style mix of
// static pull, topic affinity, social pull, curiosity, type and
// atmosphere resonance, and crowding. Pure and order-independent — each
// room's score never depends on another room's.
package gravity

import (
	"fmt"
	"sort"

	"github.com/nidhogg/agora-world/internal/agent"
)

// RoomScore is one room's gravitation result with human-readable reasons.
type RoomScore struct {
	RoomID  string   `json:"room_id"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// Rank scores every room for the agent and returns them sorted
// descending. Scores are floored at 0 even when every penalty applies.
func Rank(s agent.State, rooms []agent.Room, others []agent.State, rels []agent.Relationship, memories []agent.MemoryEntry) []RoomScore {
	allies := make(map[string]bool)
	trusted := make(map[string]bool)
	rivals := make(map[string]bool)
	for _, r := range rels {
		if r.FromID != s.ID {
			continue
		}
		if r.Alliance {
			allies[r.ToID] = true
		}
		if r.Rivalry {
			rivals[r.ToID] = true
		}
		if r.Trust > 70 {
			trusted[r.ToID] = true
		}
	}

	explored := make(map[string]bool)
	for _, m := range memories {
		for _, tag := range m.Tags {
			explored[tag] = true
		}
		if m.SourceType == "room" {
			explored[m.SourceID] = true
		}
	}

	occupants := make(map[string][]string)
	for _, o := range others {
		if o.ID == s.ID || o.CurrentRoomID == "" {
			continue
		}
		occupants[o.CurrentRoomID] = append(occupants[o.CurrentRoomID], o.ID)
	}

	out := make([]RoomScore, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, scoreRoom(s, room, occupants[room.ID], allies, trusted, rivals, explored))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func scoreRoom(s agent.State, room agent.Room, present []string, allies, trusted, rivals, explored map[string]bool) RoomScore {
	score := 0.0
	var reasons []string

	if pull := float64(agent.Clamp(room.AttractorStrength, 0, 100)) / 5.0; pull > 0 {
		score += pull
		reasons = append(reasons, fmt.Sprintf("drawn by the room's pull (+%.0f)", pull))
	}

	for _, topic := range room.Topics {
		if aff, ok := s.Proclivities[topic]; ok && aff != 0 {
			score += float64(aff) * 2.0
			reasons = append(reasons, fmt.Sprintf("interested in %s (%+d)", topic, aff*2))
		}
	}

	aggression := s.TraitValue(agent.TraitAggression)
	for _, id := range present {
		switch {
		case allies[id]:
			score += 15
			reasons = append(reasons, fmt.Sprintf("ally %s is here (+15)", id))
		case trusted[id]:
			score += 10
			reasons = append(reasons, fmt.Sprintf("trusts %s (+10)", id))
		case rivals[id]:
			if aggression > 50 {
				score += 5
				reasons = append(reasons, fmt.Sprintf("wants to confront rival %s (+5)", id))
			} else {
				score -= 10
				reasons = append(reasons, fmt.Sprintf("avoiding rival %s (-10)", id))
			}
		}
	}

	if !explored[room.ID] {
		// Incurious agents are repelled by the unknown, so the term can
		// go negative. The floor at 0 below still bounds the total.
		curiosity := float64(s.TraitValue(agent.TraitCuriosity)) / 100.0 * 20.0
		score += curiosity
		reasons = append(reasons, fmt.Sprintf("never explored this room (%+.0f)", curiosity))
	}

	typeScore := typeAffinity(s, room.Type)
	score += typeScore
	reasons = append(reasons, fmt.Sprintf("fits a %s (+%.0f)", room.Type, typeScore))

	creativity := s.TraitValue(agent.TraitCreativity)
	strategy := s.TraitValue(agent.TraitStrategy)
	if room.Atmosphere == "creative" && creativity > 60 {
		score += 8
		reasons = append(reasons, "thrives in the creative atmosphere (+8)")
	}
	if room.Atmosphere == "tense" && strategy > 60 {
		score += 5
		reasons = append(reasons, "reads the tense atmosphere (+5)")
	}

	if room.Capacity > 0 && len(present) > room.Capacity*8/10 {
		score -= 10
		reasons = append(reasons, "too crowded (-10)")
	}

	if score < 0 {
		score = 0
	}
	return RoomScore{RoomID: room.ID, Score: score, Reasons: reasons}
}

// typeAffinity is the fixed per-room-type trait function. Unlisted types
// get a flat 5.
func typeAffinity(s agent.State, t agent.RoomType) float64 {
	switch t {
	case agent.RoomLibrary:
		return float64(s.TraitValue(agent.TraitCuriosity)) * 12.0 / 100.0
	case agent.RoomArena:
		return float64(s.TraitValue(agent.TraitAggression)+100) / 200.0 * 10.0
	case agent.RoomWorkshop:
		return float64(s.TraitValue(agent.TraitCreativity)) * 10.0 / 100.0
	case agent.RoomLab:
		return float64(s.TraitValue(agent.TraitCuriosity)) * 10.0 / 100.0
	case agent.RoomStage:
		return float64(s.TraitValue(agent.TraitSociality)+100) / 200.0 * 8.0
	case agent.RoomCouncil:
		return float64(s.TraitValue(agent.TraitStrategy)) * 10.0 / 100.0
	default:
		return 5
	}
}
