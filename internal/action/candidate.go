// Package action enumerates legal action candidates for an agent each
// tick, scores them with the utility formula, and selects one by
// weighted draw from the top bucket.
package action

import "github.com/nidhogg/agora-world/internal/agent"

// Candidate is a proposed action before contextual scoring.
type Candidate struct {
	Kind      agent.ActionKind `json:"kind"`
	TargetID  string           `json:"target_id,omitempty"` // room or agent id
	Label     string           `json:"label"`
	BaseScore float64          `json:"base_score"`
	Need      agent.Need       `json:"need"`
	Trait     agent.Trait      `json:"trait"`
	Cost      int              `json:"cost"` // action points
	Mandatory bool             `json:"mandatory,omitempty"`
}

// baseCosts is the static per-kind action-point cost table.
var baseCosts = map[agent.ActionKind]int{
	agent.ActionDiary:       1,
	agent.ActionRest:        0,
	agent.ActionStrategize:  2,
	agent.ActionVisitRoom:   1,
	agent.ActionReadBoard:   1,
	agent.ActionPostBoard:   2,
	agent.ActionCompete:     3,
	agent.ActionChallenge:   3,
	agent.ActionChat:        1,
	agent.ActionCollaborate: 2,
	agent.ActionInvestigate: 2,
	agent.ActionVote:        1,
	agent.ActionDiagnostic:  1,
	agent.ActionPractice:    2,
	agent.ActionCalibrate:   1,
}

// Reward describes the state changes the caller applies after an action
// resolves: a need restoration plus an energy delta.
type Reward struct {
	Need       agent.Need `json:"need"`
	NeedDelta  int        `json:"need_delta"`
	EnergyCost int        `json:"energy_cost"`
}

// rewards is the static per-kind reward table.
var rewards = map[agent.ActionKind]Reward{
	agent.ActionDiary:       {agent.NeedCreativity, 12, 2},
	agent.ActionRest:        {agent.NeedSafety, 8, -30}, // rest restores energy
	agent.ActionStrategize:  {agent.NeedPower, 10, 4},
	agent.ActionVisitRoom:   {agent.NeedInformation, 8, 3},
	agent.ActionReadBoard:   {agent.NeedInformation, 12, 2},
	agent.ActionPostBoard:   {agent.NeedCreativity, 10, 4},
	agent.ActionCompete:     {agent.NeedPower, 18, 10},
	agent.ActionChallenge:   {agent.NeedPower, 15, 8},
	agent.ActionChat:        {agent.NeedSocial, 15, 3},
	agent.ActionCollaborate: {agent.NeedSocial, 12, 5},
	agent.ActionInvestigate: {agent.NeedInformation, 15, 5},
	agent.ActionVote:        {agent.NeedPower, 8, 2},
	agent.ActionDiagnostic:  {agent.NeedSafety, 6, 2},
	agent.ActionPractice:    {agent.NeedResources, 10, 6},
	agent.ActionCalibrate:   {agent.NeedSafety, 5, 3},
}

// RewardFor returns the reward entry for a kind.
func RewardFor(kind agent.ActionKind) Reward {
	return rewards[kind]
}

// Cost computes the action-point cost for an agent performing a kind.
// Skill allocation discounts the cost (one point per two skill points),
// floored at 1 — except when the base cost is exactly 0, which stays 0.
func Cost(s agent.State, kind agent.ActionKind) int {
	base := baseCosts[kind]
	if base == 0 {
		return 0
	}
	cost := base - s.SkillPoints(kind)/2
	if cost < 1 {
		cost = 1
	}
	return cost
}
