package agent

// needDecayRates are the fixed per-tick decay amounts for each need.
var needDecayRates = map[Need]int{
	NeedSafety:      2,
	NeedSocial:      5,
	NeedPower:       3,
	NeedResources:   4,
	NeedInformation: 6,
	NeedCreativity:  4,
}

// energyDecayRate is the flat per-tick energy drain.
const energyDecayRate = 5

// DecayTick advances an agent's needs and energy by one tick and returns
// the updated state. Pure: no randomness, no failure mode, results
// clamped to [0,100].
func DecayTick(s State) State {
	needs := make(map[Need]int, len(AllNeeds))
	for _, n := range AllNeeds {
		needs[n] = Clamp(s.NeedValue(n)-needDecayRates[n], 0, 100)
	}
	s.Needs = needs
	s.Energy = Clamp(s.Energy-energyDecayRate, 0, 100)
	return s
}
