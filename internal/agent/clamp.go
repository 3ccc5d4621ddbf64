package agent

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NeedValue returns a need clamped to [0,100], falling back to the
// per-need default when absent.
func (s State) NeedValue(n Need) int {
	if s.Needs != nil {
		if v, ok := s.Needs[n]; ok {
			return Clamp(v, 0, 100)
		}
	}
	return needDefaults[n]
}

// TraitValue returns a trait clamped to [-100,100], falling back to the
// per-trait default when absent.
func (s State) TraitValue(t Trait) int {
	if s.Traits != nil {
		if v, ok := s.Traits[t]; ok {
			return Clamp(v, -100, 100)
		}
	}
	return traitDefaults[t]
}

// SkillPoints returns the skill allocation for an action kind.
func (s State) SkillPoints(kind ActionKind) int {
	if s.SkillAllocation == nil {
		return 0
	}
	return s.SkillAllocation[kind]
}

// SetNeed returns a copy of the needs map with n clamped into [0,100].
// Update paths always clamp, never merely add.
func SetNeed(needs map[Need]int, n Need, v int) map[Need]int {
	out := make(map[Need]int, len(needs)+1)
	for k, val := range needs {
		out[k] = val
	}
	out[n] = Clamp(v, 0, 100)
	return out
}

// SetTrait returns a copy of the traits map with t clamped into [-100,100].
func SetTrait(traits map[Trait]int, t Trait, v int) map[Trait]int {
	out := make(map[Trait]int, len(traits)+1)
	for k, val := range traits {
		out[k] = val
	}
	out[t] = Clamp(v, -100, 100)
	return out
}
