package agent

import (
	"math/rand"
	"testing"
)

func TestDecayTickRates(t *testing.T) {
	s := State{
		ID: "ava",
		Needs: map[Need]int{
			NeedSafety:      50,
			NeedSocial:      50,
			NeedPower:       50,
			NeedResources:   50,
			NeedInformation: 50,
			NeedCreativity:  50,
		},
		Energy: 80,
	}

	got := DecayTick(s)

	want := map[Need]int{
		NeedSafety:      48,
		NeedSocial:      45,
		NeedPower:       47,
		NeedResources:   46,
		NeedInformation: 44,
		NeedCreativity:  46,
	}
	for n, w := range want {
		if got.Needs[n] != w {
			t.Errorf("%s: got %d, want %d", n, got.Needs[n], w)
		}
	}
	if got.Energy != 75 {
		t.Errorf("energy: got %d, want 75", got.Energy)
	}
}

func TestDecayTickClampsAtZero(t *testing.T) {
	s := State{
		Needs:  map[Need]int{NeedInformation: 0, NeedSocial: 3},
		Energy: 2,
	}
	got := DecayTick(s)
	if got.Needs[NeedInformation] != 0 {
		t.Errorf("information went negative: %d", got.Needs[NeedInformation])
	}
	if got.Needs[NeedSocial] != 0 {
		t.Errorf("social: got %d, want 0", got.Needs[NeedSocial])
	}
	if got.Energy != 0 {
		t.Errorf("energy: got %d, want 0", got.Energy)
	}
}

func TestDecayTickMissingNeedsUseDefaults(t *testing.T) {
	got := DecayTick(State{})
	// safety defaults to 70, decays by 2
	if got.Needs[NeedSafety] != 68 {
		t.Errorf("safety: got %d, want 68", got.Needs[NeedSafety])
	}
}

// Randomized extreme inputs: every decayed value must stay in range.
func TestDecayTickClampProperty(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		s := State{Needs: make(map[Need]int), Energy: r.Intn(400) - 200}
		for _, n := range AllNeeds {
			s.Needs[n] = r.Intn(400) - 200
		}
		got := DecayTick(s)
		for _, n := range AllNeeds {
			if v := got.Needs[n]; v < 0 || v > 100 {
				t.Fatalf("need %s out of range: %d (input %d)", n, v, s.Needs[n])
			}
		}
		if got.Energy < 0 || got.Energy > 100 {
			t.Fatalf("energy out of range: %d", got.Energy)
		}
	}
}

func TestAccessorsClampAndDefault(t *testing.T) {
	s := State{
		Needs:  map[Need]int{NeedPower: 250},
		Traits: map[Trait]int{TraitAggression: -900},
	}
	if got := s.NeedValue(NeedPower); got != 100 {
		t.Errorf("NeedValue clamp: got %d, want 100", got)
	}
	if got := s.TraitValue(TraitAggression); got != -100 {
		t.Errorf("TraitValue clamp: got %d, want -100", got)
	}
	if got := s.TraitValue(TraitLoyalty); got != 50 {
		t.Errorf("loyalty default: got %d, want 50", got)
	}
	if got := s.TraitValue(TraitAggression); got != -100 {
		t.Errorf("aggression: got %d", got)
	}
	if got := (State{}).TraitValue(TraitAggression); got != 0 {
		t.Errorf("aggression default: got %d, want 0", got)
	}
}

func TestEveryKindHasNeedAndTrait(t *testing.T) {
	for _, kind := range AllActionKinds {
		if _, ok := kindNeed[kind]; !ok {
			t.Errorf("kind %s missing need entry", kind)
		}
		if _, ok := kindTrait[kind]; !ok {
			t.Errorf("kind %s missing trait entry", kind)
		}
	}
}
