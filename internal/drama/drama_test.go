package drama

import (
	"testing"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/rng"
)

func TestCheckTensionEscalates(t *testing.T) {
	ev := CheckTension(rng.New(1), 10, 0, 6, 1)
	if ev == nil {
		t.Fatal("expected an escalation event at tension 10")
	}
	if ev.ChaosLevel <= 0 {
		t.Errorf("escalation chaos delta: got %d, want positive", ev.ChaosLevel)
	}
	if ev.ID == "" {
		t.Error("event missing id")
	}
}

func TestCheckTensionSkipsEscalationWhenBusy(t *testing.T) {
	// Recent events already at 2: no pile-on even at low tension.
	if ev := CheckTension(rng.New(1), 10, 2, 6, 1); ev != nil {
		t.Fatalf("expected no event, got %s", ev.Type)
	}
}

func TestCheckTensionRelieves(t *testing.T) {
	ev := CheckTension(rng.New(1), 95, 0, 6, 1)
	if ev == nil {
		t.Fatal("expected a relief event at tension 95")
	}
	if ev.ChaosLevel >= 0 {
		t.Errorf("relief chaos delta: got %d, want negative", ev.ChaosLevel)
	}
}

func TestCheckTensionPowerShuffle(t *testing.T) {
	ev := CheckTension(rng.New(1), 40, 1, 6, 10)
	if ev == nil {
		t.Fatal("expected power shuffle on cycle 10")
	}
	if ev.Type != EventPowerShuffle {
		t.Errorf("got %s, want %s", ev.Type, EventPowerShuffle)
	}
	// Cycle 0 never triggers the shuffle.
	if ev := CheckTension(rng.New(1), 40, 1, 6, 0); ev != nil {
		t.Errorf("cycle 0 proposed %s", ev.Type)
	}
}

// The middle band with an off-cadence cycle is always a no-op.
func TestCheckTensionNoOpBand(t *testing.T) {
	src := rng.New(9)
	for tension := 20; tension <= 80; tension++ {
		for _, cycle := range []int{1, 2, 3, 4, 6, 7, 13} {
			if ev := CheckTension(src, tension, 1, 6, cycle); ev != nil {
				t.Fatalf("tension %d cycle %d proposed %s", tension, cycle, ev.Type)
			}
		}
	}
}

func TestApplyTraitShiftsClamps(t *testing.T) {
	s := agent.State{Traits: map[agent.Trait]int{
		agent.TraitAggression: 95,
		agent.TraitLoyalty:    -95,
	}}
	got := ApplyTraitShifts(s, map[agent.Trait]int{
		agent.TraitAggression: 20,
		agent.TraitLoyalty:    -20,
		agent.TraitCuriosity:  5,
	})

	if got.Traits[agent.TraitAggression] != 100 {
		t.Errorf("aggression: got %d, want 100", got.Traits[agent.TraitAggression])
	}
	if got.Traits[agent.TraitLoyalty] != -100 {
		t.Errorf("loyalty: got %d, want -100", got.Traits[agent.TraitLoyalty])
	}
	// Unset trait shifts apply on top of the default.
	if got.Traits[agent.TraitCuriosity] != 55 {
		t.Errorf("curiosity: got %d, want 55", got.Traits[agent.TraitCuriosity])
	}
	// Original state untouched.
	if s.Traits[agent.TraitAggression] != 95 {
		t.Error("input state mutated")
	}
}

func TestPoolsCarryCorrectSigns(t *testing.T) {
	for _, ev := range escalationPool {
		if ev.ChaosLevel <= 0 {
			t.Errorf("escalation %s has non-positive delta %d", ev.Type, ev.ChaosLevel)
		}
	}
	for _, ev := range reliefPool {
		if ev.ChaosLevel >= 0 {
			t.Errorf("relief %s has non-negative delta %d", ev.Type, ev.ChaosLevel)
		}
	}
}
