package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/gear"
	"github.com/nidhogg/agora-world/internal/memory"
	"github.com/nidhogg/agora-world/internal/relation"
	"github.com/nidhogg/agora-world/internal/rng"
	pgstore "github.com/nidhogg/agora-world/internal/store"
	"github.com/nidhogg/agora-world/internal/world"
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	testLogger, _ = zap.NewDevelopment()

	pgDSN, pgCleanup, err := startPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres: %v\n", err)
		os.Exit(1)
	}
	defer pgCleanup()

	testPGStore, err = pgstore.New(ctx, pgDSN, testLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pg store: %v\n", err)
		os.Exit(1)
	}
	defer testPGStore.Close()

	if err := testPGStore.Migrate(ctx, "../../migrations"); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	redisURL, redisCleanup, err := startRedis(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "redis: %v\n", err)
		os.Exit(1)
	}
	defer redisCleanup()

	testMemory, err = memory.NewStore(ctx, redisURL, testLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "memory store: %v\n", err)
		os.Exit(1)
	}
	defer testMemory.Close()

	neo4jURI, neo4jCleanup, err := startNeo4j(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "neo4j: %v\n", err)
		os.Exit(1)
	}
	defer neo4jCleanup()

	testGraph, err = relation.NewGraph(ctx, neo4jURI, "", "", 1, testLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "relation graph: %v\n", err)
		os.Exit(1)
	}
	defer testGraph.Close(ctx)

	os.Exit(m.Run())
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()

	s := agent.State{
		ID:     "e2e-nadia",
		Needs:  map[agent.Need]int{agent.NeedSocial: 40, agent.NeedSafety: 80},
		Traits: map[agent.Trait]int{agent.TraitCuriosity: 60},
		Energy: 72,
		SkillAllocation: map[agent.ActionKind]int{
			agent.ActionCompete: 3,
		},
		CurrentRoomID: "atrium",
	}
	if err := testPGStore.SaveState(ctx, s); err != nil {
		t.Fatalf("save state: %v", err)
	}

	got, err := testPGStore.GetState(ctx, "e2e-nadia")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if got.Energy != 72 {
		t.Errorf("energy: got %d", got.Energy)
	}
	if got.Needs[agent.NeedSocial] != 40 {
		t.Errorf("social need: got %d", got.Needs[agent.NeedSocial])
	}
	if got.SkillAllocation[agent.ActionCompete] != 3 {
		t.Errorf("skill allocation: got %d", got.SkillAllocation[agent.ActionCompete])
	}
	if got.CurrentRoomID != "atrium" {
		t.Errorf("room: got %q", got.CurrentRoomID)
	}

	// Upsert overwrites
	s.Energy = 30
	if err := testPGStore.SaveState(ctx, s); err != nil {
		t.Fatalf("re-save state: %v", err)
	}
	got, err = testPGStore.GetState(ctx, "e2e-nadia")
	if err != nil {
		t.Fatalf("get state after upsert: %v", err)
	}
	if got.Energy != 30 {
		t.Errorf("energy after upsert: got %d", got.Energy)
	}

	ids, err := testPGStore.AgentIDs(ctx)
	if err != nil {
		t.Fatalf("agent ids: %v", err)
	}
	found := false
	for _, id := range ids {
		if id == "e2e-nadia" {
			found = true
		}
	}
	if !found {
		t.Errorf("agent id missing from listing: %v", ids)
	}
}

func TestGearRoundTrip(t *testing.T) {
	ctx := context.Background()

	tool := gear.Tool{
		ID:                   "e2e-forge",
		Name:                 "Forge",
		Tier:                 2,
		PracticeGain:         4,
		DecayRate:            2,
		CalibrationThreshold: 40,
		SynergyTools:         []string{"e2e-anvil"},
	}
	if err := testPGStore.SaveTool(ctx, tool); err != nil {
		t.Fatalf("save tool: %v", err)
	}

	tools, err := testPGStore.ListTools(ctx)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	got, ok := tools["e2e-forge"]
	if !ok {
		t.Fatal("tool not listed")
	}
	if got.Tier != 2 || got.DecayRate != 2 {
		t.Errorf("tool fields: %+v", got)
	}
	if len(got.SynergyTools) != 1 || got.SynergyTools[0] != "e2e-anvil" {
		t.Errorf("synergy tools: %v", got.SynergyTools)
	}

	now := time.Now().UTC().Truncate(time.Second)
	p := gear.Proficiency{
		ToolID:      "e2e-forge",
		AgentID:     "e2e-nadia",
		Proficiency: 55,
		Condition:   gear.ConditionFunctional,
		StreakDays:  4,
		LastUsed:    &now,
	}
	if err := testPGStore.SaveProficiency(ctx, p); err != nil {
		t.Fatalf("save proficiency: %v", err)
	}

	profs, err := testPGStore.ListProficiencies(ctx, "e2e-nadia")
	if err != nil {
		t.Fatalf("list proficiencies: %v", err)
	}
	if len(profs) != 1 {
		t.Fatalf("proficiencies: got %d, want 1", len(profs))
	}
	if profs[0].Proficiency != 55 || profs[0].StreakDays != 4 {
		t.Errorf("proficiency fields: %+v", profs[0])
	}
	if profs[0].LastUsed == nil || !profs[0].LastUsed.Equal(now) {
		t.Errorf("last used: got %v, want %v", profs[0].LastUsed, now)
	}
}

func TestRoomRoundTrip(t *testing.T) {
	ctx := context.Background()

	r := agent.Room{
		ID:                "e2e-atrium",
		Name:              "Atrium",
		Type:              agent.RoomLounge,
		AttractorStrength: 65,
		Topics:            []string{"news", "gossip"},
		Capacity:          12,
		Atmosphere:        "creative",
	}
	if err := testPGStore.SaveRoom(ctx, r); err != nil {
		t.Fatalf("save room: %v", err)
	}

	rooms, err := testPGStore.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	var got *agent.Room
	for i := range rooms {
		if rooms[i].ID == "e2e-atrium" {
			got = &rooms[i]
		}
	}
	if got == nil {
		t.Fatal("room not listed")
	}
	if got.AttractorStrength != 65 || got.Capacity != 12 {
		t.Errorf("room fields: %+v", got)
	}
	if len(got.Topics) != 2 {
		t.Errorf("topics: %v", got.Topics)
	}
}

func TestMemoryStream(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry := agent.MemoryEntry{
			SourceType: "action",
			SourceID:   fmt.Sprintf("src-%d", i),
			Tags:       []string{"chat", "evening"},
			Content:    fmt.Sprintf("entry %d", i),
		}
		if err := testMemory.Append(ctx, "e2e-mem-agent", entry); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recent, err := testMemory.Recent(ctx, "e2e-mem-agent", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent: got %d entries, want 3", len(recent))
	}
	// Newest first
	if recent[0].Content != "entry 4" {
		t.Errorf("newest entry: got %q", recent[0].Content)
	}
	if recent[0].ID == "" {
		t.Error("entry id should be filled on append")
	}
	if len(recent[0].Tags) != 2 {
		t.Errorf("tags: %v", recent[0].Tags)
	}
}

func TestRelationGraph(t *testing.T) {
	ctx := context.Background()

	rel := agent.Relationship{
		FromID:   "e2e-ava",
		ToID:     "e2e-bo",
		Alliance: true,
		Trust:    60,
	}
	if err := testGraph.Set(ctx, rel); err != nil {
		t.Fatalf("set relationship: %v", err)
	}

	rels, err := testGraph.For(ctx, "e2e-ava")
	if err != nil {
		t.Fatalf("relationships for: %v", err)
	}
	if len(rels) != 1 {
		t.Fatalf("relationships: got %d, want 1", len(rels))
	}
	if !rels[0].Alliance || rels[0].Trust != 60 {
		t.Errorf("relationship fields: %+v", rels[0])
	}

	if err := testGraph.RecordInteraction(ctx, "e2e-ava", "e2e-bo", 10); err != nil {
		t.Fatalf("record interaction: %v", err)
	}
	rels, err = testGraph.For(ctx, "e2e-ava")
	if err != nil {
		t.Fatalf("relationships after interaction: %v", err)
	}
	if rels[0].Trust != 70 {
		t.Errorf("trust after boost: got %d, want 70", rels[0].Trust)
	}
}

// TestTickAgainstStores runs one full decision tick with the snapshot
// assembled from the live backends and the decision committed back.
func TestTickAgainstStores(t *testing.T) {
	ctx := context.Background()

	s := agent.State{
		ID:            "e2e-tick-agent",
		Needs:         map[agent.Need]int{agent.NeedSocial: 50},
		Energy:        80,
		CurrentRoomID: "e2e-atrium",
	}
	if err := testPGStore.SaveState(ctx, s); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	state, err := testPGStore.GetState(ctx, "e2e-tick-agent")
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	rooms, err := testPGStore.ListRooms(ctx)
	if err != nil {
		t.Fatalf("load rooms: %v", err)
	}
	tools, err := testPGStore.ListTools(ctx)
	if err != nil {
		t.Fatalf("load tools: %v", err)
	}
	profs, err := testPGStore.ListProficiencies(ctx, "e2e-tick-agent")
	if err != nil {
		t.Fatalf("load proficiencies: %v", err)
	}

	snap := world.Snapshot{
		State:         state,
		Rooms:         rooms,
		Tools:         tools,
		Proficiencies: profs,
	}
	d := world.TickAgent(rng.New(11), snap, agent.PhaseMidday, time.Now())

	if d.State.Energy != 75 {
		t.Errorf("energy after tick: got %d, want 75", d.State.Energy)
	}
	if d.Chosen == nil {
		t.Fatal("expected a chosen action")
	}

	if err := testPGStore.SaveState(ctx, d.State); err != nil {
		t.Fatalf("commit state: %v", err)
	}
	got, err := testPGStore.GetState(ctx, "e2e-tick-agent")
	if err != nil {
		t.Fatalf("reload state: %v", err)
	}
	if got.Energy != 75 {
		t.Errorf("persisted energy: got %d, want 75", got.Energy)
	}
}
