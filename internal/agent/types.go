// Package agent defines the data model the decision engine operates on:
// needs, traits, status scalars, and the read-only snapshot types
// (rooms, relationships, memories, goals, chaos events) captured by the
// caller before each tick. Everything here is plain data; the engine
// never performs I/O against these records.
package agent

import "time"

// Need is a decaying drive. Low values make satisfying actions urgent.
type Need string

const (
	NeedSafety      Need = "safety"
	NeedSocial      Need = "social"
	NeedPower       Need = "power"
	NeedResources   Need = "resources"
	NeedInformation Need = "information"
	NeedCreativity  Need = "creativity"
)

// AllNeeds lists every need in a stable order.
var AllNeeds = []Need{
	NeedSafety, NeedSocial, NeedPower,
	NeedResources, NeedInformation, NeedCreativity,
}

// Trait is a stable personality weight in [-100, 100]. Traits are not
// decayed per tick; only chaos events shift them.
type Trait string

const (
	TraitAggression Trait = "aggression"
	TraitLoyalty    Trait = "loyalty"
	TraitHonesty    Trait = "honesty"
	TraitSociality  Trait = "sociality"
	TraitStrategy   Trait = "strategy"
	TraitCreativity Trait = "creativity"
	TraitCuriosity  Trait = "curiosity"
)

// AllTraits lists every trait in a stable order.
var AllTraits = []Trait{
	TraitAggression, TraitLoyalty, TraitHonesty, TraitSociality,
	TraitStrategy, TraitCreativity, TraitCuriosity,
}

// needDefaults are the values a missing need falls back to.
var needDefaults = map[Need]int{
	NeedSafety:      70,
	NeedSocial:      65,
	NeedPower:       45,
	NeedResources:   60,
	NeedInformation: 50,
	NeedCreativity:  55,
}

// traitDefaults are the values a missing trait falls back to.
// Aggression is the only trait that defaults to neutral zero.
var traitDefaults = map[Trait]int{
	TraitAggression: 0,
	TraitLoyalty:    50,
	TraitHonesty:    50,
	TraitSociality:  50,
	TraitStrategy:   50,
	TraitCreativity: 50,
	TraitCuriosity:  50,
}

// ActionKind is the closed enumeration of everything an agent can do.
// Every kind must have an entry in the cost, need, trait, and reward
// tables; the action package tests enforce that exhaustively.
type ActionKind string

const (
	ActionDiary       ActionKind = "diary"
	ActionRest        ActionKind = "rest"
	ActionStrategize  ActionKind = "strategize"
	ActionVisitRoom   ActionKind = "visit_room"
	ActionReadBoard   ActionKind = "read_board"
	ActionPostBoard   ActionKind = "post_board"
	ActionCompete     ActionKind = "compete"
	ActionChallenge   ActionKind = "challenge"
	ActionChat        ActionKind = "chat"
	ActionCollaborate ActionKind = "collaborate"
	ActionInvestigate ActionKind = "investigate"
	ActionVote        ActionKind = "vote"
	ActionDiagnostic  ActionKind = "diagnostic"
	ActionPractice    ActionKind = "practice"
	ActionCalibrate   ActionKind = "calibrate"
)

// AllActionKinds lists every action kind in a stable order.
var AllActionKinds = []ActionKind{
	ActionDiary, ActionRest, ActionStrategize,
	ActionVisitRoom, ActionReadBoard, ActionPostBoard,
	ActionCompete, ActionChallenge,
	ActionChat, ActionCollaborate, ActionInvestigate,
	ActionVote, ActionDiagnostic, ActionPractice, ActionCalibrate,
}

// kindNeed maps each action kind to the need it primarily satisfies.
var kindNeed = map[ActionKind]Need{
	ActionDiary:       NeedCreativity,
	ActionRest:        NeedSafety,
	ActionStrategize:  NeedPower,
	ActionVisitRoom:   NeedInformation,
	ActionReadBoard:   NeedInformation,
	ActionPostBoard:   NeedCreativity,
	ActionCompete:     NeedPower,
	ActionChallenge:   NeedPower,
	ActionChat:        NeedSocial,
	ActionCollaborate: NeedSocial,
	ActionInvestigate: NeedInformation,
	ActionVote:        NeedPower,
	ActionDiagnostic:  NeedSafety,
	ActionPractice:    NeedResources,
	ActionCalibrate:   NeedSafety,
}

// kindTrait maps each action kind to the trait that amplifies it.
var kindTrait = map[ActionKind]Trait{
	ActionDiary:       TraitCreativity,
	ActionRest:        TraitStrategy,
	ActionStrategize:  TraitStrategy,
	ActionVisitRoom:   TraitCuriosity,
	ActionReadBoard:   TraitCuriosity,
	ActionPostBoard:   TraitCreativity,
	ActionCompete:     TraitAggression,
	ActionChallenge:   TraitAggression,
	ActionChat:        TraitSociality,
	ActionCollaborate: TraitLoyalty,
	ActionInvestigate: TraitCuriosity,
	ActionVote:        TraitStrategy,
	ActionDiagnostic:  TraitStrategy,
	ActionPractice:    TraitStrategy,
	ActionCalibrate:   TraitCuriosity,
}

// NeedFor returns the need an action kind primarily satisfies.
func NeedFor(kind ActionKind) Need {
	if n, ok := kindNeed[kind]; ok {
		return n
	}
	return NeedSafety
}

// TraitFor returns the trait that amplifies an action kind.
func TraitFor(kind ActionKind) Trait {
	if t, ok := kindTrait[kind]; ok {
		return t
	}
	return TraitStrategy
}

// Phase is the five-valued day phase the catalog generator keys on.
type Phase string

const (
	PhaseDawn    Phase = "dawn"
	PhaseMorning Phase = "morning"
	PhaseMidday  Phase = "midday"
	PhaseEvening Phase = "evening"
	PhaseNight   Phase = "night"
)

// State is the mutable per-agent record. The engine reads it and
// computes new field values; the caller persists them. Missing map
// entries fall back to the documented defaults.
type State struct {
	ID              string             `json:"agent_id"`
	Needs           map[Need]int       `json:"needs"`
	Traits          map[Trait]int      `json:"traits"`
	Energy          int                `json:"energy"`
	Reputation      int                `json:"reputation"`
	Influence       int                `json:"influence"`
	ContestsWon     int                `json:"contests_won"`
	UpvotesReceived int                `json:"upvotes_received"`
	ToolReadiness   int                `json:"tool_readiness"`
	SkillAllocation map[ActionKind]int `json:"skill_allocation"`
	Proclivities    map[string]int     `json:"proclivities"` // topic -> affinity
	CurrentRoomID   string             `json:"current_room_id"`
	LastDiagnostic  *time.Time         `json:"last_diagnostic,omitempty"`
}

// RoomType categorizes a spatial node.
type RoomType string

const (
	RoomDiscussion RoomType = "discussion"
	RoomWorkshop   RoomType = "workshop"
	RoomArena      RoomType = "arena"
	RoomLounge     RoomType = "lounge"
	RoomLibrary    RoomType = "library"
	RoomLab        RoomType = "lab"
	RoomStage      RoomType = "stage"
	RoomCouncil    RoomType = "council"
)

// Room is a static-ish spatial node agents gravitate toward.
type Room struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Type              RoomType `json:"type"`
	AttractorStrength int      `json:"attractor_strength"` // 0-100
	Topics            []string `json:"topics"`
	Capacity          int      `json:"capacity"`
	Atmosphere        string   `json:"atmosphere"` // e.g. "creative", "tense"
	Color             string   `json:"color,omitempty"`
	Icon              string   `json:"icon,omitempty"`
}

// Relationship is a directed edge between two agents.
type Relationship struct {
	FromID   string `json:"from_agent_id"`
	ToID     string `json:"to_agent_id"`
	Alliance bool   `json:"alliance"`
	Rivalry  bool   `json:"rivalry"`
	Trust    int    `json:"trust"` // 0-100
}

// MemoryEntry is a read-only record used to detect "unexplored room"
// and "relevant recent insight" signals.
type MemoryEntry struct {
	ID         string    `json:"id"`
	SourceType string    `json:"source_type"` // e.g. "room", "agent", "action"
	SourceID   string    `json:"source_id"`
	Tags       []string  `json:"tags"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Goal is an active objective weighted into scoring.
type Goal struct {
	ID            string  `json:"id"`
	Weight        int     `json:"weight"` // 0-100
	RelatedTraits []Trait `json:"related_traits"`
}

// ChaosEvent shifts traits and global tension while active.
type ChaosEvent struct {
	ID             string        `json:"id"`
	TraitShifts    map[Trait]int `json:"trait_shifts"`
	ChaosLevel     int           `json:"chaos_level"` // signed tension delta
	SuggestedPhase Phase         `json:"suggested_phase,omitempty"`
}
