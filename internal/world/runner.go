package world

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/action"
	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/dice"
	"github.com/nidhogg/agora-world/internal/drama"
	"github.com/nidhogg/agora-world/internal/gear"
	"github.com/nidhogg/agora-world/internal/gravity"
	"github.com/nidhogg/agora-world/internal/rng"
)

// Snapshot is everything the engine reads for one agent's tick, captured
// read-only by the caller before invocation.
type Snapshot struct {
	State          agent.State          `json:"state"`
	Rooms          []agent.Room         `json:"rooms,omitempty"`
	Others         []agent.State        `json:"others,omitempty"`
	Relationships  []agent.Relationship `json:"relationships,omitempty"`
	RecentMemories []agent.MemoryEntry  `json:"recent_memories,omitempty"`
	Goals          []agent.Goal         `json:"goals,omitempty"`
	ChaosEvents    []agent.ChaosEvent   `json:"chaos_events,omitempty"`
	Tools          map[string]gear.Tool `json:"tools,omitempty"`
	Proficiencies  []gear.Proficiency   `json:"proficiencies,omitempty"`
	Discoverable   []gear.Tool          `json:"discoverable,omitempty"`
	LastActionKind agent.ActionKind     `json:"last_action_kind,omitempty"`
}

// Decision is one tick's output for one agent: the new state values, the
// decayed proficiencies, the chosen action, and the contest roll when
// the action required one.
type Decision struct {
	AgentID       string             `json:"agent_id"`
	Phase         agent.Phase        `json:"phase"`
	State         agent.State        `json:"state"`
	Proficiencies []gear.Proficiency `json:"proficiencies"`
	Chosen        *action.Scored     `json:"chosen,omitempty"`
	Ranked        []action.Scored    `json:"ranked,omitempty"`
	Roll          *dice.Roll         `json:"roll,omitempty"`
}

// SchedulerContext is the outer loop's mutable state, made explicit:
// it is passed into and returned from drama checks rather than living in
// package-level variables.
type SchedulerContext struct {
	Cycle        int `json:"cycle"`
	Tension      int `json:"tension"`
	RecentEvents int `json:"recent_events"`
	AgentCount   int `json:"agent_count"`
}

// SnapshotFunc captures an agent's read-only snapshot.
type SnapshotFunc func(ctx context.Context, agentID string) (Snapshot, error)

// CommitFunc persists a decision's state deltas.
type CommitFunc func(ctx context.Context, d Decision) error

// ListAgentsFunc returns the ids of every agent to tick.
type ListAgentsFunc func() []string

// EventSink receives accepted narrative events for broadcast.
type EventSink interface {
	Publish(ctx context.Context, ev *drama.Event) error
}

// Runner is a ClockListener that runs the full decision pipeline per
// agent per tick: decay needs, decay gear, enumerate candidates, score,
// select, resolve a contest roll when the chosen action needs one, and
// apply the outcome before committing.
type Runner struct {
	src      rng.Source
	snapshot SnapshotFunc
	commit   CommitFunc
	list     ListAgentsFunc
	events   EventSink

	dramaCadence   int // drama check every N cycles
	gravityCadence int // room-change check every N cycles

	mu      sync.Mutex
	sctx    SchedulerContext
	pending []drama.Event // accepted events applied on the next cycle

	logger *zap.Logger
}

// NewRunner wires a tick runner. events may be nil when no broadcast
// surface is configured.
func NewRunner(src rng.Source, snapshot SnapshotFunc, commit CommitFunc, list ListAgentsFunc, events EventSink, dramaCadence int, logger *zap.Logger) *Runner {
	if dramaCadence <= 0 {
		dramaCadence = 3
	}
	return &Runner{
		src:            src,
		snapshot:       snapshot,
		commit:         commit,
		list:           list,
		events:         events,
		dramaCadence:   dramaCadence,
		gravityCadence: 2,
		logger:         logger,
	}
}

// Context returns a copy of the current scheduler context.
func (r *Runner) Context() SchedulerContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sctx
}

// contested reports whether an action kind is resolved by a dice roll.
func contested(kind agent.ActionKind) bool {
	return kind == agent.ActionCompete || kind == agent.ActionChallenge
}

// TickAgent runs one agent through the pipeline and returns the
// decision. Pure engine calls only; persistence is left to the caller.
func TickAgent(src rng.Source, snap Snapshot, phase agent.Phase, now time.Time) Decision {
	state := agent.DecayTick(snap.State)
	profs := gear.DecayAll(snap.Tools, snap.Proficiencies)

	maintenance := gear.MaintenanceCandidates(state, snap.Tools, profs, now)
	candidates := action.Generate(state, snap.Rooms, snap.Others, phase, maintenance)

	present := make([]string, 0, len(snap.Others))
	for _, o := range snap.Others {
		if o.ID != state.ID && o.CurrentRoomID != "" && o.CurrentRoomID == state.CurrentRoomID {
			present = append(present, o.ID)
		}
	}
	scored := action.Score(src, state, action.Context{
		Phase:          phase,
		LastActionKind: snap.LastActionKind,
		Goals:          snap.Goals,
		Relationships:  snap.Relationships,
		ChaosEvents:    snap.ChaosEvents,
		RecentMemories: snap.RecentMemories,
		Present:        present,
	}, candidates)

	d := Decision{
		AgentID:       state.ID,
		Phase:         phase,
		State:         state,
		Proficiencies: profs,
		Ranked:        scored,
	}

	if chosen, ok := action.Select(src, scored); ok {
		d.Chosen = &chosen
		if contested(chosen.Kind) {
			roll := dice.Resolve(src, state, chosen.Kind, nil)
			d.Roll = &roll
		}
	}
	return d
}

// OnTick implements ClockListener: ticks every agent, commits decisions,
// and runs the drama check on its cadence.
func (r *Runner) OnTick(worldTime time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	phase := PhaseOf(worldTime)
	ids := r.list()

	r.mu.Lock()
	moveRound := (r.sctx.Cycle+1)%r.gravityCadence == 0
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, id := range ids {
		snap, err := r.snapshot(ctx, id)
		if err != nil {
			r.logger.Warn("snapshot failed",
				zap.String("agent", id),
				zap.Error(err))
			continue
		}

		// Last cycle's accepted events land now: traits shift and the
		// chaos context feeds the scorer.
		for _, ev := range pending {
			snap.State = drama.ApplyTraitShifts(snap.State, ev.TraitShifts)
			snap.ChaosEvents = append(snap.ChaosEvents, agent.ChaosEvent{
				ID:             ev.ID,
				TraitShifts:    ev.TraitShifts,
				ChaosLevel:     ev.ChaosLevel,
				SuggestedPhase: ev.SuggestedPhase,
			})
		}

		d := TickAgent(r.src, snap, phase, worldTime)
		d = ApplyOutcome(r.src, snap, d, worldTime)

		// Chosen visits move immediately; otherwise agents drift toward
		// their highest-gravity room on the movement cadence.
		if d.Chosen != nil && d.Chosen.Kind == agent.ActionVisitRoom && d.Chosen.TargetID != "" {
			d.State.CurrentRoomID = d.Chosen.TargetID
		} else if moveRound {
			ranked := gravity.Rank(d.State, snap.Rooms, snap.Others, snap.Relationships, snap.RecentMemories)
			if len(ranked) > 0 && ranked[0].RoomID != d.State.CurrentRoomID {
				r.logger.Debug("agent drifts",
					zap.String("agent", id),
					zap.String("room", ranked[0].RoomID),
					zap.Float64("pull", ranked[0].Score))
				d.State.CurrentRoomID = ranked[0].RoomID
			}
		}

		if err := r.commit(ctx, d); err != nil {
			r.logger.Warn("commit failed",
				zap.String("agent", id),
				zap.Error(err))
			continue
		}
		if d.Chosen != nil {
			r.logger.Debug("agent decided",
				zap.String("agent", id),
				zap.String("action", string(d.Chosen.Kind)),
				zap.Float64("score", d.Chosen.FinalScore))
		}
	}

	r.mu.Lock()
	sctx := r.sctx
	sctx.Cycle++
	sctx.AgentCount = len(ids)
	r.mu.Unlock()

	var ev *drama.Event
	if sctx.Cycle%r.dramaCadence == 0 {
		sctx, ev = DramaTick(r.src, sctx)
		if ev != nil {
			r.logger.Info("storyteller proposed event",
				zap.String("type", string(ev.Type)),
				zap.String("headline", ev.Headline),
				zap.Int("tension", sctx.Tension))
			if r.events != nil {
				if err := r.events.Publish(ctx, ev); err != nil {
					r.logger.Warn("event publish failed", zap.Error(err))
				}
			}
		}
	}

	r.mu.Lock()
	r.sctx = sctx
	if ev != nil {
		r.pending = append(r.pending, *ev)
	}
	r.mu.Unlock()
}

// DramaTick runs one storyteller check against an explicit scheduler
// context and returns the updated context plus the proposed event, if
// any. Accepting an event applies its chaos delta to the tension level.
func DramaTick(src rng.Source, sctx SchedulerContext) (SchedulerContext, *drama.Event) {
	ev := drama.CheckTension(src, sctx.Tension, sctx.RecentEvents, sctx.AgentCount, sctx.Cycle)
	if ev == nil {
		// Tension drifts down one notch when the storyteller stays quiet.
		sctx.Tension = agent.Clamp(sctx.Tension-1, 0, 100)
		if sctx.RecentEvents > 0 {
			sctx.RecentEvents--
		}
		return sctx, nil
	}
	sctx.Tension = agent.Clamp(sctx.Tension+ev.ChaosLevel, 0, 100)
	sctx.RecentEvents++
	return sctx, ev
}
