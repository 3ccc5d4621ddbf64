package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/dice"
	"github.com/nidhogg/agora-world/internal/gateway"
	"github.com/nidhogg/agora-world/internal/gear"
	"github.com/nidhogg/agora-world/internal/gravity"
	"github.com/nidhogg/agora-world/internal/recall"
	"github.com/nidhogg/agora-world/internal/rng"
	"github.com/nidhogg/agora-world/internal/store"
	"github.com/nidhogg/agora-world/internal/world"
)

// Handler holds dependencies for HTTP handlers. The store and
// broadcaster are optional; endpoints that need them answer 503 when
// nothing is wired.
type Handler struct {
	src         rng.Source
	clock       *world.Clock
	runner      *world.Runner
	states      *store.Store
	recallIdx   *recall.Index
	broadcaster *gateway.Broadcaster
	gw          *gateway.Gateway
	logger      *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	src rng.Source,
	clock *world.Clock,
	runner *world.Runner,
	states *store.Store,
	recallIdx *recall.Index,
	broadcaster *gateway.Broadcaster,
	gw *gateway.Gateway,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		src:         src,
		clock:       clock,
		runner:      runner,
		states:      states,
		recallIdx:   recallIdx,
		broadcaster: broadcaster,
		gw:          gw,
		logger:      logger,
	}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)

		// Stateless engine routes: the caller supplies the snapshot.
		r.Post("/decide", h.decide)
		r.Post("/gravitate", h.gravitate)
		r.Post("/dice/roll", h.rollDice)
		r.Post("/drama/check", h.dramaCheck)
		r.Post("/gear/diagnose", h.gearDiagnose)
		r.Post("/gear/health", h.gearHealth)

		// Persisted agent routes
		r.Get("/agents", h.listAgents)
		r.Get("/agents/{id}/state", h.getAgentState)
		r.Post("/agents/{id}/recall", h.recallMemories)

		// World routes
		r.Get("/world/status", h.worldStatus)
		r.Get("/broadcasts", h.listBroadcasts)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "world": "agora"})
}

type decideRequest struct {
	world.Snapshot
	Phase agent.Phase `json:"phase,omitempty"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.State.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "state.id is required"})
		return
	}

	now := time.Now()
	phase := req.Phase
	if phase == "" {
		if h.clock != nil {
			now = h.clock.WorldTime()
		}
		phase = world.PhaseOf(now)
	}

	d := world.TickAgent(h.src, req.Snapshot, phase, now)
	writeJSON(w, http.StatusOK, d)
}

type gravitateRequest struct {
	State         agent.State          `json:"state"`
	Rooms         []agent.Room         `json:"rooms"`
	Others        []agent.State        `json:"others,omitempty"`
	Relationships []agent.Relationship `json:"relationships,omitempty"`
	Memories      []agent.MemoryEntry  `json:"memories,omitempty"`
}

func (h *Handler) gravitate(w http.ResponseWriter, r *http.Request) {
	var req gravitateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	scores := gravity.Rank(req.State, req.Rooms, req.Others, req.Relationships, req.Memories)
	writeJSON(w, http.StatusOK, scores)
}

type diceRequest struct {
	State agent.State      `json:"state"`
	Kind  agent.ActionKind `json:"kind"`
	Extra map[string]int   `json:"extra,omitempty"`
}

func (h *Handler) rollDice(w http.ResponseWriter, r *http.Request) {
	var req diceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Kind == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind is required"})
		return
	}
	roll := dice.Resolve(h.src, req.State, req.Kind, req.Extra)
	writeJSON(w, http.StatusOK, roll)
}

type dramaResponse struct {
	Context world.SchedulerContext `json:"context"`
	Event   interface{}            `json:"event,omitempty"`
}

func (h *Handler) dramaCheck(w http.ResponseWriter, r *http.Request) {
	var sctx world.SchedulerContext
	if err := json.NewDecoder(r.Body).Decode(&sctx); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	next, ev := world.DramaTick(h.src, sctx)
	resp := dramaResponse{Context: next}
	if ev != nil {
		resp.Event = ev
	}
	writeJSON(w, http.StatusOK, resp)
}

type gearRequest struct {
	State         agent.State          `json:"state"`
	Tools         map[string]gear.Tool `json:"tools"`
	Proficiencies []gear.Proficiency   `json:"proficiencies"`
	Discoverable  []gear.Tool          `json:"discoverable,omitempty"`
}

func (h *Handler) gearDiagnose(w http.ResponseWriter, r *http.Request) {
	var req gearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	diag := gear.Diagnose(h.src, req.State, req.Tools, req.Proficiencies, req.Discoverable, time.Now())
	writeJSON(w, http.StatusOK, diag)
}

func (h *Handler) gearHealth(w http.ResponseWriter, r *http.Request) {
	var req gearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	report := gear.Health(req.Tools, req.Proficiencies, time.Now())
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	if h.states == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "state store not configured"})
		return
	}
	states, err := h.states.ListStates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (h *Handler) getAgentState(w http.ResponseWriter, r *http.Request) {
	if h.states == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "state store not configured"})
		return
	}
	id := chi.URLParam(r, "id")
	state, err := h.states.GetState(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type recallRequest struct {
	Tags []string `json:"tags"`
	TopK uint64   `json:"top_k,omitempty"`
}

func (h *Handler) recallMemories(w http.ResponseWriter, r *http.Request) {
	if h.recallIdx == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "recall index not configured"})
		return
	}
	id := chi.URLParam(r, "id")
	var req recallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(req.Tags) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tags are required"})
		return
	}
	if req.TopK == 0 {
		req.TopK = 10
	}
	hits, err := h.recallIdx.Relevant(r.Context(), id, req.Tags, req.TopK)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

func (h *Handler) worldStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"world": "Agora World",
	}
	if h.clock != nil {
		status["world_time"] = h.clock.WorldTime()
		status["phase"] = h.clock.Phase()
	}
	if h.runner != nil {
		status["scheduler"] = h.runner.Context()
	}
	if h.gw != nil {
		status["platforms"] = h.gw.Adapters()
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) listBroadcasts(w http.ResponseWriter, r *http.Request) {
	if h.broadcaster == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "broadcaster not configured"})
		return
	}
	writeJSON(w, http.StatusOK, h.broadcaster.History(50))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
