package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/dice"
	"github.com/nidhogg/agora-world/internal/gateway"
	"github.com/nidhogg/agora-world/internal/rng"
	"github.com/nidhogg/agora-world/internal/world"
)

// newTestHandler creates a Handler wired with lightweight in-memory deps
// (no Postgres/Redis/Neo4j).
func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	logger := zap.NewNop()

	gw := gateway.NewGateway(logger)
	broadcaster := gateway.NewBroadcaster(gw, logger)
	clock := world.NewClock(time.Second, 1.0, logger)

	h := NewHandler(rng.New(7), clock, nil, nil, nil, broadcaster, gw, logger)
	return h, h.Router()
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body interface{}) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func getJSON(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeJSON(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("status field: got %q", body["status"])
	}
}

func TestDecide(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	req := map[string]interface{}{
		"state": map[string]interface{}{
			"agent_id": "ava",
			"energy":   80,
		},
		"phase": "morning",
	}
	resp := postJSON(t, ts, "/api/decide", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var d world.Decision
	decodeJSON(t, resp, &d)
	if d.AgentID != "ava" {
		t.Errorf("agent id: got %q", d.AgentID)
	}
	if d.Phase != agent.PhaseMorning {
		t.Errorf("phase: got %q", d.Phase)
	}
	if d.Chosen == nil {
		t.Fatal("expected a chosen action")
	}
	if len(d.Ranked) == 0 {
		t.Error("expected ranked candidates")
	}
}

func TestDecideRequiresAgentID(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/api/decide", map[string]interface{}{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGravitate(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	req := map[string]interface{}{
		"state": map[string]interface{}{"agent_id": "ava"},
		"rooms": []map[string]interface{}{
			{"id": "r1", "name": "Library", "type": "library", "attractor_strength": 50},
			{"id": "r2", "name": "Arena", "type": "arena", "attractor_strength": 10},
		},
	}
	resp := postJSON(t, ts, "/api/gravitate", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var scores []map[string]interface{}
	decodeJSON(t, resp, &scores)
	if len(scores) != 2 {
		t.Fatalf("room scores: got %d, want 2", len(scores))
	}
}

func TestRollDice(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	req := map[string]interface{}{
		"state": map[string]interface{}{"agent_id": "ava", "energy": 90},
		"kind":  "compete",
	}
	resp := postJSON(t, ts, "/api/dice/roll", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var roll dice.Roll
	decodeJSON(t, resp, &roll)
	if roll.FinalValue < 1 || roll.FinalValue > 100 {
		t.Errorf("final value out of range: %d", roll.FinalValue)
	}
	if roll.Threshold != dice.Threshold {
		t.Errorf("threshold: got %d", roll.Threshold)
	}
}

func TestRollDiceRequiresKind(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/api/dice/roll", map[string]interface{}{
		"state": map[string]interface{}{"agent_id": "ava"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDramaCheck(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	// Low tension and a quiet world forces an escalation event.
	resp := postJSON(t, ts, "/api/drama/check", world.SchedulerContext{
		Cycle:        1,
		Tension:      5,
		RecentEvents: 0,
		AgentCount:   4,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var body struct {
		Context world.SchedulerContext `json:"context"`
		Event   map[string]interface{} `json:"event"`
	}
	decodeJSON(t, resp, &body)
	if body.Event == nil {
		t.Fatal("expected an event at low tension")
	}
	if body.Context.Tension <= 5 {
		t.Errorf("tension should rise after escalation: got %d", body.Context.Tension)
	}
}

func TestGearHealth(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	req := map[string]interface{}{
		"tools": map[string]interface{}{
			"hammer": map[string]interface{}{"id": "hammer", "name": "Hammer", "tier": 1, "decay_rate": 2},
		},
		"proficiencies": []map[string]interface{}{
			{"tool_id": "hammer", "agent_id": "ava", "proficiency": 70},
		},
	}
	resp := postJSON(t, ts, "/api/gear/health", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var report map[string]interface{}
	decodeJSON(t, resp, &report)
	if report["overall"] == nil {
		t.Error("expected overall health in report")
	}
}

func TestAgentRoutesWithoutStore(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/api/agents")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRecallWithoutIndex(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/api/agents/ava/recall", map[string]interface{}{
		"tags": []string{"arena"},
	})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestWorldStatus(t *testing.T) {
	_, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/api/world/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	if body["world"] != "Agora World" {
		t.Errorf("world: got %v", body["world"])
	}
	if body["phase"] == nil {
		t.Error("expected a phase")
	}
}
