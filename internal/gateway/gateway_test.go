package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/drama"
)

type fakeAdapter struct {
	platform string
	sent     []*Announcement
	failWith error
}

func (f *fakeAdapter) Platform() string              { return f.platform }
func (f *fakeAdapter) Connect(context.Context) error { return nil }
func (f *fakeAdapter) Close() error                  { return nil }
func (f *fakeAdapter) Announce(_ context.Context, ann *Announcement) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, ann)
	return nil
}

func TestGatewayFanOut(t *testing.T) {
	gw := NewGateway(zap.NewNop())
	a := &fakeAdapter{platform: "alpha"}
	b := &fakeAdapter{platform: "beta"}
	gw.Register(a)
	gw.Register(b)

	ann := &Announcement{Kind: "escalation", Headline: "A rivalry ignites"}
	if err := gw.Announce(context.Background(), ann); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if len(a.sent) != 1 || len(b.sent) != 1 {
		t.Errorf("fan-out incomplete: alpha=%d beta=%d", len(a.sent), len(b.sent))
	}
}

func TestGatewayPartialFailure(t *testing.T) {
	gw := NewGateway(zap.NewNop())
	good := &fakeAdapter{platform: "good"}
	bad := &fakeAdapter{platform: "bad", failWith: errors.New("down")}
	gw.Register(good)
	gw.Register(bad)

	err := gw.Announce(context.Background(), &Announcement{Kind: "relief", Headline: "calm"})
	if err == nil {
		t.Fatal("expected error for failed platform")
	}
	if len(good.sent) != 1 {
		t.Errorf("healthy platform should still receive the announcement, got %d", len(good.sent))
	}
}

func TestBroadcasterPublish(t *testing.T) {
	gw := NewGateway(zap.NewNop())
	fa := &fakeAdapter{platform: "alpha"}
	gw.Register(fa)

	b := NewBroadcaster(gw, zap.NewNop())
	ev := &drama.Event{
		ID:       "ev-1",
		Type:     drama.EventCrisis,
		Headline: "Sabotage in the workshop",
		TraitShifts: map[agent.Trait]int{
			agent.TraitAggression: 10,
			agent.TraitLoyalty:    -5,
		},
		ChaosLevel: 25,
	}
	if err := b.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(fa.sent) != 1 {
		t.Fatalf("adapter received %d announcements, want 1", len(fa.sent))
	}
	got := fa.sent[0]
	if got.Kind != string(drama.EventCrisis) {
		t.Errorf("kind: got %q", got.Kind)
	}
	if got.Headline != ev.Headline {
		t.Errorf("headline: got %q", got.Headline)
	}
	if !strings.Contains(got.Body, "aggression +10") || !strings.Contains(got.Body, "loyalty -5") {
		t.Errorf("body missing trait shifts: %q", got.Body)
	}

	hist := b.History(10)
	if len(hist) != 1 {
		t.Fatalf("history length: got %d, want 1", len(hist))
	}
	if hist[0].Targets[0] != "alpha" {
		t.Errorf("history targets: got %v", hist[0].Targets)
	}
}

func TestBroadcasterNilEvent(t *testing.T) {
	b := NewBroadcaster(NewGateway(zap.NewNop()), zap.NewNop())
	if err := b.Publish(context.Background(), nil); err == nil {
		t.Error("expected error for nil event")
	}
}
