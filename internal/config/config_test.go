package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSubstitutesEnv(t *testing.T) {
	raw := `{
		"server": {"port": 8080, "log_level": "${AGORA_LOG_LEVEL:info}"},
		"database": {"postgres": {"dsn": "${AGORA_PG_DSN}"}},
		"simulation": {"tick_interval": "5s", "speed": 2.0, "drama_cadence": 4}
	}`
	path := filepath.Join(t.TempDir(), "agora.json")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AGORA_PG_DSN", "postgres://test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("default substitution: got %q", cfg.Server.LogLevel)
	}
	if cfg.Database.Postgres.DSN != "postgres://test" {
		t.Errorf("env substitution: got %q", cfg.Database.Postgres.DSN)
	}
	if cfg.Simulation.TickIntervalDuration() != 5*time.Second {
		t.Errorf("tick interval: got %v", cfg.Simulation.TickIntervalDuration())
	}
}

func TestTickIntervalDefaults(t *testing.T) {
	var s SimulationConfig
	if got := s.TickIntervalDuration(); got != 10*time.Second {
		t.Errorf("empty interval: got %v", got)
	}
	s.TickInterval = "bogus"
	if got := s.TickIntervalDuration(); got != 10*time.Second {
		t.Errorf("bad interval: got %v", got)
	}
}
