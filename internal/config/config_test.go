package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
env: production
log:
  level: debug
storage:
  backend: redis
redis:
  addr: localhost:6379
game:
  timer_ticks: 600
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "production" || cfg.Log.Level != "debug" || cfg.Storage.Backend != "redis" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Game.TimerTicks != 600 || cfg.Game.TickRate != 60 {
		t.Fatalf("expected override plus default tick rate, got %+v", cfg.Game)
	}
	if cfg.Storage.Scores != "scores.txt" {
		t.Fatalf("unset fields should keep defaults, got %q", cfg.Storage.Scores)
	}
}

func TestLoadOrDefaultToleratesMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Game.TimerTicks != 1000 || cfg.Storage.Backend != "file" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	cfg.Game.TickRate = 0
	cfg.Storage.Backend = "s3"
	cfg.Quiz.Source = "postgres"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	for _, want := range []string{"game.tick_rate", "storage.backend", "postgres.url"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty: got %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("bogus: got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("90s: got %v", got)
	}
}
