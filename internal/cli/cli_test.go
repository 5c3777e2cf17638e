package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLeaderboardCommandPrintsTopFive(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scores.txt"), []byte("alice\n8\nbob\n12\n"), 0o644); err != nil {
		t.Fatalf("seed scores: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "env: test\nlog:\n  level: error\nstorage:\n  dir: " + dir + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"leaderboard", "--config", cfgPath})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "1. bob") || !strings.HasPrefix(lines[1], "2. alice") {
		t.Fatalf("unexpected order:\n%s", out.String())
	}
	if !strings.Contains(lines[4], "none") {
		t.Fatalf("expected placeholder rows:\n%s", out.String())
	}
}

func TestMigrateNeedsPostgres(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err := cmd.ExecuteContext(context.Background()); err == nil || !strings.Contains(err.Error(), "postgres url") {
		t.Fatalf("expected postgres url error, got %v", err)
	}
}
