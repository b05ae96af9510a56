package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogsWithoutFile(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "No log entries available")
}

func TestLogsShowsLastLines(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "-n", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if out != "two\nthree\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLogsFiltersSnapshotCycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"snapshot", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("snapshot --json: %v", err)
	}
	var snap snapshotOutput
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	out, _, err = runCLI(t, []string{"logs", "-n", "0", "--cycle", snap.CycleID}, env.configPath)
	if err != nil {
		t.Fatalf("logs --cycle: %v", err)
	}
	requireContains(t, out, "refresh cycle complete")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.Contains(line, "#"+snap.CycleID) {
			t.Fatalf("unexpected line from another cycle: %q", line)
		}
	}
}
