package config

import (
	"os"
	"path/filepath"
	"testing"

	"tasktriage/pkg/model"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Recommendations.MaxTasks != 5 {
		t.Errorf("expected default max_tasks 5, got %d", cfg.Recommendations.MaxTasks)
	}
	if cfg.Dedup.SimilarityThreshold != 0.8 || cfg.Dedup.WindowDays != 7 {
		t.Errorf("unexpected dedup defaults: %+v", cfg.Dedup)
	}
	if cfg.Cleanup.StaleThresholdDays != 30 {
		t.Errorf("expected default stale threshold 30, got %d", cfg.Cleanup.StaleThresholdDays)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
vault:
  path: ~/Notes
  task_database: Tasks.md
recommendations:
  max_tasks: 3
scoring:
  deadline_multipliers:
    overdue: 2.5
`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Recommendations.MaxTasks != 3 {
		t.Errorf("expected max_tasks 3, got %d", cfg.Recommendations.MaxTasks)
	}
	if cfg.Vault.Path != "~/Notes" {
		t.Errorf("expected vault path override, got %q", cfg.Vault.Path)
	}
	// Untouched settings keep their defaults.
	if cfg.Dedup.WindowDays != 7 {
		t.Errorf("expected default window_days 7, got %d", cfg.Dedup.WindowDays)
	}

	policy, err := cfg.Policy()
	if err != nil {
		t.Fatalf("Policy failed: %v", err)
	}
	if policy.Deadline.Overdue != 2.5 {
		t.Errorf("expected overdue multiplier 2.5, got %v", policy.Deadline.Overdue)
	}
	if policy.PriorityWeights[model.P1] != 4 {
		t.Errorf("expected default P1 weight 4, got %v", policy.PriorityWeights[model.P1])
	}
}

func TestPolicyRejectsBrokenTables(t *testing.T) {
	cfg := Default()
	cfg.Scoring.DeadlineMultipliers.Overdue = 0.5
	if _, err := cfg.Policy(); err == nil {
		t.Error("expected validation error for overdue multiplier below due-today")
	}
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	if err := WriteDefault(path); err == nil {
		t.Error("expected error overwriting existing config")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("written config should load: %v", err)
	}
	if cfg.Google.Tasklist != "Tasks" {
		t.Errorf("expected default tasklist in written file, got %q", cfg.Google.Tasklist)
	}
}
