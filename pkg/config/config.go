// Package config loads the engine configuration from
// ~/.config/tasktriage/config.yaml, falling back to documented defaults
// for anything unset. Scoring tables live here because the exact
// multiplier constants are policy, not contract.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tasktriage/pkg/model"
	"tasktriage/pkg/score"
)

const appDirName = "tasktriage"

type Config struct {
	Google          GoogleConfig          `mapstructure:"google" yaml:"google"`
	Vault           VaultConfig           `mapstructure:"vault" yaml:"vault"`
	Dedup           DedupConfig           `mapstructure:"dedup" yaml:"dedup"`
	Scoring         ScoringConfig         `mapstructure:"scoring" yaml:"scoring"`
	Recommendations RecommendationsConfig `mapstructure:"recommendations" yaml:"recommendations"`
	Cleanup         CleanupConfig         `mapstructure:"cleanup" yaml:"cleanup"`
	Fetch           FetchConfig           `mapstructure:"fetch" yaml:"fetch"`
}

type GoogleConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Tasklist string `mapstructure:"tasklist" yaml:"tasklist"`
	// CachePath is where `tasktriage sync` snapshots the fetched list;
	// aggregation reads the snapshot so a run never blocks on the API.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`
}

type VaultConfig struct {
	Path            string `mapstructure:"path" yaml:"path"`
	TaskDatabase    string `mapstructure:"task_database" yaml:"task_database"`
	DailyNotesPath  string `mapstructure:"daily_notes_path" yaml:"daily_notes_path"`
	DailyNoteFormat string `mapstructure:"daily_note_format" yaml:"daily_note_format"`
}

type DedupConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	WindowDays          int     `mapstructure:"window_days" yaml:"window_days"`
}

type ScoringConfig struct {
	PriorityWeights     map[string]float64 `mapstructure:"priority_weights" yaml:"priority_weights"`
	EnergyMultipliers   map[string]float64 `mapstructure:"energy_multipliers" yaml:"energy_multipliers"`
	DeadlineMultipliers DeadlineConfig     `mapstructure:"deadline_multipliers" yaml:"deadline_multipliers"`
}

type DeadlineConfig struct {
	Overdue     float64 `mapstructure:"overdue" yaml:"overdue"`
	DueToday    float64 `mapstructure:"due_today" yaml:"due_today"`
	DueThisWeek float64 `mapstructure:"due_this_week" yaml:"due_this_week"`
	Default     float64 `mapstructure:"default" yaml:"default"`
}

type RecommendationsConfig struct {
	MaxTasks int `mapstructure:"max_tasks" yaml:"max_tasks"`
}

type CleanupConfig struct {
	StaleThresholdDays int `mapstructure:"stale_threshold_days" yaml:"stale_threshold_days"`
}

type FetchConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigDir is ~/.config/tasktriage.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the documented defaults.
func Default() *Config {
	cacheDefault := ""
	if dir, err := ConfigDir(); err == nil {
		cacheDefault = filepath.Join(dir, "gtasks_snapshot.json")
	}
	return &Config{
		Google: GoogleConfig{
			Enabled:   true,
			Tasklist:  "Tasks",
			CachePath: cacheDefault,
		},
		Vault: VaultConfig{
			TaskDatabase:    "Tasks/Tasks.md",
			DailyNotesPath:  "Daily",
			DailyNoteFormat: "2006-01-02",
		},
		Dedup: DedupConfig{
			SimilarityThreshold: 0.8,
			WindowDays:          7,
		},
		Scoring: ScoringConfig{
			PriorityWeights:   map[string]float64{"P1": 4, "P2": 3, "P3": 2, "P4": 1},
			EnergyMultipliers: map[string]float64{"high": 1.5, "medium": 1.0, "low": 0.75},
			DeadlineMultipliers: DeadlineConfig{
				Overdue:     2.0,
				DueToday:    1.5,
				DueThisWeek: 1.2,
				Default:     1.0,
			},
		},
		Recommendations: RecommendationsConfig{MaxTasks: 5},
		Cleanup:         CleanupConfig{StaleThresholdDays: 30},
		Fetch:           FetchConfig{TimeoutSeconds: 10},
	}
}

// Load reads the config file at path (the default path when empty) over
// the defaults. A missing file is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefault writes a starter config file, refusing to overwrite an
// existing one.
func WriteDefault(path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0600)
}

// Policy converts the scoring tables into a validated scoring policy.
func (c *Config) Policy() (score.Policy, error) {
	def := score.DefaultPolicy()
	p := score.Policy{
		PriorityWeights:   make(map[model.Priority]float64),
		EnergyMultipliers: make(map[model.Level]float64),
		Deadline:          def.Deadline,
	}
	for pr, w := range def.PriorityWeights {
		p.PriorityWeights[pr] = w
	}
	for lv, m := range def.EnergyMultipliers {
		p.EnergyMultipliers[lv] = m
	}

	for name, w := range c.Scoring.PriorityWeights {
		p.PriorityWeights[model.Priority(name)] = w
	}
	for name, m := range c.Scoring.EnergyMultipliers {
		p.EnergyMultipliers[model.Level(name)] = m
	}
	d := c.Scoring.DeadlineMultipliers
	if d.Overdue != 0 {
		p.Deadline.Overdue = d.Overdue
	}
	if d.DueToday != 0 {
		p.Deadline.Today = d.DueToday
	}
	if d.DueThisWeek != 0 {
		p.Deadline.Week = d.DueThisWeek
	}
	if d.Default != 0 {
		p.Deadline.Far = d.Default
	}

	if err := p.Validate(); err != nil {
		return score.Policy{}, err
	}
	return p, nil
}
