package score

import (
	"testing"
	"time"

	"tasktriage/pkg/model"
)

var now = time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

func TestWorkedExample(t *testing.T) {
	// P1, energy high, due later today: 4 x 1.5 x 1.5 = 9.0
	due := time.Date(2026, 8, 26, 17, 0, 0, 0, time.UTC)
	task := model.Task{Priority: model.P1, Energy: model.High, DueAt: &due}

	got := DefaultPolicy().Score(task, now)
	if got != 9.0 {
		t.Errorf("expected score 9.0, got %v", got)
	}
}

func TestNoDueDateUsesFarMultiplier(t *testing.T) {
	task := model.Task{Priority: model.P3, Energy: model.Low}
	got := DefaultPolicy().Score(task, now)
	// 2 x 0.75 x 1.0
	if got != 1.5 {
		t.Errorf("expected score 1.5, got %v", got)
	}
}

func TestDeadlineStepsAreMonotonic(t *testing.T) {
	p := DefaultPolicy()
	task := model.Task{Priority: model.P2, Energy: model.Medium}

	overdue := now.Add(-48 * time.Hour)
	today := now.Add(2 * time.Hour)
	thisWeek := now.Add(3 * 24 * time.Hour)
	far := now.Add(30 * 24 * time.Hour)

	var prev float64 = 1e9
	for _, due := range []time.Time{overdue, today, thisWeek, far} {
		d := due
		task.DueAt = &d
		s := p.Score(task, now)
		if s > prev {
			t.Errorf("score increased as time-to-due grew: %v after %v", s, prev)
		}
		prev = s
	}
}

func TestOverdueEscalates(t *testing.T) {
	due := now.Add(-time.Hour)
	task := model.Task{Priority: model.P1, Energy: model.High, DueAt: &due}
	got := DefaultPolicy().Score(task, now)
	// 4 x 1.5 x 2.0
	if got != 12.0 {
		t.Errorf("expected overdue score 12.0, got %v", got)
	}
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	p := DefaultPolicy()
	if err := p.Validate(); err != nil {
		t.Fatalf("default policy should validate: %v", err)
	}

	bad := DefaultPolicy()
	bad.PriorityWeights[model.P4] = 10
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-decreasing priority weights")
	}

	bad = DefaultPolicy()
	bad.Deadline.Overdue = 0.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for deadline multiplier increasing with time-to-due")
	}
}

func TestScoreIsPure(t *testing.T) {
	due := now.Add(2 * time.Hour)
	task := model.Task{Priority: model.P2, Energy: model.Medium, DueAt: &due}
	p := DefaultPolicy()
	if p.Score(task, now) != p.Score(task, now) {
		t.Error("score must be deterministic for the same task and time")
	}
}
