package recommend

import (
	"testing"
	"time"

	"tasktriage/pkg/model"
)

var base = time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

func task(id string, score float64) model.Task {
	return model.Task{
		ID:        id,
		Title:     id,
		Priority:  model.P2,
		Energy:    model.Medium,
		Attention: model.Medium,
		CreatedAt: base,
		Score:     score,
	}
}

func TestCapacityFilterExcludesDemandingTasks(t *testing.T) {
	heavy := task("heavy", 10)
	heavy.Energy = model.High
	light := task("light", 1)
	light.Energy = model.Low

	got := Recommend([]model.Task{heavy, light}, model.Capacity{Energy: model.Low, Attention: model.High}, 5)
	if len(got) != 1 || got[0].ID != "light" {
		t.Errorf("high-energy task must never be recommended at low energy capacity: %v", ids(got))
	}

	got = Recommend([]model.Task{heavy, light}, model.Capacity{Energy: model.Medium, Attention: model.High}, 5)
	for _, g := range got {
		if g.ID == "heavy" {
			t.Error("high-energy task must not be recommended at medium capacity either")
		}
	}
}

func TestCompletedTasksExcluded(t *testing.T) {
	done := task("done", 10)
	done.Completed = true
	open := task("open", 1)

	got := Recommend([]model.Task{done, open}, model.DefaultCapacity(), 5)
	if len(got) != 1 || got[0].ID != "open" {
		t.Errorf("completed tasks must be excluded: %v", ids(got))
	}
}

func TestRankingTieBreaks(t *testing.T) {
	today := base.Add(6 * time.Hour)
	tomorrow := base.Add(30 * time.Hour)

	a := task("due-tomorrow", 9.0)
	a.DueAt = &tomorrow
	b := task("due-today", 9.0)
	b.DueAt = &today
	c := task("low-score", 6.0)

	got := Recommend([]model.Task{a, b, c}, model.DefaultCapacity(), 5)
	want := []string{"due-today", "due-tomorrow", "low-score"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("rank %d = %s, want %s (full order %v)", i, got[i].ID, id, ids(got))
		}
	}
}

func TestOldestFirstFinalTieBreak(t *testing.T) {
	old := task("old", 5.0)
	old.CreatedAt = base.Add(-90 * 24 * time.Hour)
	fresh := task("fresh", 5.0)

	got := Recommend([]model.Task{fresh, old}, model.DefaultCapacity(), 5)
	if got[0].ID != "old" {
		t.Errorf("equal score and due should favor the older task, got %v", ids(got))
	}
}

func TestTruncation(t *testing.T) {
	var tasks []model.Task
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		tasks = append(tasks, task(id, 1))
	}
	got := Recommend(tasks, model.DefaultCapacity(), 3)
	if len(got) != 3 {
		t.Errorf("expected 3 tasks after truncation, got %d", len(got))
	}
	got = Recommend(tasks, model.DefaultCapacity(), 0)
	if len(got) != DefaultMaxTasks {
		t.Errorf("expected default max of %d, got %d", DefaultMaxTasks, len(got))
	}
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	heavy := task("heavy", 10)
	heavy.Energy = model.High
	heavy.Attention = model.High

	got := Recommend([]model.Task{heavy}, model.Capacity{Energy: model.Low, Attention: model.Low}, 5)
	if len(got) != 0 {
		t.Errorf("expected empty recommendation, got %v", ids(got))
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
