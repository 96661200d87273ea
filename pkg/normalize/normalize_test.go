package normalize

import (
	"errors"
	"testing"
	"time"

	"tasktriage/pkg/model"
	"tasktriage/pkg/source"
)

func ts(s string) source.Timestamp {
	t, _ := time.Parse(time.RFC3339, s)
	return source.Timestamp{Time: t}
}

func TestPriorityMappingIsInverse(t *testing.T) {
	cases := []struct {
		native int
		want   model.Priority
	}{
		{4, model.P1},
		{3, model.P2},
		{2, model.P3},
		{1, model.P4},
		{0, model.P4}, // absent
		{9, model.P4}, // unmappable
	}
	for _, c := range cases {
		task, err := Normalize("gtasks", source.RawRecord{
			NativeID: "1",
			Title:    "Write report",
			Priority: c.native,
			Created:  ts("2026-08-20T09:00:00Z"),
			Modified: ts("2026-08-20T09:00:00Z"),
		})
		if err != nil {
			t.Fatalf("Normalize failed for native priority %d: %v", c.native, err)
		}
		if task.Priority != c.want {
			t.Errorf("native priority %d mapped to %s, want %s", c.native, task.Priority, c.want)
		}
	}
}

func TestLabelsMapToOrdinals(t *testing.T) {
	task, err := Normalize("gtasks", source.RawRecord{
		NativeID: "1",
		Title:    "Deep work block",
		Labels:   []string{"energy-high", "attention-low", "someday"},
		Created:  ts("2026-08-20T09:00:00Z"),
		Modified: ts("2026-08-20T09:00:00Z"),
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if task.Energy != model.High {
		t.Errorf("expected energy high, got %s", task.Energy)
	}
	if task.Attention != model.Low {
		t.Errorf("expected attention low, got %s", task.Attention)
	}
}

func TestDefaultsWhenSignalsAbsent(t *testing.T) {
	task, err := Normalize("vault", source.RawRecord{
		NativeID: "abc",
		Title:    "Water plants",
		Created:  ts("2026-08-20T09:00:00Z"),
		Modified: ts("2026-08-20T09:00:00Z"),
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if task.Priority != model.P4 {
		t.Errorf("expected default P4, got %s", task.Priority)
	}
	if task.Energy != model.Medium || task.Attention != model.Medium {
		t.Errorf("expected medium/medium defaults, got %s/%s", task.Energy, task.Attention)
	}
	if task.DueAt != nil {
		t.Errorf("expected no due date, got %v", task.DueAt)
	}
}

func TestMalformedRecordsAreSkipped(t *testing.T) {
	_, err := Normalize("gtasks", source.RawRecord{Title: "no id"})
	if !errors.Is(err, source.ErrMalformedRecord) {
		t.Errorf("missing native id: expected ErrMalformedRecord, got %v", err)
	}
	_, err = Normalize("gtasks", source.RawRecord{NativeID: "1", Title: "   "})
	if !errors.Is(err, source.ErrMalformedRecord) {
		t.Errorf("blank title: expected ErrMalformedRecord, got %v", err)
	}

	tasks, skipped := NormalizeAll("gtasks", []source.RawRecord{
		{NativeID: "1", Title: "Good", Created: ts("2026-08-20T09:00:00Z")},
		{Title: "no id"},
		{NativeID: "3", Title: "Also good", Created: ts("2026-08-20T09:00:00Z")},
	})
	if skipped != 1 {
		t.Errorf("expected 1 skipped record, got %d", skipped)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 normalized tasks, got %d", len(tasks))
	}
}

func TestProvenanceCarriesNativeID(t *testing.T) {
	task, err := Normalize("gtasks", source.RawRecord{
		NativeID: "1001",
		Title:    "Write report",
		Created:  ts("2026-08-20T09:00:00Z"),
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := task.Provenance["gtasks"]; got != "1001" {
		t.Errorf("expected provenance gtasks=1001, got %q", got)
	}
	if len(task.Provenance) != 1 {
		t.Errorf("expected exactly one provenance entry, got %d", len(task.Provenance))
	}
}
