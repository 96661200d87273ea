package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasktriage/pkg/model"
	"tasktriage/pkg/source"
)

func writeVaultFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestTaskDatabaseFetchAll(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "Tasks.md", "- [ ] Review budget #P2\n- [x] Old chore\n")

	db := NewTaskDatabase(dir, "Tasks.md")
	records, err := db.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Priority != 3 {
		t.Errorf("#P2 should map to native priority 3, got %d", records[0].Priority)
	}
}

func TestTaskDatabaseMissingFileIsUnavailable(t *testing.T) {
	db := NewTaskDatabase(t.TempDir(), "Tasks.md")
	_, err := db.FetchAll(context.Background())
	if !errors.Is(err, source.ErrSourceUnavailable) {
		t.Errorf("missing file should wrap ErrSourceUnavailable, got %v", err)
	}
}

func TestTaskDatabaseMarkComplete(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "Tasks.md", "- [ ] Review budget ^rev1\n- [ ] Other task\n")
	db := NewTaskDatabase(dir, "Tasks.md")

	status, err := db.MarkComplete(context.Background(), "rev1")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if status != source.StatusSuccess {
		t.Errorf("expected success, got %s", status)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Tasks.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "- [x] Review budget ^rev1") {
		t.Errorf("checkbox not rewritten:\n%s", data)
	}
	if !strings.Contains(string(data), "- [ ] Other task") {
		t.Errorf("unrelated line was modified:\n%s", data)
	}
}

func TestTaskDatabaseMarkCompleteAlreadyDone(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "Tasks.md", "- [x] Review budget ^rev1\n")
	db := NewTaskDatabase(dir, "Tasks.md")

	status, err := db.MarkComplete(context.Background(), "rev1")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if status != source.StatusAlreadyComplete {
		t.Errorf("expected already_complete, got %s", status)
	}
}

func TestTaskDatabaseMarkCompleteNotFound(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "Tasks.md", "- [ ] Review budget ^rev1\n")
	db := NewTaskDatabase(dir, "Tasks.md")

	status, err := db.MarkComplete(context.Background(), "nope")
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if status != source.StatusNotFound {
		t.Errorf("expected not_found, got %s", status)
	}
}

func TestDailyNotesFetchAll(t *testing.T) {
	dir := t.TempDir()
	daily := NewDailyNotes(dir, "Daily", "")
	today := daily.now().Format(DefaultNoteFormat)
	writeVaultFile(t, dir, filepath.Join("Daily", today+".md"),
		"#energy/low\n\n- [ ] Email Sam about offsite\n")

	records, err := daily.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Email Sam about offsite" {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestDailyNotesMissingNoteIsEmpty(t *testing.T) {
	daily := NewDailyNotes(t.TempDir(), "Daily", "")
	records, err := daily.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("missing daily note should not fail: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestDailyNotesMarkCompleteIsNoOp(t *testing.T) {
	daily := NewDailyNotes(t.TempDir(), "Daily", "")
	status, err := daily.MarkComplete(context.Background(), "anything")
	if err != nil || status != source.StatusSuccess {
		t.Errorf("daily completion should be a no-op success, got %s %v", status, err)
	}
}

func TestReadCapacityTags(t *testing.T) {
	dir := t.TempDir()
	daily := NewDailyNotes(dir, "Daily", "")
	today := daily.now().Format(DefaultNoteFormat)
	writeVaultFile(t, dir, filepath.Join("Daily", today+".md"),
		"Rough night. #energy/low #attention/high\n")

	capacity, err := daily.ReadCapacity()
	if err != nil {
		t.Fatalf("ReadCapacity: %v", err)
	}
	if capacity.Energy != model.Low || capacity.Attention != model.High {
		t.Errorf("unexpected capacity: %+v", capacity)
	}
}

func TestReadCapacityDefaultsToMedium(t *testing.T) {
	daily := NewDailyNotes(t.TempDir(), "Daily", "")
	capacity, err := daily.ReadCapacity()
	if err != nil {
		t.Fatalf("ReadCapacity: %v", err)
	}
	if capacity != model.DefaultCapacity() {
		t.Errorf("expected default capacity, got %+v", capacity)
	}
}
