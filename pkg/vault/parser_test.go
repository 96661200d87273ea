package vault

import (
	"strings"
	"testing"
	"time"
)

var parseModTime = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func TestParseTasksFullLine(t *testing.T) {
	input := "- [ ] Write quarterly report #P1 #energy/high #attention/high 📅 2026-08-30 ➕ 2026-08-01 ^abc123\n"
	records, err := ParseTasks(strings.NewReader(input), parseModTime)
	if err != nil {
		t.Fatalf("ParseTasks: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.NativeID != "abc123" {
		t.Errorf("expected block id as native id, got %q", r.NativeID)
	}
	if r.Title != "Write quarterly report" {
		t.Errorf("tags should be stripped from title, got %q", r.Title)
	}
	if r.Priority != 4 {
		t.Errorf("#P1 should map to native priority 4, got %d", r.Priority)
	}
	if len(r.Labels) != 2 || r.Labels[0] != "energy-high" || r.Labels[1] != "attention-high" {
		t.Errorf("unexpected labels: %v", r.Labels)
	}
	if r.Due == nil || !r.Due.Time.Equal(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected due: %v", r.Due)
	}
	if !r.Created.Time.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created: %v", r.Created.Time)
	}
	if r.Completed {
		t.Error("open checkbox should not be completed")
	}
}

func TestParseTasksSkipsNonCheckboxLines(t *testing.T) {
	input := `# Tasks

Some prose about the week.

- [ ] Call the plumber
- plain list item, not a task
- [x] Renew domain
`
	records, err := ParseTasks(strings.NewReader(input), parseModTime)
	if err != nil {
		t.Fatalf("ParseTasks: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Completed || !records[1].Completed {
		t.Errorf("completed flags wrong: %v %v", records[0].Completed, records[1].Completed)
	}
}

func TestParseTasksDueColonForm(t *testing.T) {
	records, err := ParseTasks(strings.NewReader("- [ ] Pay invoice due:2026-09-01\n"), parseModTime)
	if err != nil {
		t.Fatalf("ParseTasks: %v", err)
	}
	if records[0].Due == nil || records[0].Due.Time.Day() != 1 {
		t.Errorf("due: form not parsed: %v", records[0].Due)
	}
	if records[0].Title != "Pay invoice" {
		t.Errorf("due tag should be stripped, got %q", records[0].Title)
	}
}

func TestParseTasksDefaultsCreatedToModTime(t *testing.T) {
	records, err := ParseTasks(strings.NewReader("- [ ] No dates here\n"), parseModTime)
	if err != nil {
		t.Fatalf("ParseTasks: %v", err)
	}
	if !records[0].Created.Time.Equal(parseModTime) {
		t.Errorf("created should fall back to mod time, got %v", records[0].Created.Time)
	}
}

func TestLineIDStableWithoutBlockID(t *testing.T) {
	a, err := ParseTasks(strings.NewReader("- [ ] Water the plants\n"), parseModTime)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseTasks(strings.NewReader("- [ ] Water the plants\n"), parseModTime.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if a[0].NativeID != b[0].NativeID {
		t.Errorf("content-derived id should be stable: %q vs %q", a[0].NativeID, b[0].NativeID)
	}
}
