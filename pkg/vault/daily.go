package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"tasktriage/pkg/model"
	"tasktriage/pkg/source"
)

// DailySourceName identifies daily-note action items in provenance maps.
const DailySourceName = "daily"

// DefaultNoteFormat is the Go layout for daily note filenames.
const DefaultNoteFormat = "2006-01-02"

var capacityRegex = regexp.MustCompile(`#(energy|attention)/(low|medium|high)\b`)

// DailyNotes reads action items out of the current day's note. Daily
// notes are transient scratch space: they act as a provider, and their
// completion sink is a no-op so the reconciler can settle them without
// editing past notes.
type DailyNotes struct {
	dir    string
	format string
	now    func() time.Time
}

// NewDailyNotes points at the daily notes directory, e.g.
// <vault>/Daily. An empty format falls back to DefaultNoteFormat.
func NewDailyNotes(vaultPath, notesDir, format string) *DailyNotes {
	if format == "" {
		format = DefaultNoteFormat
	}
	return &DailyNotes{
		dir:    filepath.Join(vaultPath, notesDir),
		format: format,
		now:    time.Now,
	}
}

func (d *DailyNotes) Name() string { return DailySourceName }

// todayPath returns the note file for the current day.
func (d *DailyNotes) todayPath() string {
	return filepath.Join(d.dir, d.now().Format(d.format)+".md")
}

// FetchAll parses checkbox lines from today's note. No note today means
// no action items, which is an empty result rather than a failure.
func (d *DailyNotes) FetchAll(ctx context.Context) ([]source.RawRecord, error) {
	path := d.todayPath()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: daily note %s: %v", source.ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	// Action items jotted today were created today.
	records, err := ParseTasks(f, d.now())
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", source.ErrSourceUnavailable, path, err)
	}
	return records, nil
}

// MarkComplete reports success without touching the note. Daily-note
// items live in the durable systems once captured there; rewriting old
// notes would trample the owner's journal.
func (d *DailyNotes) MarkComplete(ctx context.Context, nativeID string) (source.CompletionStatus, error) {
	return source.StatusSuccess, nil
}

// ReadCapacity scans today's note for capacity tags like #energy/high
// and #attention/low. Absent tags default to medium: an unannotated day
// is an ordinary day.
func (d *DailyNotes) ReadCapacity() (model.Capacity, error) {
	capacity := model.DefaultCapacity()

	data, err := os.ReadFile(d.todayPath())
	if err != nil {
		if os.IsNotExist(err) {
			return capacity, nil
		}
		return capacity, fmt.Errorf("reading capacity: %w", err)
	}

	for _, m := range capacityRegex.FindAllStringSubmatch(string(data), -1) {
		level := model.Level(m[2])
		switch m[1] {
		case "energy":
			capacity.Energy = level
		case "attention":
			capacity.Attention = level
		}
	}
	return capacity, nil
}
