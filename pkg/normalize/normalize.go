// Package normalize maps each source's raw records into the canonical
// task shape using fixed, documented vocabulary tables.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tasktriage/pkg/model"
	"tasktriage/pkg/source"
)

// Native priority levels 1-4 map inversely onto P4-P1: the native
// highest-urgency level (4) becomes P1. Absent or unmappable values
// take the documented default, P4.
var priorityTable = map[int]model.Priority{
	4: model.P1,
	3: model.P2,
	2: model.P3,
	1: model.P4,
}

var levelLabel = regexp.MustCompile(`^(energy|attention)-(low|medium|high)$`)

// Normalize converts one raw record from the named source into a unified
// task. It is side-effect free. Records missing their identity fields
// (native id, title) fail with an error wrapping source.ErrMalformedRecord;
// the caller skips them and continues.
func Normalize(sourceName string, r source.RawRecord) (model.Task, error) {
	title := strings.TrimSpace(r.Title)
	if r.NativeID == "" || title == "" {
		return model.Task{}, fmt.Errorf("%w: source %s record %q missing identity fields",
			source.ErrMalformedRecord, sourceName, r.NativeID)
	}

	priority := model.DefaultPriority
	if p, ok := priorityTable[r.Priority]; ok {
		priority = p
	}

	energy, attention := levelsFromLabels(r.Labels)

	created := r.Created.Time
	if created.IsZero() {
		created = r.Modified.Time
	}
	activity := r.Modified.Time
	if activity.Before(created) {
		activity = created
	}

	var due *time.Time
	if r.Due != nil && !r.Due.IsZero() {
		d := r.Due.Time
		due = &d
	}

	key := model.NormalizeKey(title)
	return model.Task{
		ID:             model.DeriveID(key, created),
		Title:          title,
		NormalizedKey:  key,
		Priority:       priority,
		Energy:         energy,
		Attention:      attention,
		DueAt:          due,
		CreatedAt:      created,
		LastActivityAt: activity,
		Completed:      r.Completed,
		Provenance:     map[string]string{sourceName: r.NativeID},
	}, nil
}

// NormalizeAll converts a whole fetch result, skipping malformed records
// and reporting how many were skipped.
func NormalizeAll(sourceName string, records []source.RawRecord) (tasks []model.Task, skipped int) {
	for _, r := range records {
		task, err := Normalize(sourceName, r)
		if err != nil {
			skipped++
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, skipped
}

// levelsFromLabels extracts energy/attention requirements from tagged
// labels such as "energy-low" or "attention-high". Absent tags default
// to medium.
func levelsFromLabels(labels []string) (energy, attention model.Level) {
	energy, attention = model.DefaultLevel, model.DefaultLevel
	for _, label := range labels {
		m := levelLabel.FindStringSubmatch(strings.ToLower(strings.TrimSpace(label)))
		if m == nil {
			continue
		}
		switch m[1] {
		case "energy":
			energy = model.Level(m[2])
		case "attention":
			attention = model.Level(m[2])
		}
	}
	return energy, attention
}
