// Package stale flags incomplete tasks that have shown no activity
// beyond a threshold. It is read-only: archival or completion of a
// stale task is a write-back decision left to the caller.
package stale

import (
	"sort"
	"time"

	"tasktriage/pkg/model"
)

// DefaultThresholdDays is how long a task may sit without activity
// before it is flagged.
const DefaultThresholdDays = 30

// FindStale returns incomplete tasks whose last activity is strictly
// older than thresholdDays before now. The threshold is exclusive: a
// task last touched exactly thresholdDays ago is not stale. Results are
// ordered stalest first.
func FindStale(tasks []model.Task, now time.Time, thresholdDays int) []model.Task {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}
	cutoff := now.Add(-time.Duration(thresholdDays) * 24 * time.Hour)

	var flagged []model.Task
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if t.LastActivityAt.Before(cutoff) {
			flagged = append(flagged, t)
		}
	}

	sort.Slice(flagged, func(i, j int) bool {
		if !flagged[i].LastActivityAt.Equal(flagged[j].LastActivityAt) {
			return flagged[i].LastActivityAt.Before(flagged[j].LastActivityAt)
		}
		return flagged[i].ID < flagged[j].ID
	})
	return flagged
}
