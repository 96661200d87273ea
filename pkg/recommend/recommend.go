// Package recommend selects a capacity-bounded subset of the unified
// task set, ranked by Attention Tax.
package recommend

import (
	"sort"
	"time"

	"tasktriage/pkg/model"
)

// DefaultMaxTasks bounds a recommendation when the caller gives no limit.
const DefaultMaxTasks = 5

// Tasks without a due date sort after every dated task.
var noDue = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Recommend filters out completed tasks and tasks whose energy or
// attention requirement exceeds today's capacity, ranks the rest by
// score descending (ties: earlier due date, then earlier creation so
// long-lived tasks are not starved), and truncates to maxTasks. An
// empty result is a valid answer, never an error.
func Recommend(tasks []model.Task, capacity model.Capacity, maxTasks int) []model.Task {
	if maxTasks <= 0 {
		maxTasks = DefaultMaxTasks
	}

	matched := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if !capacity.Allows(t.Energy, t.Attention) {
			continue
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if du, dv := dueOrder(a), dueOrder(b); !du.Equal(dv) {
			return du.Before(dv)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	if len(matched) > maxTasks {
		matched = matched[:maxTasks]
	}
	return matched
}

func dueOrder(t model.Task) time.Time {
	if t.DueAt == nil {
		return noDue
	}
	return *t.DueAt
}
