// Package dedup merges normalized tasks from all sources into one
// unified set. Matching is two-stage: exact normalized-key equality,
// then a token-overlap check for near-duplicate titles; both stages are
// bounded by a creation-time window so that generic titles ("Follow up")
// never merge across unrelated dates. Any ambiguity resolves to "not a
// duplicate" - a false negative is recoverable, an incorrect merge of
// distinct tasks is not.
package dedup

import (
	"sort"
	"time"

	"tasktriage/pkg/model"
)

// Options bound the duplicate match. Two records match only when their
// titles agree (exact key, or token-overlap ratio at or above
// SimilarityThreshold) AND their creation times fall within
// CreationWindow of each other.
type Options struct {
	SimilarityThreshold float64
	CreationWindow      time.Duration
}

func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: 0.8,
		CreationWindow:      7 * 24 * time.Hour,
	}
}

// Merge collapses duplicates across the input set. It is deterministic
// and order-independent: the input is canonically sorted before
// matching, and matches are judged on the original records, so
// re-running on the same snapshot, in any order, yields the same
// unified set with the same ids.
func Merge(tasks []model.Task, opts Options) []model.Task {
	if len(tasks) == 0 {
		return nil
	}

	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool {
		return taskLess(sorted[i], sorted[j])
	})

	parent := make([]int, len(sorted))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if !matches(sorted[i], sorted[j], opts) {
				continue
			}
			ri, rj := find(i), find(j)
			if ri != rj {
				if rj < ri {
					ri, rj = rj, ri
				}
				parent[rj] = ri
			}
		}
	}

	grouped := make(map[int][]model.Task)
	var order []int
	for i := range sorted {
		root := find(i)
		if _, seen := grouped[root]; !seen {
			order = append(order, root)
		}
		grouped[root] = append(grouped[root], sorted[i])
	}

	merged := make([]model.Task, 0, len(order))
	for _, root := range order {
		merged = append(merged, mergeGroup(grouped[root]))
	}
	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.Before(merged[j].CreatedAt)
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

// matches reports whether two records are the same logical task.
func matches(a, b model.Task, opts Options) bool {
	if !withinWindow(a.CreatedAt, b.CreatedAt, opts.CreationWindow) {
		return false
	}
	if a.NormalizedKey == b.NormalizedKey {
		return true
	}
	return tokenOverlap(a.NormalizedKey, b.NormalizedKey) >= opts.SimilarityThreshold
}

// mergeGroup folds a group of duplicate records into one task. Priority,
// energy and attention take the most conservative value among
// contributors so urgency and required capacity are never
// under-represented; a task counts as completed only when every
// contributing record agrees.
func mergeGroup(group []model.Task) model.Task {
	rep := group[0]
	for _, t := range group[1:] {
		if taskLess(t, rep) {
			rep = t
		}
	}

	out := model.Task{
		Title:          rep.Title,
		NormalizedKey:  rep.NormalizedKey,
		Priority:       rep.Priority,
		Energy:         rep.Energy,
		Attention:      rep.Attention,
		CreatedAt:      rep.CreatedAt,
		LastActivityAt: rep.LastActivityAt,
		Completed:      true,
		Provenance:     make(map[string]string, len(group)),
	}
	if rep.DueAt != nil {
		d := *rep.DueAt
		out.DueAt = &d
	}

	for _, t := range group {
		out.Priority = model.MoreUrgent(out.Priority, t.Priority)
		out.Energy = model.HigherLevel(out.Energy, t.Energy)
		out.Attention = model.HigherLevel(out.Attention, t.Attention)
		if t.CreatedAt.Before(out.CreatedAt) {
			out.CreatedAt = t.CreatedAt
		}
		if t.LastActivityAt.After(out.LastActivityAt) {
			out.LastActivityAt = t.LastActivityAt
		}
		if !t.Completed {
			out.Completed = false
		}
		if t.DueAt != nil && (out.DueAt == nil || t.DueAt.Before(*out.DueAt)) {
			d := *t.DueAt
			out.DueAt = &d
		}
		for system, nativeID := range t.Provenance {
			if _, exists := out.Provenance[system]; !exists {
				out.Provenance[system] = nativeID
			}
		}
	}

	out.ID = model.DeriveID(out.NormalizedKey, out.CreatedAt)
	return out
}

// taskLess is the canonical ordering used both to sort the input and to
// pick a merge representative: earliest created first, then key, title,
// and provenance as stable tiebreaks.
func taskLess(a, b model.Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if a.NormalizedKey != b.NormalizedKey {
		return a.NormalizedKey < b.NormalizedKey
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return provenanceKey(a) < provenanceKey(b)
}

func provenanceKey(t model.Task) string {
	systems := make([]string, 0, len(t.Provenance))
	for system, id := range t.Provenance {
		systems = append(systems, system+"="+id)
	}
	sort.Strings(systems)
	key := ""
	for _, s := range systems {
		key += s + ";"
	}
	return key
}

func withinWindow(a, b time.Time, window time.Duration) bool {
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	return delta <= window
}

// tokenOverlap is the Jaccard ratio of the two keys' token sets.
func tokenOverlap(a, b string) float64 {
	ta, tb := model.KeyTokens(a), model.KeyTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	intersection := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}
