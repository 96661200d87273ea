// Package engine ties the pipeline together: fetch from every
// configured source, normalize, deduplicate, score, and serve the
// recommend/list/status/complete/cleanup operations.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tasktriage/pkg/dedup"
	"tasktriage/pkg/model"
	"tasktriage/pkg/normalize"
	"tasktriage/pkg/recommend"
	"tasktriage/pkg/reconcile"
	"tasktriage/pkg/score"
	"tasktriage/pkg/source"
	"tasktriage/pkg/stale"
)

// DefaultFetchTimeout bounds each source fetch when the config gives
// no timeout.
const DefaultFetchTimeout = 10 * time.Second

// ErrNoSources means nothing is configured to fetch from.
var ErrNoSources = errors.New("no task sources configured")

// ErrAllSourcesFailed means every configured source was unavailable, so
// there is no task set to reason about.
var ErrAllSourcesFailed = errors.New("all task sources failed")

// ErrTaskNotFound means no unified task matches the given id.
var ErrTaskNotFound = errors.New("task not found")

// CapacityReader supplies today's self-reported capacity.
type CapacityReader interface {
	ReadCapacity() (model.Capacity, error)
}

// SourceStatus reports how one source fared during aggregation.
type SourceStatus struct {
	Name    string
	Fetched int
	Skipped int
	Err     error
}

// Engine owns the configured providers and policy for one run.
type Engine struct {
	providers    []source.Provider
	capacity     CapacityReader
	reconciler   *reconcile.Reconciler
	journal      *reconcile.Journal
	policy       score.Policy
	dedupOpts    dedup.Options
	fetchTimeout time.Duration
	now          func() time.Time
}

// Params collects everything an Engine needs. Zero-value policy fields
// fall back to the package defaults.
type Params struct {
	Providers    []source.Provider
	Capacity     CapacityReader
	Reconciler   *reconcile.Reconciler
	Journal      *reconcile.Journal
	Policy       score.Policy
	DedupOpts    dedup.Options
	FetchTimeout time.Duration
}

func New(p Params) *Engine {
	if p.Policy.PriorityWeights == nil {
		p.Policy = score.DefaultPolicy()
	}
	if p.DedupOpts.SimilarityThreshold == 0 {
		p.DedupOpts = dedup.DefaultOptions()
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = DefaultFetchTimeout
	}
	return &Engine{
		providers:    p.Providers,
		capacity:     p.Capacity,
		reconciler:   p.Reconciler,
		journal:      p.Journal,
		policy:       p.Policy,
		dedupOpts:    p.DedupOpts,
		fetchTimeout: p.FetchTimeout,
		now:          time.Now,
	}
}

// Aggregate fetches every source concurrently, normalizes, and merges
// duplicates into the unified task set. A failing source degrades the
// run (it is logged and reported in the statuses); only a total failure
// of every source, or an empty provider list, is an error.
func (e *Engine) Aggregate(ctx context.Context) ([]model.Task, []SourceStatus, error) {
	if len(e.providers) == 0 {
		return nil, nil, ErrNoSources
	}

	statuses := make([]SourceStatus, len(e.providers))
	results := make([][]source.RawRecord, len(e.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range e.providers {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, e.fetchTimeout)
			defer cancel()

			records, err := p.FetchAll(fetchCtx)
			statuses[i] = SourceStatus{Name: p.Name(), Err: err}
			results[i] = records
			// Source failures degrade, never cancel sibling fetches.
			return nil
		})
	}
	g.Wait()

	var tasks []model.Task
	failed := 0
	for i := range statuses {
		if statuses[i].Err != nil {
			failed++
			log.Printf("Warning: source %s unavailable, continuing without it: %v",
				statuses[i].Name, statuses[i].Err)
			continue
		}
		normalized, skipped := normalize.NormalizeAll(statuses[i].Name, results[i])
		statuses[i].Fetched = len(normalized)
		statuses[i].Skipped = skipped
		if skipped > 0 {
			log.Printf("Warning: source %s: skipped %d malformed record(s)", statuses[i].Name, skipped)
		}
		tasks = append(tasks, normalized...)
	}
	if failed == len(e.providers) {
		return nil, statuses, ErrAllSourcesFailed
	}

	return dedup.Merge(tasks, e.dedupOpts), statuses, nil
}

// scoreAll recomputes every task's Attention Tax against now.
func (e *Engine) scoreAll(tasks []model.Task) {
	now := e.now()
	for i := range tasks {
		tasks[i].Score = e.policy.Score(tasks[i], now)
	}
}

// ReadCapacity reads today's capacity, falling back to the default when
// no reader is configured or the read fails.
func (e *Engine) ReadCapacity() model.Capacity {
	if e.capacity == nil {
		return model.DefaultCapacity()
	}
	capacity, err := e.capacity.ReadCapacity()
	if err != nil {
		log.Printf("Warning: could not read today's capacity, assuming medium/medium: %v", err)
		return model.DefaultCapacity()
	}
	return capacity
}

// Recommendation is the answer to "what should I work on right now".
type Recommendation struct {
	Tasks    []model.Task
	Capacity model.Capacity
	Statuses []SourceStatus
}

// Recommend aggregates, scores, and selects up to maxTasks open tasks
// that fit today's capacity.
func (e *Engine) Recommend(ctx context.Context, maxTasks int) (Recommendation, error) {
	tasks, statuses, err := e.Aggregate(ctx)
	if err != nil {
		return Recommendation{Statuses: statuses}, err
	}
	e.scoreAll(tasks)

	capacity := e.ReadCapacity()
	return Recommendation{
		Tasks:    recommend.Recommend(tasks, capacity, maxTasks),
		Capacity: capacity,
		Statuses: statuses,
	}, nil
}

// ListFilter narrows List output. Zero values mean no filtering.
type ListFilter struct {
	Source   string
	Priority model.Priority
	All      bool // include completed tasks
}

// List returns the unified task set, scored and ranked, open tasks
// unless All is set.
func (e *Engine) List(ctx context.Context, filter ListFilter) ([]model.Task, []SourceStatus, error) {
	tasks, statuses, err := e.Aggregate(ctx)
	if err != nil {
		return nil, statuses, err
	}
	e.scoreAll(tasks)

	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed && !filter.All {
			continue
		}
		if filter.Source != "" {
			if _, ok := t.Provenance[filter.Source]; !ok {
				continue
			}
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		filtered = append(filtered, t)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Score != filtered[j].Score {
			return filtered[i].Score > filtered[j].Score
		}
		return filtered[i].ID < filtered[j].ID
	})
	return filtered, statuses, nil
}

// Status summarizes the unified set for the status command.
type Status struct {
	Total     int
	Open      int
	Completed int
	Overdue   int
	Stale     int
	Pending   int // completion journal entries not yet settled
	Statuses  []SourceStatus
}

func (e *Engine) Status(ctx context.Context, staleThresholdDays int) (Status, error) {
	tasks, statuses, err := e.Aggregate(ctx)
	if err != nil {
		return Status{Statuses: statuses}, err
	}

	now := e.now()
	st := Status{Total: len(tasks), Statuses: statuses}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
			continue
		}
		st.Open++
		if t.DueAt != nil && t.DueAt.Before(now) {
			st.Overdue++
		}
	}
	st.Stale = len(stale.FindStale(tasks, now, staleThresholdDays))

	if e.journal != nil {
		for _, entry := range e.journal.Entries {
			if !entry.Settled() {
				st.Pending++
			}
		}
	}
	return st, nil
}

// Complete finds the task by id (a unique prefix is accepted) and fans
// its completion out to every system in its provenance.
func (e *Engine) Complete(ctx context.Context, taskID string) (reconcile.Result, error) {
	if e.reconciler == nil {
		return reconcile.Result{}, errors.New("no completion sinks configured")
	}

	tasks, _, err := e.Aggregate(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}

	task, err := findTask(tasks, taskID)
	if err != nil {
		return reconcile.Result{}, err
	}
	return e.reconciler.Complete(ctx, task)
}

// CleanupReport is the outcome of a cleanup run.
type CleanupReport struct {
	Stale  []model.Task
	Pruned int
}

// Cleanup flags stale tasks and prunes settled journal entries older
// than the stale threshold. Flagging is read-only; what to do with a
// stale task stays with the owner.
func (e *Engine) Cleanup(ctx context.Context, thresholdDays int) (CleanupReport, error) {
	tasks, _, err := e.Aggregate(ctx)
	if err != nil {
		return CleanupReport{}, err
	}
	if thresholdDays <= 0 {
		thresholdDays = stale.DefaultThresholdDays
	}

	now := e.now()
	report := CleanupReport{Stale: stale.FindStale(tasks, now, thresholdDays)}

	if e.journal != nil {
		cutoff := now.Add(-time.Duration(thresholdDays) * 24 * time.Hour)
		report.Pruned = e.journal.PruneSettled(cutoff)
		if err := e.journal.Save(); err != nil {
			return report, fmt.Errorf("failed to save completion journal: %w", err)
		}
	}
	return report, nil
}

// findTask resolves a full id or unique prefix against the unified set.
func findTask(tasks []model.Task, taskID string) (model.Task, error) {
	var hits []model.Task
	for _, t := range tasks {
		if t.ID == taskID {
			return t, nil
		}
		if strings.HasPrefix(t.ID, taskID) {
			hits = append(hits, t)
		}
	}
	switch len(hits) {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	case 1:
		return hits[0], nil
	}
	return model.Task{}, fmt.Errorf("task id prefix %q is ambiguous (%d matches)", taskID, len(hits))
}
