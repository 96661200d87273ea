// Package reconcile propagates a task's completion to every source
// system in its provenance. Dispatch is idempotent and tolerates
// partial failure: systems that fail are retried on a later run,
// systems that succeeded are never re-dispatched, and a completion is
// never rolled back because a sibling system failed.
package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tasktriage/pkg/model"
	"tasktriage/pkg/source"
)

// State is the terminal disposition of one completion request.
type State string

const (
	StateSettled          State = "settled"
	StatePartiallySettled State = "partially_settled"
)

// SystemOutcome is the result of one dispatch to one source system.
type SystemOutcome struct {
	System   string
	NativeID string
	Status   source.CompletionStatus
	Err      string
}

// Result reports which systems acknowledged completion and which did
// not, so failures surface to the caller instead of being lost.
type Result struct {
	TaskID string
	State  State
	// AlreadySettled means every system had acknowledged on a prior run
	// and no dispatch was issued at all.
	AlreadySettled bool
	Succeeded      []SystemOutcome
	Failed         []SystemOutcome
}

// Reconciler fans completions out to the configured sinks, journaling
// progress between runs.
type Reconciler struct {
	journal *Journal
	sinks   map[string]source.Sink
	now     func() time.Time
}

func New(journal *Journal, sinks []source.Sink) *Reconciler {
	byName := make(map[string]source.Sink, len(sinks))
	for _, s := range sinks {
		byName[s.Name()] = s
	}
	return &Reconciler{journal: journal, sinks: byName, now: time.Now}
}

// Complete marks a task complete in every system listed in its
// provenance. Systems the journal already shows as done are skipped; a
// sink reporting "already complete" counts as success. The returned
// error covers only journal persistence, never individual dispatches.
func (r *Reconciler) Complete(ctx context.Context, task model.Task) (Result, error) {
	entry := r.journal.entryFor(task.ID, task.Title, task.Provenance, r.now())

	result := Result{TaskID: task.ID}
	var pending []string
	for system, state := range entry.Systems {
		if state.Done {
			result.Succeeded = append(result.Succeeded, SystemOutcome{
				System:   system,
				NativeID: state.NativeID,
				Status:   source.CompletionStatus(state.Status),
			})
			continue
		}
		pending = append(pending, system)
	}
	sort.Strings(pending)

	if len(pending) == 0 {
		result.State = StateSettled
		result.AlreadySettled = true
		sortOutcomes(result.Succeeded)
		return result, r.journal.Save()
	}

	// Fan out concurrently; each system lands in its own slot, so there
	// is no ordering dependency between systems.
	outcomes := make([]SystemOutcome, len(pending))
	var wg sync.WaitGroup
	for i, system := range pending {
		wg.Add(1)
		go func(i int, system string) {
			defer wg.Done()
			outcomes[i] = r.dispatch(ctx, system, entry.Systems[system].NativeID)
		}(i, system)
	}
	wg.Wait()

	now := r.now()
	for _, o := range outcomes {
		done := o.Err == "" && o.Status != source.StatusNotFound
		r.journal.record(task.ID, o.System, done, string(o.Status), o.Err, now)
		if done {
			result.Succeeded = append(result.Succeeded, o)
		} else {
			result.Failed = append(result.Failed, o)
		}
	}
	sortOutcomes(result.Succeeded)
	sortOutcomes(result.Failed)

	if len(result.Failed) == 0 {
		result.State = StateSettled
	} else {
		result.State = StatePartiallySettled
	}
	return result, r.journal.Save()
}

// dispatch issues one idempotent mark-complete call. Once started it
// runs to completion or is reported as failed, never left ambiguous.
func (r *Reconciler) dispatch(ctx context.Context, system, nativeID string) SystemOutcome {
	out := SystemOutcome{System: system, NativeID: nativeID}

	sink, ok := r.sinks[system]
	if !ok {
		out.Err = fmt.Sprintf("no sink configured for system %q", system)
		return out
	}

	status, err := sink.MarkComplete(ctx, nativeID)
	out.Status = status
	if err != nil {
		out.Err = err.Error()
		return out
	}
	if status == source.StatusNotFound {
		out.Err = fmt.Sprintf("native id %q no longer exists in %s", nativeID, system)
	}
	return out
}

func sortOutcomes(outcomes []SystemOutcome) {
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].System < outcomes[j].System
	})
}
