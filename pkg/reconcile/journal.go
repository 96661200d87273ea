package reconcile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SystemState tracks one source system's progress toward acknowledging
// a completion.
type SystemState struct {
	NativeID  string    `json:"native_id"`
	Done      bool      `json:"done"`
	Status    string    `json:"status,omitempty"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry is the journal record for one task's completion fan-out.
type Entry struct {
	RequestID   string                  `json:"request_id"`
	TaskID      string                  `json:"task_id"`
	Title       string                  `json:"title"`
	RequestedAt time.Time               `json:"requested_at"`
	Systems     map[string]*SystemState `json:"systems"`
}

// Settled reports whether every system has acknowledged completion.
func (e *Entry) Settled() bool {
	if len(e.Systems) == 0 {
		return false
	}
	for _, s := range e.Systems {
		if !s.Done {
			return false
		}
	}
	return true
}

// Journal persists completion fan-out state between runs so a later
// invocation retries only the systems that have not yet acknowledged.
// Systems already recorded as done are never re-dispatched.
type Journal struct {
	Entries map[string]*Entry `json:"entries"`
	Path    string            `json:"-"`
	mu      sync.Mutex
	dirty   bool
}

// DefaultJournalPath is ~/.config/tasktriage/completions.json.
func DefaultJournalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tasktriage", "completions.json"), nil
}

func NewJournal(path string) (*Journal, error) {
	j := &Journal{
		Entries: make(map[string]*Entry),
		Path:    path,
	}
	if _, err := os.Stat(path); err == nil {
		if err := j.Load(); err != nil {
			return nil, err
		}
	}
	return j, nil
}

func (j *Journal) Load() error {
	f, err := os.Open(j.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(j)
}

func (j *Journal) Save() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(j.Path), 0700); err != nil {
		return err
	}
	f, err := os.Create(j.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(j); err != nil {
		return err
	}
	j.dirty = false
	return nil
}

// entryFor returns the journal entry for a task, creating it (and any
// missing system slots) from the task's provenance.
func (j *Journal) entryFor(taskID, title string, provenance map[string]string, now time.Time) *Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	e, ok := j.Entries[taskID]
	if !ok {
		e = &Entry{
			RequestID:   uuid.NewString(),
			TaskID:      taskID,
			Title:       title,
			RequestedAt: now,
			Systems:     make(map[string]*SystemState),
		}
		j.Entries[taskID] = e
		j.dirty = true
	}
	for system, nativeID := range provenance {
		if _, exists := e.Systems[system]; !exists {
			e.Systems[system] = &SystemState{NativeID: nativeID}
			j.dirty = true
		}
	}
	return e
}

// record stores the outcome of one dispatch.
func (j *Journal) record(taskID, system string, done bool, status, dispatchErr string, now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	e, ok := j.Entries[taskID]
	if !ok {
		return
	}
	s, ok := e.Systems[system]
	if !ok {
		return
	}
	s.Done = done
	s.Status = status
	s.LastError = dispatchErr
	s.Attempts++
	s.UpdatedAt = now
	j.dirty = true
}

// PruneSettled drops settled entries whose last activity predates the
// cutoff. Returns the number removed.
func (j *Journal) PruneSettled(cutoff time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	removed := 0
	for taskID, e := range j.Entries {
		if !e.Settled() {
			continue
		}
		latest := e.RequestedAt
		for _, s := range e.Systems {
			if s.UpdatedAt.After(latest) {
				latest = s.UpdatedAt
			}
		}
		if latest.Before(cutoff) {
			delete(j.Entries, taskID)
			removed++
			j.dirty = true
		}
	}
	return removed
}
