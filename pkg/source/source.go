package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrSourceUnavailable marks a whole-source failure. The engine treats the
// source as absent for the run and proceeds with the remaining sources.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrMalformedRecord marks a single raw record missing its identity fields
// (native id, title). The caller skips the record and continues.
var ErrMalformedRecord = errors.New("malformed record")

// CompletionStatus is the outcome of a mark-complete call against a
// source system.
type CompletionStatus string

const (
	StatusSuccess         CompletionStatus = "success"
	StatusAlreadyComplete CompletionStatus = "already_complete"
	StatusNotFound        CompletionStatus = "not_found"
)

// Provider supplies raw task records for one source system.
type Provider interface {
	// Name identifies the source system, e.g. "gtasks" or "vault".
	Name() string
	// FetchAll returns every raw record the source currently knows about.
	// A failure wraps ErrSourceUnavailable.
	FetchAll(ctx context.Context) ([]RawRecord, error)
}

// Sink accepts completion writes for one source system. Marking an
// already-completed record is success, not an error.
type Sink interface {
	Name() string
	MarkComplete(ctx context.Context, nativeID string) (CompletionStatus, error)
}

// Timestamp accepts both RFC 3339 and bare-date values, since cloud APIs
// emit the former and note files carry the latter.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		ts.Time = t
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	ts.Time = t
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ts.Time.UTC().Format(time.RFC3339) + `"`), nil
}

// RawRecord is the wire shape every provider emits, and the persisted
// snapshot format. Priority uses the native cloud scale 1-4 where 4 is
// the most urgent; 0 means no priority signal. Labels carry tags such as
// "energy-high" or "attention-low".
type RawRecord struct {
	NativeID  string     `json:"native_id"`
	Title     string     `json:"title"`
	Priority  int        `json:"priority,omitempty"`
	Due       *Timestamp `json:"due,omitempty"`
	Labels    []string   `json:"labels,omitempty"`
	Completed bool       `json:"completed"`
	Created   Timestamp  `json:"created"`
	Modified  Timestamp  `json:"modified"`
}
