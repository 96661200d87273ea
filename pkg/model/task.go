package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"
)

// Priority is the four-level urgency ordinal. P1 is the most urgent.
type Priority string

const (
	P1 Priority = "P1"
	P2 Priority = "P2"
	P3 Priority = "P3"
	P4 Priority = "P4"
)

// DefaultPriority is used when a source record carries no priority signal.
const DefaultPriority = P4

// Rank returns the urgency rank of a priority, 0 being the most urgent.
// Unknown values rank below P4.
func (p Priority) Rank() int {
	switch p {
	case P1:
		return 0
	case P2:
		return 1
	case P3:
		return 2
	case P4:
		return 3
	}
	return 4
}

// MoreUrgent returns the more urgent of two priorities.
func MoreUrgent(a, b Priority) Priority {
	if b.Rank() < a.Rank() {
		return b
	}
	return a
}

// Level is the three-level energy/attention ordinal.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// DefaultLevel is used when a source record carries no energy or attention tag.
const DefaultLevel = Medium

// Rank returns the ordinal rank of a level: low < medium < high.
// Unknown values rank as medium.
func (l Level) Rank() int {
	switch l {
	case Low:
		return 0
	case High:
		return 2
	}
	return 1
}

// HigherLevel returns the more demanding of two levels.
func HigherLevel(a, b Level) Level {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Task is the unified representation of a task across all source systems.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	NormalizedKey string     `json:"normalized_key"`
	Priority      Priority   `json:"priority"`
	Energy        Level      `json:"energy"`
	Attention     Level      `json:"attention"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	// LastActivityAt is the maximum last-modified timestamp across all
	// contributing source records and any reconciliation touch.
	LastActivityAt time.Time `json:"last_activity_at"`
	Completed      bool      `json:"completed"`
	// Provenance maps each source-system name to that system's native
	// record id. It is never empty for a normalized task and drives
	// completion fan-out.
	Provenance map[string]string `json:"provenance"`
	// Score is the last computed Attention Tax. Derived, recomputed on
	// demand, never persisted as source of truth.
	Score float64 `json:"score,omitempty"`
}

// Capacity is today's self-reported energy and attention, read fresh each run.
type Capacity struct {
	Energy    Level `json:"energy"`
	Attention Level `json:"attention"`
}

// DefaultCapacity is assumed when no explicit signal exists for today.
func DefaultCapacity() Capacity {
	return Capacity{Energy: DefaultLevel, Attention: DefaultLevel}
}

// Allows reports whether a task's requirements fit within this capacity.
// A task must not demand more than is available in either dimension.
func (c Capacity) Allows(energy, attention Level) bool {
	return energy.Rank() <= c.Energy.Rank() && attention.Rank() <= c.Attention.Rank()
}

// NormalizeKey derives the matching key for a title: lower-cased,
// punctuation stripped, whitespace collapsed. Display titles keep their
// original casing; only matching uses the key.
func NormalizeKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// Punctuation splits tokens rather than gluing them together.
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// KeyTokens splits a normalized key into its token set.
func KeyTokens(key string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(key) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// DeriveID computes the stable task id from the normalized key and the
// earliest known creation time. A task merged from several sources keeps
// the same id across runs because neither input depends on any single
// source's native id.
func DeriveID(key string, created time.Time) string {
	sum := sha256.Sum256([]byte(key + "|" + created.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(sum[:])[:12]
}
