package gtasks

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	priorityLine = regexp.MustCompile(`(?mi)^priority:\s*([1-4])\s*$`)
	levelTag     = regexp.MustCompile(`(?i)\b(energy|attention)-(low|medium|high)\b`)
)

// ParseNotes extracts the native priority (1-4, 4 most urgent; 0 when
// absent) and any energy/attention labels from a task's notes body.
// Google Tasks offers no structured fields for either, so the convention
// is a "priority: N" line plus inline tags like "energy-high".
func ParseNotes(notes string) (priority int, labels []string) {
	if notes == "" {
		return 0, nil
	}

	if m := priorityLine.FindStringSubmatch(notes); m != nil {
		priority, _ = strconv.Atoi(m[1])
	}

	seen := make(map[string]bool)
	for _, m := range levelTag.FindAllStringSubmatch(notes, -1) {
		label := strings.ToLower(m[1] + "-" + m[2])
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return priority, labels
}
