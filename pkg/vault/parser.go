package vault

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"regexp"
	"strings"
	"time"

	"tasktriage/pkg/source"
)

var (
	checkboxRegex = regexp.MustCompile(`^\s*- \[( |x|X)\]\s+(.*)$`)
	priorityRegex = regexp.MustCompile(`#P([1-4])\b`)
	levelRegex    = regexp.MustCompile(`#(energy|attention)/(low|medium|high)\b`)
	dueRegex      = regexp.MustCompile(`(?:📅\s*|\bdue:)(\d{4}-\d{2}-\d{2})`)
	createdRegex  = regexp.MustCompile(`➕\s*(\d{4}-\d{2}-\d{2})`)
	blockIDRegex  = regexp.MustCompile(`\^([A-Za-z0-9-]+)\s*$`)
)

// ParseTasks reads markdown checkbox lines into raw records. Recognized
// task syntax on a "- [ ]" line:
//
//	#P1..#P4             priority tag (P1 most urgent)
//	#energy/high         energy requirement
//	#attention/low       attention requirement
//	📅 2026-08-30        due date (also due:2026-08-30)
//	➕ 2026-08-01        creation date
//	^abc123              block id, used as the native id
//
// Lines without a block id get a content-derived id, stable for as long
// as the line itself is unchanged. modTime stands in for any timestamp
// the line does not carry.
func ParseTasks(r io.Reader, modTime time.Time) ([]source.RawRecord, error) {
	scanner := bufio.NewScanner(r)
	var records []source.RawRecord

	for scanner.Scan() {
		line := scanner.Text()
		m := checkboxRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		completed := m[1] == "x" || m[1] == "X"
		body := m[2]

		record := source.RawRecord{
			NativeID:  lineID(body),
			Title:     cleanTitle(body),
			Completed: completed,
			Modified:  source.Timestamp{Time: modTime},
		}

		if pm := priorityRegex.FindStringSubmatch(body); pm != nil {
			// #P1 is the most urgent; the native wire scale counts up.
			switch pm[1] {
			case "1":
				record.Priority = 4
			case "2":
				record.Priority = 3
			case "3":
				record.Priority = 2
			case "4":
				record.Priority = 1
			}
		}

		for _, lm := range levelRegex.FindAllStringSubmatch(body, -1) {
			record.Labels = append(record.Labels, lm[1]+"-"+lm[2])
		}

		if dm := dueRegex.FindStringSubmatch(body); dm != nil {
			if due, err := time.Parse("2006-01-02", dm[1]); err == nil {
				record.Due = &source.Timestamp{Time: due}
			}
		}
		if cm := createdRegex.FindStringSubmatch(body); cm != nil {
			if created, err := time.Parse("2006-01-02", cm[1]); err == nil {
				record.Created = source.Timestamp{Time: created}
			}
		}
		if record.Created.IsZero() {
			record.Created = source.Timestamp{Time: modTime}
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// lineID prefers an explicit block id; otherwise it derives a stable id
// from the line content.
func lineID(body string) string {
	if m := blockIDRegex.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	sum := sha256.Sum256([]byte(strings.TrimSpace(body)))
	return hex.EncodeToString(sum[:])[:8]
}

// cleanTitle strips task metadata tags from the display title.
func cleanTitle(body string) string {
	title := body
	title = blockIDRegex.ReplaceAllString(title, "")
	title = priorityRegex.ReplaceAllString(title, "")
	title = levelRegex.ReplaceAllString(title, "")
	title = dueRegex.ReplaceAllString(title, "")
	title = createdRegex.ReplaceAllString(title, "")
	return strings.Join(strings.Fields(title), " ")
}
