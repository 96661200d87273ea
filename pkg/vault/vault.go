// Package vault reads tasks out of a markdown note vault: a dedicated
// task database file plus daily notes. The vault is also a completion
// sink - finishing a task rewrites its checkbox in place.
package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tasktriage/pkg/source"
)

// SourceName identifies the task database in provenance maps.
const SourceName = "vault"

// TaskDatabase is the provider and sink for the vault's dedicated task
// file (one checkbox line per task).
type TaskDatabase struct {
	path string
}

// NewTaskDatabase points at the task file, usually <vault>/Tasks.md.
func NewTaskDatabase(vaultPath, taskFile string) *TaskDatabase {
	return &TaskDatabase{path: filepath.Join(vaultPath, taskFile)}
}

func (d *TaskDatabase) Name() string { return SourceName }

// FetchAll parses every checkbox line in the task file. A missing file
// means the source is unavailable, not empty - the operator configured a
// vault that is not there.
func (d *TaskDatabase) FetchAll(ctx context.Context) ([]source.RawRecord, error) {
	info, err := os.Stat(d.path)
	if err != nil {
		return nil, fmt.Errorf("%w: task database %s: %v", source.ErrSourceUnavailable, d.path, err)
	}
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("%w: task database %s: %v", source.ErrSourceUnavailable, d.path, err)
	}
	defer f.Close()

	records, err := ParseTasks(f, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", source.ErrSourceUnavailable, d.path, err)
	}
	return records, nil
}

// MarkComplete rewrites the matching line's checkbox from "[ ]" to
// "[x]". The file is rewritten whole; vault files are small.
func (d *TaskDatabase) MarkComplete(ctx context.Context, nativeID string) (source.CompletionStatus, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return "", fmt.Errorf("vault mark complete: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		m := checkboxRegex.FindStringSubmatch(line)
		if m == nil || lineID(m[2]) != nativeID {
			continue
		}
		if m[1] == "x" || m[1] == "X" {
			return source.StatusAlreadyComplete, nil
		}

		idx := strings.Index(line, "- [ ]")
		lines[i] = line[:idx] + "- [x]" + line[idx+len("- [ ]"):]
		if err := os.WriteFile(d.path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
			return "", fmt.Errorf("vault mark complete: %w", err)
		}
		return source.StatusSuccess, nil
	}

	return source.StatusNotFound, nil
}
