package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotProvider reads a persisted fetch snapshot (a JSON array of
// RawRecord) from disk and serves it as just another fetch result. The
// engine is agnostic to cache freshness; whoever writes the snapshot
// owns that policy.
type SnapshotProvider struct {
	name string
	path string
}

func NewSnapshotProvider(name, path string) *SnapshotProvider {
	return &SnapshotProvider{name: name, path: path}
}

func (p *SnapshotProvider) Name() string { return p.name }

func (p *SnapshotProvider) FetchAll(ctx context.Context) ([]RawRecord, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot %s: %v", ErrSourceUnavailable, p.path, err)
	}
	defer f.Close()

	var records []RawRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode snapshot %s: %v", ErrSourceUnavailable, p.path, err)
	}
	return records, nil
}

// WriteSnapshot persists a fetch result in the snapshot format, creating
// the parent directory as needed.
func WriteSnapshot(path string, records []RawRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
