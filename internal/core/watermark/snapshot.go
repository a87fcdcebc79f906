package watermark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const snapshotFileMode = 0o644

// Snapshot maps a source identifier to its last-observed-at timestamp.
type Snapshot map[string]time.Time

// Store persists the watermark snapshot as a flat JSON file. It is read once
// at run start and written once at run end; concurrent runs would race on the
// file and are not supported.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot. A missing file is a first run and yields an empty
// snapshot; an unreadable or malformed file is an error, since proceeding
// without the real marks would re-announce history.
func (s *Store) Load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}

		return nil, fmt.Errorf("read watermark snapshot: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse watermark snapshot: %w", err)
	}

	snap := make(Snapshot, len(raw))

	for source, ts := range raw {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parse watermark for %s: %w", source, err)
		}

		snap[source] = t
	}

	return snap, nil
}

// Save replaces the snapshot file atomically (temp file + rename), so a crash
// mid-write leaves the previous complete snapshot intact.
func (s *Store) Save(snap Snapshot) error {
	raw := make(map[string]string, len(snap))
	for source, t := range snap {
		raw[source] = t.UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode watermark snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("write temp snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Chmod(tmpName, snapshotFileMode); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("chmod temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}
