// Package settings persists the last-used batch parameters between
// sessions. The on-disk format is owned by the host panel: a
// newline-delimited key:value text record with exactly four keys. Any
// anomaly while loading (missing file, version mismatch, unknown or
// missing key, malformed value) silently falls back to defaults; a
// stale or damaged record is never worth surfacing to the user.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/retime/retime-agent/internal/timeline"
)

// SchemaVersion gates the record: a mismatch discards it entirely.
const SchemaVersion = 1

const Filename = "settings.txt"

// Record is the persisted settings value.
type Record struct {
	SchemaVersion   int
	DurationSeconds int
	DurationFrames  int
	RepositionMode  timeline.Mode
}

// Defaults is the record used whenever no valid persisted record exists.
func Defaults() Record {
	return Record{
		SchemaVersion:   SchemaVersion,
		DurationSeconds: 1,
		DurationFrames:  0,
		RepositionMode:  timeline.ModeNone,
	}
}

// Spec returns the record's duration as a timeline spec.
func (r Record) Spec() timeline.DurationSpec {
	return timeline.DurationSpec{Seconds: r.DurationSeconds, Frames: r.DurationFrames}
}

// Store reads and writes the settings record under a data directory.
type Store struct {
	path string
}

func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, Filename)}
}

func (s *Store) Path() string { return s.path }

// Load returns the persisted record, or Defaults() if no valid record
// exists. Load never fails: every I/O or parse problem is absorbed.
func (s *Store) Load() Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Defaults()
	}
	rec, err := parse(string(data))
	if err != nil {
		return Defaults()
	}
	return rec
}

// Save writes the record atomically (temp file, then rename).
func (s *Store) Save(rec Record) error {
	rec.SchemaVersion = SchemaVersion

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), Filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(format(rec)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close settings file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func format(rec Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "schemaVersion:%d\n", rec.SchemaVersion)
	fmt.Fprintf(&b, "durationSeconds:%d\n", rec.DurationSeconds)
	fmt.Fprintf(&b, "durationFrames:%d\n", rec.DurationFrames)
	fmt.Fprintf(&b, "repositionMode:%d\n", int(rec.RepositionMode))
	return b.String()
}

func parse(data string) (Record, error) {
	fields := map[string]int{}
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return Record{}, fmt.Errorf("malformed line %q", line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return Record{}, fmt.Errorf("malformed value for %q: %w", key, err)
		}
		key = strings.TrimSpace(key)
		switch key {
		case "schemaVersion", "durationSeconds", "durationFrames", "repositionMode":
			if _, dup := fields[key]; dup {
				return Record{}, fmt.Errorf("duplicate key %q", key)
			}
			fields[key] = n
		default:
			return Record{}, fmt.Errorf("unknown key %q", key)
		}
	}
	if len(fields) != 4 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return Record{}, fmt.Errorf("incomplete record, have %v", keys)
	}
	if fields["schemaVersion"] != SchemaVersion {
		return Record{}, fmt.Errorf("schema version %d, expected %d", fields["schemaVersion"], SchemaVersion)
	}
	mode := timeline.Mode(fields["repositionMode"])
	if !mode.Valid() {
		return Record{}, fmt.Errorf("invalid reposition mode %d", fields["repositionMode"])
	}
	return Record{
		SchemaVersion:   fields["schemaVersion"],
		DurationSeconds: fields["durationSeconds"],
		DurationFrames:  fields["durationFrames"],
		RepositionMode:  mode,
	}, nil
}
