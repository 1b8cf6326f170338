package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"jobradar/internal/domain/job"
)

// ErrStoreWrite wraps any failure to persist the snapshot. Reads never fail:
// a missing or malformed file is treated as an empty store.
var ErrStoreWrite = errors.New("job store write failed")

// A full-refresh sweep yielding fewer records than this is assumed to have hit
// an anti-scraping block; the caller merges into the previous snapshot instead
// of replacing it.
const replaceGuardThreshold = 5

// JobStore is the shared, file-backed repository of job records. The whole
// snapshot is read before every merge and rewritten in full on every write.
// There is no locking between concurrent writers; interleaved read-merge-write
// cycles may lose records and callers must treat the store as best-effort
// storage, not a transactional one.
type JobStore struct {
	path   string
	logger *log.Logger
}

// Stats groups the current snapshot by source.
type Stats struct {
	Total   int                     `json:"total"`
	Sources map[string][]job.Record `json:"sources"`
}

func New(path string, logger *log.Logger) *JobStore {
	if logger == nil {
		logger = log.Default()
	}
	return &JobStore{path: path, logger: logger}
}

func (s *JobStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// ReadAll parses the persisted snapshot. A missing or malformed file yields an
// empty list, never an error: callers treat absence as "no jobs yet".
func (s *JobStore) ReadAll() []job.Record {
	if s == nil || s.path == "" {
		return []job.Record{}
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("[store] read failed, treating as empty: %v", err)
		}
		return []job.Record{}
	}
	var out []job.Record
	if err := json.Unmarshal(b, &out); err != nil {
		s.logger.Printf("[store] malformed snapshot, treating as empty: %v", err)
		return []job.Record{}
	}
	if out == nil {
		out = []job.Record{}
	}
	return out
}

// MergeAndWrite appends the new records that are not (title, company)
// duplicates of existing ones, placing them first, and persists the merged
// snapshot. Existing data wins over newly scraped duplicates. Returns how many
// records were actually added.
func (s *JobStore) MergeAndWrite(newRecords, existing []job.Record) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("%w: nil store", ErrStoreWrite)
	}
	keys := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		keys[r.DedupKey()] = struct{}{}
	}

	merged := make([]job.Record, 0, len(existing)+len(newRecords))
	added := 0
	for _, r := range newRecords {
		if _, dup := keys[r.DedupKey()]; dup {
			continue
		}
		keys[r.DedupKey()] = struct{}{}
		merged = append(merged, r)
		added++
	}
	merged = append(merged, existing...)

	if err := s.write(merged); err != nil {
		return 0, err
	}
	return added, nil
}

// ReplaceAll unconditionally overwrites the snapshot. Used by full-refresh
// sweeps that intend to discard prior fallback/staging data.
func (s *JobStore) ReplaceAll(records []job.Record) error {
	if s == nil {
		return fmt.Errorf("%w: nil store", ErrStoreWrite)
	}
	if records == nil {
		records = []job.Record{}
	}
	return s.write(records)
}

// ReplaceOrMerge replaces the snapshot with the sweep result, unless the
// result is suspiciously small, in which case it merges into the previous
// snapshot so a transient anti-scraping block cannot erase good data.
func (s *JobStore) ReplaceOrMerge(records []job.Record) error {
	if len(records) >= replaceGuardThreshold {
		return s.ReplaceAll(records)
	}
	s.logger.Printf("[store] sweep yielded only %d record(s), merging into previous snapshot instead of replacing", len(records))
	_, err := s.MergeAndWrite(records, s.ReadAll())
	return err
}

// Stats groups the current snapshot by source. O(n) scan, no caching here.
func (s *JobStore) Stats() Stats {
	records := s.ReadAll()
	st := Stats{Total: len(records), Sources: map[string][]job.Record{}}
	for _, r := range records {
		src := r.Source
		if src == "" {
			src = "Unknown"
		}
		st.Sources[src] = append(st.Sources[src], r)
	}
	return st
}

// write serializes the full snapshot to a temp file and renames it into place,
// so a crash mid-write leaves the previous snapshot intact.
func (s *JobStore) write(records []job.Record) error {
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	tmp, err := os.CreateTemp(dir, ".jobs-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return nil
}
