// Package syncmap persists the mapping between local artifact paths and the
// remote identities created for them, together with the change-detection
// metadata the engine needs to decide whether a remote write can be skipped.
package syncmap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-coursesync/internal/logging"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// FileName is the fixed location of the sync map under the content root.
const FileName = ".course_sync_map.json"

// Record tracks the remote identity and change-detection metadata for a
// single local path. URL and Items are optional: URL is set for uploaded
// binaries, Items for quiz questions nested under a quiz object.
type Record struct {
	ID    string            `json:"id"`
	MTime int64             `json:"mtime,omitempty"`
	URL   string            `json:"url,omitempty"`
	Items map[string]string `json:"items,omitempty"`
}

// Store is the durable path-to-record mapping. The whole document is loaded
// into memory at run start and persisted atomically after every mutation, so
// a crash mid-run loses at most the in-flight artifact's update.
type Store struct {
	root    string
	path    string
	records map[string]Record
	logger  interfaces.Logger
}

// Open loads the sync map under contentRoot, creating an empty store when the
// file does not exist yet. Legacy entries holding a bare identity value are
// upgraded to structured records transparently.
func Open(contentRoot string, logger interfaces.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NoOp()
	}

	store := &Store{
		root:    filepath.Clean(contentRoot),
		path:    filepath.Join(contentRoot, FileName),
		records: map[string]Record{},
		logger:  logger,
	}

	data, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("syncmap: read %s: %w", store.path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("syncmap: parse %s: %w", store.path, err)
	}

	for key, value := range raw {
		record, err := decodeRecord(value)
		if err != nil {
			logger.Warn("skipping unreadable sync map entry", "path", key, "error", err)
			continue
		}
		store.records[normalizeKey(key)] = record
	}

	return store, nil
}

// Get returns the record stored for the given relative path.
func (s *Store) Get(rel string) (Record, bool) {
	record, ok := s.records[normalizeKey(rel)]
	return record, ok
}

// Put stores the record for rel and persists the full map atomically.
func (s *Store) Put(rel string, record Record) error {
	s.records[normalizeKey(rel)] = record
	return s.save()
}

// Delete removes the record for rel and persists the map. Removing a missing
// key is a no-op.
func (s *Store) Delete(rel string) error {
	key := normalizeKey(rel)
	if _, ok := s.records[key]; !ok {
		return nil
	}
	delete(s.records, key)
	return s.save()
}

// Len reports the number of live records.
func (s *Store) Len() int {
	return len(s.records)
}

// Rel converts an absolute or root-relative path into the slash-normalized
// key used by the store.
func (s *Store) Rel(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return normalizeKey(clean), nil
	}
	rel, err := filepath.Rel(s.root, clean)
	if err != nil {
		return "", fmt.Errorf("syncmap: make relative %s: %w", path, err)
	}
	return normalizeKey(rel), nil
}

// Root returns the content root the store is anchored to.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.records, "", "    ")
	if err != nil {
		return fmt.Errorf("syncmap: encode: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("syncmap: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("syncmap: replace %s: %w", s.path, err)
	}
	return nil
}

// decodeRecord accepts both the structured record shape and the legacy
// bare-identity shape (a JSON string or number).
func decodeRecord(value json.RawMessage) (Record, error) {
	var record Record
	if err := json.Unmarshal(value, &record); err == nil {
		return record, nil
	}

	var id string
	if err := json.Unmarshal(value, &id); err == nil {
		return Record{ID: id}, nil
	}

	var numeric json.Number
	if err := json.Unmarshal(value, &numeric); err == nil {
		return Record{ID: numeric.String()}, nil
	}

	return Record{}, fmt.Errorf("unsupported entry shape %s", strconv.Quote(string(value)))
}

func normalizeKey(rel string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(rel)), "./")
}
