package queue

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/ruancarvalho/pedidosync-backend/pkg/errors"
)

// Entry is one queued scan, persisted with its original Portuguese field
// names so existing queue files from the mobile flow stay readable.
type Entry struct {
	Code string `json:"codigo"`
	Time string `json:"hora"`
}

// Store persists pending scans as a JSON array on disk. The file is the
// source of truth; every write rewrites it wholesale. A single process owns
// the file, so a mutex is enough and no file locking is done.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the pending entries. A missing or unreadable file is an empty
// queue, never an error: the queue exists to absorb faults, not add them.
func (s *Store) Load() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

// Append adds one entry to the end of the queue.
func (s *Store) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(append(s.load(), e))
}

// Replace rewrites the whole queue with the surviving entries.
func (s *Store) Replace(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(entries)
}

func (s *Store) write(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding queue file")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "writing queue file")
	}
	return nil
}
