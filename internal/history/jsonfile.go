package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MaxFileRecords is how many records the JSON file store keeps.
const MaxFileRecords = 100

// FileStore keeps the most recent records in a single JSON file. It is the
// fallback when SQLite cannot be opened.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode history file: %w", err)
	}
	return recs, nil
}

func (s *FileStore) store(recs []Record) error {
	if len(recs) > MaxFileRecords {
		recs = recs[len(recs)-MaxFileRecords:]
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Save(_ context.Context, rec Record) (string, error) {
	rec, err := prepare(rec, time.Now())
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return "", err
	}
	if err := s.store(append(recs, rec)); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// List returns the newest records first.
func (s *FileStore) List(_ context.Context, opts ListOptions) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return nil, err
	}
	limit := limitOrDefault(opts.Limit)
	var out []Record
	for i := len(recs) - 1; i >= 0 && len(out) < limit; i-- {
		rec := recs[i]
		if rec.UserID != opts.UserID || (opts.Kind != "" && rec.Kind != opts.Kind) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *FileStore) Get(_ context.Context, userID, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return Record{}, err
	}
	if i := find(recs, userID, id); i >= 0 {
		return recs[i], nil
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *FileStore) Rename(_ context.Context, userID, id, title string) error {
	return s.update(userID, id, func(recs []Record, i int) []Record {
		recs[i].Title = title
		return recs
	})
}

func (s *FileStore) Delete(_ context.Context, userID, id string) error {
	return s.update(userID, id, func(recs []Record, i int) []Record {
		return append(recs[:i], recs[i+1:]...)
	})
}

func (s *FileStore) update(userID, id string, fn func([]Record, int) []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}
	i := find(recs, userID, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.store(fn(recs, i))
}

func (s *FileStore) Close() error { return nil }

func find(recs []Record, userID, id string) int {
	for i, rec := range recs {
		if rec.ID == id && rec.UserID == userID {
			return i
		}
	}
	return -1
}
