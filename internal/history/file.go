package history

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

var (
	errMissingTimestamp = errors.New("record without ts")
	errNotArray         = errors.New("log is not a JSON array")
)

// FileStore keeps the log as one indented JSON array. Every append rewrites
// the file through a temp file and rename, so readers see either the old or
// the new log and never a torn one.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. The file is created on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path implements Store.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *FileStore) Load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StoreError{Op: "read", Path: s.path, Err: err}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	// json.Unmarshal accepts null into a slice without error.
	if data[0] != '[' {
		return nil, &StoreError{Op: "parse", Path: s.path, Err: errNotArray}
	}

	var log []Record
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, &StoreError{Op: "parse", Path: s.path, Err: err}
	}
	if err := validate(log); err != nil {
		return nil, &StoreError{Op: "parse", Path: s.path, Err: err}
	}
	return log, nil
}

// Append implements Store.
func (s *FileStore) Append(prev []Record, rec Record) error {
	log := make([]Record, 0, len(prev)+1)
	log = append(log, prev...)
	log = append(log, rec)

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}

	// Persist the rename itself. Not every platform can fsync a directory.
	if dir, err := os.Open(filepath.Dir(path)); err == nil {
		_ = dir.Sync()
		dir.Close()
	}
	return nil
}

func validate(log []Record) error {
	for i, rec := range log {
		if rec.Timestamp == "" {
			return fmt.Errorf("entry %d: %w", i, errMissingTimestamp)
		}
	}
	return nil
}
