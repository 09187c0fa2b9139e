package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

const maxLineBytes = 1 << 20

// LineStore keeps the log as JSON lines and never rewrites earlier records.
// Each append is a single write followed by fsync. A failed write is cut
// back so the file never ends in a partial record.
type LineStore struct {
	path string
}

// NewLineStore creates a LineStore at path.
func NewLineStore(path string) *LineStore {
	return &LineStore{path: path}
}

// Path implements Store.
func (s *LineStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *LineStore) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StoreError{Op: "read", Path: s.path, Err: err}
	}
	defer f.Close()

	var log []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, &StoreError{Op: "parse", Path: s.path, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		if rec.Timestamp == "" {
			return nil, &StoreError{Op: "parse", Path: s.path, Err: fmt.Errorf("line %d: %w", line, errMissingTimestamp)}
		}
		log = append(log, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &StoreError{Op: "read", Path: s.path, Err: err}
	}
	return log, nil
}

// Append implements Store. prev is not rewritten.
func (s *LineStore) Append(_ []Record, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	data = append(data, '\n')

	if err := ensureDir(s.path); err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	size := info.Size()

	if _, err := f.Write(data); err != nil {
		_ = f.Truncate(size)
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err := f.Sync(); err != nil {
		_ = f.Truncate(size)
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Close implements Store.
func (s *LineStore) Close() error {
	return nil
}
