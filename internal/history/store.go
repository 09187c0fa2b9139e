package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendJSON  = "json"
	BackendJSONL = "jsonl"
	BackendBolt  = "bolt"
)

// Store persists the history log. Only one writer may use a store at a time.
type Store interface {
	// Load returns the whole log in append order. A store that does not exist
	// yet loads as an empty log; every other failure is a *StoreError.
	Load() ([]Record, error)
	// Append persists rec after prev, where prev is the log returned by Load.
	Append(prev []Record, rec Record) error
	// Path returns where the log lives.
	Path() string
	Close() error
}

// Open returns the store for backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewFileStore(path), nil
	case BackendJSONL:
		return NewLineStore(path), nil
	case BackendBolt:
		return OpenBoltStore(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0700)
}
