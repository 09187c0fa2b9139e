package history

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"
)

var historyBucket = []byte("history")

// BoltStore keeps one record per key in a bbolt bucket. Keys are big-endian
// sequence numbers so cursor order is append order.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, &StoreError{Op: "read", Path: path, Err: err}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &StoreError{Op: "read", Path: path, Err: fmt.Errorf("open bbolt database: %w", err)}
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, &StoreError{Op: "write", Path: path, Err: fmt.Errorf("create history bucket: %w", err)}
	}

	return &BoltStore{db: db, path: path}, nil
}

// Path implements Store.
func (s *BoltStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *BoltStore) Load() ([]Record, error) {
	var log []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(historyBucket).ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("key %x: %w", k, err)
			}
			if rec.Timestamp == "" {
				return fmt.Errorf("key %x: %w", k, errMissingTimestamp)
			}
			log = append(log, rec)
			return nil
		})
	})
	if err != nil {
		return nil, &StoreError{Op: "parse", Path: s.path, Err: err}
	}
	return log, nil
}

// Append implements Store. Each append is one transaction.
func (s *BoltStore) Append(_ []Record, rec Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(historyBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, value)
	})
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Close implements Store.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
