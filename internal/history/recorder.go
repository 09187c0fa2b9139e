package history

import (
	"sync"

	"github.com/tessro/tuneboard/internal/core"
)

// Recorder applies RecordIfChanged to a persisted log. Calls are serialized,
// so one Recorder may be shared by a poller and an HTTP handler.
type Recorder struct {
	mu    sync.Mutex
	store Store
	pass  Passthrough
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store, pass Passthrough) *Recorder {
	return &Recorder{store: store, pass: pass}
}

// Record loads the log, decides, and persists the new record if one is
// appended. The returned Log is the stored log for every reason, idle
// included. A load failure aborts the cycle without writing anything.
func (r *Recorder) Record(snap *core.PlaybackSnapshot) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, err := r.store.Load()
	if err != nil {
		return Result{}, err
	}

	res := RecordIfChanged(snap, log, r.pass)
	if !res.Appended {
		return res, nil
	}
	if err := r.store.Append(log, *res.Record); err != nil {
		return Result{Reason: res.Reason, Log: log}, err
	}
	return res, nil
}

// Last returns up to n most recent records, oldest first. n <= 0 returns all.
func (r *Recorder) Last(n int) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(log) > n {
		log = log[len(log)-n:]
	}
	return log, nil
}

// Store returns the underlying store.
func (r *Recorder) Store() Store {
	return r.store
}
