package history

import "github.com/tessro/tuneboard/internal/core"

// Reason classifies the outcome of a record attempt.
type Reason string

const (
	// ReasonIdle means nothing was playing.
	ReasonIdle Reason = "idle"
	// ReasonFirstTrack means the log was empty.
	ReasonFirstTrack Reason = "first_track"
	// ReasonTrackChanged means a different track is playing.
	ReasonTrackChanged Reason = "track_changed"
	// ReasonRestarted means the same track is playing from an earlier position.
	ReasonRestarted Reason = "restarted"
	// ReasonSameTrack means playback of the last logged track continues.
	ReasonSameTrack Reason = "same_track_continuing"
)

// Appends reports whether r results in a new record.
func (r Reason) Appends() bool {
	switch r {
	case ReasonFirstTrack, ReasonTrackChanged, ReasonRestarted:
		return true
	}
	return false
}

// Result is the outcome of RecordIfChanged.
type Result struct {
	Appended bool
	Reason   Reason
	// Log is the updated log. When nothing was appended it is the input log.
	Log []Record
	// Record is the appended record, nil when nothing was appended.
	Record *Record
}

// Decide classifies candidate against the last record of log.
func Decide(candidate Record, log []Record) Reason {
	if len(log) == 0 {
		return ReasonFirstTrack
	}
	last := log[len(log)-1]
	switch {
	case !sameURI(last.TrackURI, candidate.TrackURI):
		return ReasonTrackChanged
	case candidate.MsPlayed < last.MsPlayed:
		return ReasonRestarted
	default:
		return ReasonSameTrack
	}
}

// RecordIfChanged normalizes snap and appends it to log when it starts a new
// track or restarts the last one. It is pure: the input log is never mutated.
func RecordIfChanged(snap *core.PlaybackSnapshot, log []Record, pass Passthrough) Result {
	if !snap.HasTrack() {
		return Result{Reason: ReasonIdle, Log: log}
	}

	candidate := Normalize(snap, pass)
	reason := Decide(candidate, log)
	if !reason.Appends() {
		return Result{Reason: reason, Log: log}
	}

	updated := make([]Record, len(log), len(log)+1)
	copy(updated, log)
	updated = append(updated, candidate)
	return Result{
		Appended: true,
		Reason:   reason,
		Log:      updated,
		Record:   &updated[len(updated)-1],
	}
}

func sameURI(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
