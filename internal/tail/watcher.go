package tail

import (
	"context"
	"time"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/logging"
	"github.com/tessro/tuneboard/internal/nowplaying"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventRestart
	EventPause
	EventResume
	EventVolumeChange
	EventDeviceChange
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackSnapshot
	Current   *core.PlaybackSnapshot
}

// Watcher polls a player for state changes and emits events.
type Watcher struct {
	player   core.Player
	creds    core.CredentialSource
	interval time.Duration
	events   chan Event
	loop     *nowplaying.Loop

	prev    *core.PlaybackSnapshot
	started bool
}

// NewWatcher creates a new state watcher.
func NewWatcher(player core.Player, creds core.CredentialSource, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	w := &Watcher{
		player:   player,
		creds:    creds,
		interval: interval,
		events:   make(chan Event, 16),
	}
	w.loop = nowplaying.NewLoop("tail", interval, 0, w.poll)
	return w
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start polls for state changes until ctx is done or Stop is called. The
// events channel is closed on return.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.events)
	return w.loop.Serve(ctx)
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.loop.Stop()
}

func (w *Watcher) poll(ctx context.Context) {
	cred, err := w.creds.Credential(ctx)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("tail poll skipped")
		return
	}
	curr, err := w.player.CurrentlyPlaying(ctx, cred)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("tail poll failed")
		return
	}
	if curr == nil {
		curr = &core.PlaybackSnapshot{Timestamp: time.Now()}
	}

	var events []Event
	if w.started {
		events = diffStates(w.prev, curr)
	} else {
		events = diffStates(nil, curr)
		w.started = true
	}
	for _, e := range events {
		select {
		case w.events <- e:
		default:
			// Drop event if channel is full
		}
	}
	w.prev = curr
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr *core.PlaybackSnapshot) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var events []Event

	// First poll - no previous state
	if prev == nil {
		if curr.HasTrack() {
			events = append(events, Event{
				Type:      EventTrackChange,
				Timestamp: now,
				Current:   curr,
			})
		}
		return events
	}

	if trackChanged(prev, curr) {
		eventType := EventTrackChange

		// Check if it was a completion vs skip
		if prev.HasTrack() && wasCompleted(prev) {
			eventType = EventTrackComplete
		} else if prev.HasTrack() && curr.HasTrack() {
			eventType = EventTrackSkip
		}

		events = append(events, Event{
			Type:      eventType,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	} else if restarted(prev, curr) {
		events = append(events, Event{
			Type:      EventRestart,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	// Pause/Resume detection
	if prev.IsPlaying && !curr.IsPlaying {
		events = append(events, Event{
			Type:      EventPause,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	} else if !prev.IsPlaying && curr.IsPlaying {
		events = append(events, Event{
			Type:      EventResume,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if volume(prev) != volume(curr) && prev.Device != nil && curr.Device != nil {
		events = append(events, Event{
			Type:      EventVolumeChange,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if deviceChanged(prev, curr) {
		events = append(events, Event{
			Type:      EventDeviceChange,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	return events
}

// trackChanged returns true if the track changed.
func trackChanged(prev, curr *core.PlaybackSnapshot) bool {
	if !prev.HasTrack() && !curr.HasTrack() {
		return false
	}
	if !prev.HasTrack() || !curr.HasTrack() {
		return true
	}
	return prev.Track.URI != curr.Track.URI
}

// restarted reports whether curr replays the same track from an earlier
// position, using the same rule as the history log.
func restarted(prev, curr *core.PlaybackSnapshot) bool {
	if !prev.HasTrack() || !curr.HasTrack() {
		return false
	}
	pass := history.Passthrough{}
	last := history.Normalize(prev, pass)
	return history.Decide(history.Normalize(curr, pass), []history.Record{last}) == history.ReasonRestarted
}

// wasCompleted returns true if the track likely completed naturally.
func wasCompleted(state *core.PlaybackSnapshot) bool {
	if state.Track == nil || state.Track.Duration == 0 {
		return false
	}
	// Consider completed if progress is >= 95% of duration
	threshold := float64(state.Track.Duration) * 0.95
	return float64(state.Progress) >= threshold
}

func volume(s *core.PlaybackSnapshot) int {
	if s.Device == nil {
		return 0
	}
	return s.Device.Volume
}

// deviceChanged returns true if the device changed.
func deviceChanged(prev, curr *core.PlaybackSnapshot) bool {
	if prev.Device == nil && curr.Device == nil {
		return false
	}
	if prev.Device == nil || curr.Device == nil {
		return true
	}
	return prev.Device.ID != curr.Device.ID
}
