package tail

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tessro/tuneboard/internal/core"
)

func snap(uri string, progress time.Duration, playing bool) *core.PlaybackSnapshot {
	return &core.PlaybackSnapshot{
		Track: &core.Track{
			URI:      uri,
			Title:    "Song " + uri,
			Artist:   "Band",
			Duration: 100 * time.Second,
		},
		IsPlaying: playing,
		Progress:  progress,
		Device:    &core.Device{ID: "d1", Name: "Desk", Volume: 50},
	}
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestDiffStates(t *testing.T) {
	withDevice := func(s *core.PlaybackSnapshot, id string, vol int) *core.PlaybackSnapshot {
		s.Device = &core.Device{ID: id, Volume: vol}
		return s
	}

	tests := []struct {
		name string
		prev *core.PlaybackSnapshot
		curr *core.PlaybackSnapshot
		want []EventType
	}{
		{"first poll playing", nil, snap("a", 0, true), []EventType{EventTrackChange}},
		{"first poll idle", nil, &core.PlaybackSnapshot{}, nil},
		{"continuing", snap("a", 10*time.Second, true), snap("a", 20*time.Second, true), nil},
		{"skip", snap("a", 10*time.Second, true), snap("b", time.Second, true), []EventType{EventTrackSkip}},
		{"complete", snap("a", 99*time.Second, true), snap("b", time.Second, true), []EventType{EventTrackComplete}},
		{"started from idle", &core.PlaybackSnapshot{}, snap("a", 0, true), []EventType{EventTrackChange, EventResume, EventDeviceChange}},
		{"restart", snap("a", 60*time.Second, true), snap("a", 2*time.Second, true), []EventType{EventRestart}},
		{"pause", snap("a", 10*time.Second, true), snap("a", 10*time.Second, false), []EventType{EventPause}},
		{"resume", snap("a", 10*time.Second, false), snap("a", 11*time.Second, true), []EventType{EventResume}},
		{"volume", snap("a", 10*time.Second, true), withDevice(snap("a", 11*time.Second, true), "d1", 80), []EventType{EventVolumeChange}},
		{"device", snap("a", 10*time.Second, true), withDevice(snap("a", 11*time.Second, true), "d2", 50), []EventType{EventDeviceChange}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eventTypes(diffStates(tt.prev, tt.curr))
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("events[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	f := NewFormatter(WithEmoji(false))
	e := Event{Type: EventRestart, Current: snap("a", 0, true)}
	if got := f.Format(e); got != "Restarted: Band - Song a" {
		t.Errorf("Format() = %q, want %q", got, "Restarted: Band - Song a")
	}

	e = Event{Type: EventVolumeChange, Current: snap("a", 0, true)}
	if got := f.Format(e); got != "Volume: 50%" {
		t.Errorf("Format() = %q, want %q", got, "Volume: 50%")
	}
}

func TestFormatTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Type}} {{.Artist}} / {{.Title}}"))
	got := f.Format(Event{Type: EventTrackChange, Current: snap("a", 0, true)})
	if got != "track_change Band / Song a" {
		t.Errorf("Format() = %q, want %q", got, "track_change Band / Song a")
	}
}

func TestFormatJSON(t *testing.T) {
	f := NewFormatter(WithJSON(true))
	out := f.Format(Event{Type: EventTrackSkip, Current: snap("spotify:track:b", 1500*time.Millisecond, true)})

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Format() output is not JSON: %v (%q)", err, out)
	}
	if decoded["type"] != "track_skip" {
		t.Errorf("type = %v, want track_skip", decoded["type"])
	}
	if decoded["uri"] != "spotify:track:b" {
		t.Errorf("uri = %v, want spotify:track:b", decoded["uri"])
	}
	if strings.Contains(out, "emoji") {
		t.Errorf("JSON output should omit emoji: %q", out)
	}
}

type seqPlayer struct {
	mu    sync.Mutex
	snaps []*core.PlaybackSnapshot
}

func (p *seqPlayer) CurrentlyPlaying(context.Context, core.Credential) (*core.PlaybackSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.snaps[0]
	if len(p.snaps) > 1 {
		p.snaps = p.snaps[1:]
	}
	return s, nil
}

func (p *seqPlayer) RecentlyPlayed(context.Context, core.Credential, int) ([]core.RecentlyPlayed, error) {
	return nil, nil
}
func (p *seqPlayer) Play(context.Context, core.Credential) error  { return nil }
func (p *seqPlayer) Pause(context.Context, core.Credential) error { return nil }
func (p *seqPlayer) Next(context.Context, core.Credential) error  { return nil }
func (p *seqPlayer) Prev(context.Context, core.Credential) error  { return nil }

func TestWatcherEmitsEvents(t *testing.T) {
	player := &seqPlayer{snaps: []*core.PlaybackSnapshot{
		snap("a", 10*time.Second, true),
		snap("b", time.Second, true),
	}}
	w := NewWatcher(player, core.StaticCredential("tok"), 10*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	var got []EventType
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case e := <-w.Events():
			got = append(got, e.Type)
		case <-timeout:
			t.Fatalf("events = %v, want track change then skip", got)
		}
	}
	w.Stop()
	if err := <-done; err != nil {
		t.Errorf("Start() error = %v", err)
	}

	if got[0] != EventTrackChange || got[1] != EventTrackSkip {
		t.Errorf("events = %v, want [track change, skip]", got)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() channel not closed after Start returns")
	}
}
