package core

import "time"

// PlaybackSnapshot is a single point-in-time report of playback state.
// A nil Track means nothing is playing.
type PlaybackSnapshot struct {
	Track     *Track        `json:"track"`
	Device    *Device       `json:"device,omitempty"`
	IsPlaying bool          `json:"is_playing"`
	Progress  time.Duration `json:"progress"`
	Timestamp time.Time     `json:"timestamp"`
	Shuffle   bool          `json:"shuffle"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackSnapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

// DeviceType returns the reported device type, or "" when no device was reported.
func (s *PlaybackSnapshot) DeviceType() string {
	if s == nil || s.Device == nil {
		return ""
	}
	return s.Device.Type
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackSnapshot) ProgressPercent() float64 {
	if s == nil || s.Track == nil || s.Track.Duration == 0 {
		return 0
	}
	p := float64(s.Progress) / float64(s.Track.Duration) * 100
	if p > 100 {
		return 100
	}
	return p
}
