package player

import (
	"context"
	"time"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/spotify/client"
)

// Player implements core.Player for Spotify.
type Player struct {
	client   *client.Client
	deviceID string // Optional: target device ID
}

// New creates a new Spotify player.
func New(c *client.Client) *Player {
	return &Player{client: c}
}

// SetDevice sets the target device for playback commands.
func (p *Player) SetDevice(deviceID string) {
	p.deviceID = deviceID
}

// CurrentlyPlaying returns the current playback snapshot, or nil when
// nothing is playing.
func (p *Player) CurrentlyPlaying(ctx context.Context, cred core.Credential) (*core.PlaybackSnapshot, error) {
	state, err := p.client.GetPlaybackState(ctx, cred)
	if err != nil {
		return nil, err
	}
	return convertState(state), nil
}

// RecentlyPlayed returns the user's recently played tracks, newest first.
func (p *Player) RecentlyPlayed(ctx context.Context, cred core.Credential, limit int) ([]core.RecentlyPlayed, error) {
	resp, err := p.client.GetRecentlyPlayed(ctx, cred, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]core.RecentlyPlayed, len(resp.Items))
	for i := range resp.Items {
		entries[i] = core.RecentlyPlayed{
			Track:    convertTrack(&resp.Items[i].Track),
			PlayedAt: resp.Items[i].PlayedAt,
		}
	}
	return entries, nil
}

// Play starts or resumes playback.
func (p *Player) Play(ctx context.Context, cred core.Credential) error {
	return p.client.Play(ctx, cred, p.deviceID)
}

// Pause pauses playback.
func (p *Player) Pause(ctx context.Context, cred core.Credential) error {
	return p.client.Pause(ctx, cred, p.deviceID)
}

// Next skips to the next track.
func (p *Player) Next(ctx context.Context, cred core.Credential) error {
	return p.client.Next(ctx, cred, p.deviceID)
}

// Prev skips to the previous track.
func (p *Player) Prev(ctx context.Context, cred core.Credential) error {
	return p.client.Previous(ctx, cred, p.deviceID)
}

func convertState(s *client.PlaybackState) *core.PlaybackSnapshot {
	if s == nil {
		return nil
	}

	snap := &core.PlaybackSnapshot{
		Track:     convertTrack(s.Item),
		IsPlaying: s.IsPlaying,
		Progress:  time.Duration(s.ProgressMS) * time.Millisecond,
		Shuffle:   s.ShuffleState,
	}
	if s.Timestamp > 0 {
		snap.Timestamp = time.UnixMilli(s.Timestamp).UTC()
	} else {
		snap.Timestamp = time.Now().UTC()
	}
	if s.Device.ID != "" || s.Device.Type != "" {
		snap.Device = convertDevice(&s.Device)
	}
	return snap
}

// convertTrack converts a Spotify track to a core track.
func convertTrack(t *client.Track) *core.Track {
	if t == nil {
		return nil
	}

	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	artist := ""
	if len(artists) > 0 {
		artist = artists[0]
	}

	art := ""
	if len(t.Album.Images) > 0 {
		art = t.Album.Images[0].URL
	}

	return &core.Track{
		ID:          t.ID,
		URI:         t.URI,
		Title:       t.Name,
		Artist:      artist,
		Artists:     artists,
		Album:       t.Album.Name,
		AlbumArtURL: art,
		Duration:    time.Duration(t.DurationMS) * time.Millisecond,
	}
}

// convertDevice converts a Spotify device to a core device.
func convertDevice(d *client.Device) *core.Device {
	if d == nil {
		return nil
	}

	dev := &core.Device{
		ID:       d.ID,
		Name:     d.Name,
		Type:     d.Type,
		IsActive: d.IsActive,
	}
	if d.VolumePercent != nil {
		dev.Volume = *d.VolumePercent
	}
	return dev
}

// Ensure Player implements core.Player
var _ core.Player = (*Player)(nil)
