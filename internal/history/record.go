// Package history keeps a log of track-change events in Spotify's extended
// streaming history format.
//
// A record is appended only when the track differs from the last logged one
// or when the same track has been restarted (its position moved backward).
// Continuous playback of one track never produces a second record.
package history

import (
	"strings"
	"time"

	"github.com/tessro/tuneboard/internal/core"
)

// tsLayout matches the millisecond ISO-8601 form of Spotify's export files.
const tsLayout = "2006-01-02T15:04:05.000Z"

// Record is one entry of the history log. Field names follow Spotify's
// extended streaming history export so existing analytics keep working.
type Record struct {
	Timestamp        string  `json:"ts"`
	Platform         string  `json:"platform"`
	MsPlayed         int64   `json:"ms_played"`
	ConnCountry      string  `json:"conn_country"`
	IPAddr           string  `json:"ip_addr"`
	TrackName        *string `json:"master_metadata_track_name"`
	ArtistName       *string `json:"master_metadata_album_artist_name"`
	AlbumName        *string `json:"master_metadata_album_album_name"`
	TrackURI         *string `json:"spotify_track_uri"`
	EpisodeName      *string `json:"episode_name"`
	EpisodeShowName  *string `json:"episode_show_name"`
	EpisodeURI       *string `json:"spotify_episode_uri"`
	ReasonStart      string  `json:"reason_start"`
	ReasonEnd        string  `json:"reason_end"`
	Shuffle          bool    `json:"shuffle"`
	Skipped          bool    `json:"skipped"`
	Offline          bool    `json:"offline"`
	OfflineTimestamp int64   `json:"offline_timestamp"`
	IncognitoMode    bool    `json:"incognito_mode"`
}

// URI returns the track URI or "" when the record has none.
func (r Record) URI() string {
	return deref(r.TrackURI)
}

// Title returns the track name or "".
func (r Record) Title() string {
	return deref(r.TrackName)
}

// Artist returns the joined artist names or "".
func (r Record) Artist() string {
	return deref(r.ArtistName)
}

// Album returns the album name or "".
func (r Record) Album() string {
	return deref(r.AlbumName)
}

// Time parses the record timestamp.
func (r Record) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r.Timestamp)
}

// Passthrough holds constant fields copied into every record unchanged.
// None of them influence whether a record is appended.
type Passthrough struct {
	ConnCountry      string
	IPAddr           string
	ReasonStart      string
	ReasonEnd        string
	OfflineTimestamp int64
}

// DefaultPassthrough returns the values written when nothing is configured.
func DefaultPassthrough() Passthrough {
	return Passthrough{
		ConnCountry:      "TH",
		IPAddr:           "171.99.160.215",
		ReasonStart:      "trackdone",
		ReasonEnd:        "trackdone",
		OfflineTimestamp: 1730059784,
	}
}

// Normalize maps a playback snapshot to a history record. Missing optional
// fields become null, a missing device becomes platform "unknown".
func Normalize(snap *core.PlaybackSnapshot, pass Passthrough) Record {
	rec := Record{
		Platform:         "unknown",
		ConnCountry:      pass.ConnCountry,
		IPAddr:           pass.IPAddr,
		ReasonStart:      pass.ReasonStart,
		ReasonEnd:        pass.ReasonEnd,
		OfflineTimestamp: pass.OfflineTimestamp,
	}
	if snap == nil {
		return rec
	}

	rec.Timestamp = snap.Timestamp.UTC().Format(tsLayout)
	rec.Shuffle = snap.Shuffle
	if ms := snap.Progress.Milliseconds(); ms > 0 {
		rec.MsPlayed = ms
	}
	if dt := strings.ToLower(snap.DeviceType()); dt != "" {
		rec.Platform = dt
	}

	if t := snap.Track; t != nil {
		rec.TrackName = nullable(t.Title)
		rec.ArtistName = nullable(t.ArtistNames())
		rec.AlbumName = nullable(t.Album)
		rec.TrackURI = nullable(t.URI)
	}
	return rec
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
