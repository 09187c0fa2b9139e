package core

import (
	"strings"
	"time"
)

// Track represents a playable audio track.
type Track struct {
	ID          string        `json:"id"`
	URI         string        `json:"uri"`
	Title       string        `json:"title"`
	Artist      string        `json:"artist"`
	Artists     []string      `json:"artists"`
	Album       string        `json:"album"`
	AlbumArtURL string        `json:"album_art_url,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// ArtistNames returns all artist names joined with ", ".
func (t *Track) ArtistNames() string {
	if t == nil {
		return ""
	}
	if len(t.Artists) == 0 {
		return t.Artist
	}
	return strings.Join(t.Artists, ", ")
}
