package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/tui/styles"
)

func strPtr(s string) *string { return &s }

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2024, 10, 27, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "now"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{2 * 24 * time.Hour, "2 days ago"},
		{30 * 24 * time.Hour, "Sep 27"},
	}
	for _, tt := range tests {
		if got := formatTimeAgo(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("formatTimeAgo(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestRecentRowsSkipsMissingTracks(t *testing.T) {
	now := time.Now()
	rows := RecentRows([]core.RecentlyPlayed{
		{Track: &core.Track{Title: "A", Artists: []string{"X", "Y"}}, PlayedAt: now},
		{Track: nil, PlayedAt: now},
	}, now)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Artist != "X, Y" {
		t.Errorf("Artist = %q, want %q", rows[0].Artist, "X, Y")
	}
}

func TestHistoryRowsNewestFirst(t *testing.T) {
	now := time.Date(2024, 10, 27, 12, 0, 0, 0, time.UTC)
	records := []history.Record{
		{Timestamp: "2024-10-27T11:00:00.000Z", TrackName: strPtr("Old"), TrackURI: strPtr("spotify:track:1")},
		{Timestamp: "2024-10-27T11:58:00.000Z", TrackURI: strPtr("spotify:track:2")},
	}
	rows := HistoryRows(records, now)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	// Missing title falls back to the URI
	if rows[0].Title != "spotify:track:2" || rows[0].When != "2m" {
		t.Errorf("rows[0] = %+v, want URI title at 2m", rows[0])
	}
	if rows[1].Title != "Old" || rows[1].When != "1h" {
		t.Errorf("rows[1] = %+v, want Old at 1h", rows[1])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestTrackListEmpty(t *testing.T) {
	l := NewTrackList("History", "No history recorded yet")
	out := l.Render(nil, testTheme(), 40, 8, false)
	if !strings.Contains(out, "No history recorded yet") {
		t.Errorf("empty list should show placeholder:\n%s", out)
	}
}

func testTheme() styles.Theme {
	return styles.Theme{
		Dominant: "#8b5cf6",
		Accent:   "#ec4899",
		Text:     "#ffffff",
		Muted:    "#4b5563",
	}
}
