package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tuneboard/internal/tui/styles"
)

// Row is one line of a track list panel.
type Row struct {
	Icon   string
	Title  string
	Artist string
	When   string
}

// TrackList renders rows of title, artist and a right-aligned time.
type TrackList struct {
	name  string
	empty string
}

// NewTrackList creates a list panel titled name.
func NewTrackList(name, empty string) *TrackList {
	return &TrackList{name: name, empty: empty}
}

// Render renders the panel
func (l *TrackList) Render(rows []Row, theme styles.Theme, width, height int, focused bool) string {
	title := theme.PanelTitle(l.name, focused)

	var content string
	if len(rows) == 0 {
		content = styles.Muted.Render(l.empty)
	} else {
		content = renderRows(rows, width-4, height-4)
	}

	panel := theme.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func renderRows(rows []Row, width, maxLines int) string {
	if maxLines < 0 {
		maxLines = 0
	}
	lines := make([]string, 0, maxLines)

	// Fixed overhead: icon (2) + " " (1) + " — " (3) + padding for time (8)
	const overhead = 14

	for i, row := range rows {
		if i >= maxLines {
			break
		}

		timeWidth := len(row.When)

		available := width - overhead - timeWidth
		titleLen := len(row.Title)
		artistLen := len(row.Artist)

		var title, artist string
		if titleLen+artistLen <= available {
			title = row.Title
			artist = row.Artist
		} else {
			// Give artist at least 1/3 of space (min 8 chars)
			minArtist := available / 3
			if minArtist < 8 {
				minArtist = 8
			}
			if minArtist > available-8 {
				minArtist = available - 8
			}

			artistSpace := minArtist
			if artistLen < artistSpace {
				artistSpace = artistLen
			}
			titleSpace := available - artistSpace

			title = truncate(row.Title, titleSpace)
			artist = truncate(row.Artist, artistSpace)
		}

		trackInfo := fmt.Sprintf("%s — %s", title, artist)
		trackInfoLen := len(title) + 3 + len(artist)

		padding := width - 2 - trackInfoLen - timeWidth
		if padding < 1 {
			padding = 1
		}

		line := fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render(row.Icon),
			trackInfo,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(row.When))

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// truncate shortens s to at most n bytes, ending in "…" when cut.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return s[:n-1] + "…"
}
