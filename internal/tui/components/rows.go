package components

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/history"
)

// RecentRows converts recently played entries, newest first.
func RecentRows(entries []core.RecentlyPlayed, now time.Time) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		if e.Track == nil {
			continue
		}
		rows = append(rows, Row{
			Icon:   "✓",
			Title:  e.Track.Title,
			Artist: e.Track.ArtistNames(),
			When:   formatTimeAgo(e.PlayedAt, now),
		})
	}
	return rows
}

// HistoryRows converts history log records, newest first.
func HistoryRows(records []history.Record, now time.Time) []Row {
	rows := make([]Row, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		when := "?"
		if ts, err := rec.Time(); err == nil {
			when = formatTimeAgo(ts, now)
		}
		title := rec.Title()
		if title == "" {
			title = rec.URI()
		}
		rows = append(rows, Row{
			Icon:   "●",
			Title:  title,
			Artist: rec.Artist(),
			When:   when,
		})
	}
	return rows
}

func formatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)

	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	if d < 7*24*time.Hour {
		return humanize.RelTime(t, now, "ago", "from now")
	}
	return t.Format("Jan 2")
}
