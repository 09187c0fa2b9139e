package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/tui/styles"
)

// NowPlaying displays the currently playing track
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(snap *core.PlaybackSnapshot, theme styles.Theme, width, height int, focused bool) string {
	title := theme.PanelTitle("Now Playing", focused)

	var content string
	if !snap.HasTrack() {
		content = styles.Muted.Render("Nothing playing")
	} else {
		content = n.renderTrack(snap, theme, width-4)
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

func (n *NowPlaying) renderTrack(snap *core.PlaybackSnapshot, theme styles.Theme, width int) string {
	track := snap.Track

	icon := styles.StatusIcon(snap.IsPlaying)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Dominant).Width(width - 4)
	title := titleStyle.Render(track.Title)

	artist := styles.Subtitle.Render(track.ArtistNames())
	album := styles.Dim.Render(track.Album)

	// Account for times on either side
	progressWidth := width - 14
	if progressWidth < 10 {
		progressWidth = 10
	}
	progress := fmt.Sprintf("%s %s %s",
		formatDuration(snap.Progress),
		theme.ProgressBar(snap.ProgressPercent(), progressWidth),
		formatDuration(track.Duration))

	deviceInfo := ""
	if snap.Device != nil {
		deviceInfo = fmt.Sprintf("%s %s", styles.DeviceIcon(snap.Device.Type), snap.Device.Name)
		if snap.Device.Volume > 0 {
			deviceInfo += fmt.Sprintf(" 🔊 %d%%", snap.Device.Volume)
		}
		if snap.Shuffle {
			deviceInfo += " 🔀"
		}
		deviceInfo = styles.Muted.Render(deviceInfo)
	}

	swatches := theme.Swatch(theme.Dominant, string(theme.Dominant)) + " " +
		theme.Swatch(theme.Accent, string(theme.Accent))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+album,
		"",
		progress,
		"",
		deviceInfo,
		swatches,
	)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
