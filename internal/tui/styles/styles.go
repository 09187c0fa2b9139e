package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tessro/tuneboard/internal/colors"
)

// Colors - a pleasant color palette
var (
	// Status colors
	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red

	// Neutral colors
	Background = lipgloss.Color("#1F2937") // Dark gray
	Border     = lipgloss.Color("#4B5563") // Light gray
	Text       = lipgloss.Color("#F9FAFB") // White
	TextMuted  = lipgloss.Color("#9CA3AF") // Gray
	TextDim    = lipgloss.Color("#6B7280") // Darker gray

	// Spotify green
	SpotifyGreen = lipgloss.Color("#1DB954")
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(SpotifyGreen)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
		Foreground(Error)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
)

// Theme holds the track-dependent colors derived from album art.
type Theme struct {
	Dominant lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	// Muted is the dominant color faded toward the background, used for
	// unfocused borders and the empty part of the progress bar.
	Muted lipgloss.Color
}

// LightBackground is blended into muted colors on light terminals.
var LightBackground = lipgloss.Color("#F3F4F6")

// NewTheme converts an extracted color theme for terminal rendering. light
// selects the background the muted color fades toward.
func NewTheme(t colors.Theme, light bool) Theme {
	base := Background
	if light {
		base = LightBackground
	}
	bg, _ := colorful.Hex(string(base))
	muted := t.Dominant.Colorful().BlendLab(bg, 0.6).Clamped()
	return Theme{
		Dominant: lipgloss.Color(t.Dominant.Hex()),
		Accent:   lipgloss.Color(t.Accent.Hex()),
		Text:     lipgloss.Color(t.Text.Hex()),
		Muted:    lipgloss.Color(muted.Hex()),
	}
}

// Panel creates a styled panel; focused panels use the accent border.
func (t Theme) Panel(focused bool) lipgloss.Style {
	color := t.Muted
	if focused {
		color = t.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
}

// PanelTitle creates a styled panel title.
func (t Theme) PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	}
	return style.Render(" " + title + " ")
}

// Swatch renders a color chip labeled with its hex value.
func (t Theme) Swatch(c lipgloss.Color, label string) string {
	fg := lipgloss.Color("#000000")
	if cc, err := colorful.Hex(string(c)); err == nil {
		if _, _, l := cc.Hcl(); l < 0.55 {
			fg = Text
		}
	}
	return lipgloss.NewStyle().Background(c).Foreground(fg).Padding(0, 1).Render(label)
}

// ProgressBar creates a progress bar string in theme colors.
func (t Theme) ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent)
	emptyStyle := lipgloss.NewStyle().Foreground(t.Muted)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// DeviceIcon returns an icon for device type
func DeviceIcon(deviceType string) string {
	switch strings.ToLower(deviceType) {
	case "computer":
		return "💻"
	case "smartphone":
		return "📱"
	case "speaker":
		return "🔊"
	case "tv":
		return "📺"
	default:
		return "🎧"
	}
}
