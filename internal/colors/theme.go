package colors

import (
	"image"

	colorextractor "github.com/marekm4/color-extractor"
)

// Default colors used until artwork has been processed.
const (
	DefaultDominant = "#8b5cf6"
	DefaultAccent   = "#ec4899"
)

var (
	black = RGB{}
	white = RGB{R: 255, G: 255, B: 255}
)

// Theme is everything the presentation layer needs to style a track.
type Theme struct {
	Pair
	Text    RGB   `json:"text"`
	Palette []RGB `json:"palette,omitempty"`
}

// NewTheme builds a theme for img with at most paletteSize palette entries.
func NewTheme(img image.Image, paletteSize int) Theme {
	pair := Extract(img)
	return Theme{
		Pair:    pair,
		Text:    TextColor(pair.Dominant),
		Palette: Palette(img, paletteSize),
	}
}

// ThemeFromPair builds a theme without a palette.
func ThemeFromPair(p Pair) Theme {
	return Theme{Pair: p, Text: TextColor(p.Dominant)}
}

// DefaultTheme parses the configured fallback colors. Empty strings use the
// built-in defaults.
func DefaultTheme(dominant, accent string) (Theme, error) {
	if dominant == "" {
		dominant = DefaultDominant
	}
	if accent == "" {
		accent = DefaultAccent
	}
	d, err := ParseHex(dominant)
	if err != nil {
		return Theme{}, err
	}
	a, err := ParseHex(accent)
	if err != nil {
		return Theme{}, err
	}
	return ThemeFromPair(Pair{Dominant: d, Accent: a}), nil
}

// Palette returns up to n prominent colors of img, most prominent first.
func Palette(img image.Image, n int) []RGB {
	if n <= 0 {
		return nil
	}
	extracted := colorextractor.ExtractColors(img)
	if len(extracted) > n {
		extracted = extracted[:n]
	}
	out := make([]RGB, len(extracted))
	for i, c := range extracted {
		out[i] = FromColor(c)
	}
	return out
}

// TextColor picks black or white, whichever contrasts more with bg.
func TextColor(bg RGB) RGB {
	l := relativeLuminance(bg)
	blackContrast := contrastRatio(l, 0)
	whiteContrast := contrastRatio(l, 1)
	if blackContrast > whiteContrast {
		return black
	}
	return white
}

// relativeLuminance is the WCAG 2 relative luminance of c.
func relativeLuminance(c RGB) float64 {
	r, g, b := c.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func contrastRatio(l1, l2 float64) float64 {
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}
