// Package colors derives theme colors from album artwork.
//
// The dominant color is the arithmetic mean of the red, green and blue
// channels over every pixel, alpha ignored. The accent is the per-channel
// complement of the dominant color (255 - c). This is the only policy; the
// result is recomputed from scratch on every call.
package colors

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Complement returns the per-channel complement (255 - c).
func (c RGB) Complement() RGB {
	return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// Colorful converts c to a go-colorful color for blending and conversion.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

// String returns the CSS rgb() form.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// MarshalText encodes the color as #rrggbb.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a #rrggbb color.
func (c *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHex parses a #rrggbb or #rgb color.
func ParseHex(s string) (RGB, error) {
	cc, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return FromColor(cc), nil
}

// FromColor converts any color.Color to RGB, dropping alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Pair is the dominant/accent color pair for one piece of artwork.
type Pair struct {
	Dominant RGB `json:"dominant"`
	Accent   RGB `json:"accent"`
}

// Extract computes the color pair for img. An image without pixels yields
// black with a white accent.
func Extract(img image.Image) Pair {
	dominant := Average(img)
	return Pair{Dominant: dominant, Accent: dominant.Complement()}
}

// Average returns the floor of the per-channel mean over every pixel of img.
func Average(img image.Image) RGB {
	b := img.Bounds()
	count := uint64(b.Dx()) * uint64(b.Dy())
	if b.Empty() || count == 0 {
		return RGB{}
	}

	var r, g, bl uint64
	switch src := img.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				r += uint64(row[i])
				g += uint64(row[i+1])
				bl += uint64(row[i+2])
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := FromColor(img.At(x, y))
				r += uint64(c.R)
				g += uint64(c.G)
				bl += uint64(c.B)
			}
		}
	}

	return RGB{
		R: uint8(r / count),
		G: uint8(g / count),
		B: uint8(bl / count),
	}
}
