package colors

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func uniform(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestExtractUniformIsExact(t *testing.T) {
	tests := []RGB{
		{0, 0, 0},
		{255, 255, 255},
		{18, 200, 77},
		{1, 2, 3},
	}

	for _, want := range tests {
		t.Run(want.Hex(), func(t *testing.T) {
			img := uniform(7, 5, color.NRGBA{R: want.R, G: want.G, B: want.B, A: 255})
			got := Extract(img)
			if got.Dominant != want {
				t.Errorf("Dominant = %v, want %v", got.Dominant, want)
			}
			if got.Accent != want.Complement() {
				t.Errorf("Accent = %v, want %v", got.Accent, want.Complement())
			}
		})
	}
}

func TestExtractIgnoresAlpha(t *testing.T) {
	img := uniform(3, 3, color.NRGBA{R: 100, G: 150, B: 200, A: 10})
	got := Extract(img)
	want := RGB{100, 150, 200}
	if got.Dominant != want {
		t.Errorf("Dominant = %v, want %v", got.Dominant, want)
	}
}

func TestExtractFloorsMean(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 0, G: 10, B: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 1, G: 11, B: 254, A: 255})

	got := Extract(img)
	want := RGB{0, 10, 254}
	if got.Dominant != want {
		t.Errorf("Dominant = %v, want %v", got.Dominant, want)
	}
}

func TestExtractGenericPathMatchesFastPath(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{R: uint8(x * 60), G: uint8(y * 60), B: uint8((x + y) * 30), A: 255}
			nrgba.Set(x, y, c)
			rgba.Set(x, y, c)
		}
	}

	if a, b := Extract(nrgba), Extract(rgba); a != b {
		t.Errorf("Extract(NRGBA) = %+v, Extract(RGBA) = %+v", a, b)
	}
}

func TestExtractSubImage(t *testing.T) {
	img := uniform(4, 4, color.NRGBA{R: 255, A: 255})
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.NRGBA{B: 255, A: 255})
	}

	sub := img.SubImage(image.Rect(0, 1, 4, 4))
	got := Extract(sub)
	if got.Dominant != (RGB{R: 255}) {
		t.Errorf("Dominant = %v, want pure red", got.Dominant)
	}
}

func TestExtractDeterministic(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}

	first := Extract(img)
	for i := 0; i < 5; i++ {
		if got := Extract(img); got != first {
			t.Fatalf("Extract() call %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestExtractEmpty(t *testing.T) {
	got := Extract(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	if got.Dominant != black || got.Accent != white {
		t.Errorf("Extract(empty) = %+v, want black/white", got)
	}
}

func TestDecodeThenExtract(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, uniform(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	pair := Extract(img)
	if pair.Dominant != (RGB{10, 20, 30}) {
		t.Errorf("Dominant = %v, want rgb(10, 20, 30)", pair.Dominant)
	}
	if pair.Accent != (RGB{245, 235, 225}) {
		t.Errorf("Accent = %v, want rgb(245, 235, 225)", pair.Accent)
	}
}

func TestRGBFormatting(t *testing.T) {
	c := RGB{R: 139, G: 92, B: 246}
	if got := c.Hex(); got != "#8b5cf6" {
		t.Errorf("Hex() = %q, want %q", got, "#8b5cf6")
	}
	if got := c.String(); got != "rgb(139, 92, 246)" {
		t.Errorf("String() = %q, want %q", got, "rgb(139, 92, 246)")
	}

	parsed, err := ParseHex("#8b5cf6")
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if parsed != c {
		t.Errorf("ParseHex() = %v, want %v", parsed, c)
	}

	if _, err := ParseHex("not-a-color"); err == nil {
		t.Error("ParseHex(invalid) error = nil, want error")
	}
}

func TestPairJSON(t *testing.T) {
	p := Pair{Dominant: RGB{R: 255}, Accent: RGB{G: 255, B: 255}}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"dominant":"#ff0000","accent":"#00ffff"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
