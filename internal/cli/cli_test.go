package cli

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// execute runs the root command with args against a temporary config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := "[history]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "history.json")) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	jsonOut, verbose, cfgFile = false, false, ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{65 * time.Second, "1:05"},
		{3*time.Minute + 59*time.Second + 900*time.Millisecond, "3:59"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	if got := FormatProgress(0, 0, 4); got != "────" {
		t.Errorf("FormatProgress(no duration) = %q", got)
	}
	if got := FormatProgress(time.Minute, 2*time.Minute, 4); got != "━━──" {
		t.Errorf("FormatProgress(half) = %q", got)
	}
	if got := FormatProgress(3*time.Minute, 2*time.Minute, 4); got != "━━━━" {
		t.Errorf("FormatProgress(overrun) = %q", got)
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2024, 10, 27, 12, 0, 0, 0, time.UTC)
	if got := FormatAgo(time.Time{}, now); got != "-" {
		t.Errorf("FormatAgo(zero) = %q, want -", got)
	}
	if got := FormatAgo(now.Add(-3*time.Minute), now); got != "3 minutes ago" {
		t.Errorf("FormatAgo(3m) = %q, want %q", got, "3 minutes ago")
	}
}

func TestTablePlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "TITLE", "ARTIST")
	tbl.Row("Song", "Artist")
	tbl.Flush()

	out := buf.String()
	if strings.ContainsAny(out, "╭│") {
		t.Errorf("expected no box drawing for non-terminal output:\n%s", out)
	}
	if !strings.Contains(out, "Song") || !strings.Contains(out, "TITLE") {
		t.Errorf("table output missing content:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if info["version"] != Version {
		t.Errorf("version = %q, want %q", info["version"], Version)
	}
}

func TestConfigShowAppliesDefaults(t *testing.T) {
	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[history]", "history.json", "[server]", "127.0.0.1:8787"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestColorsFromFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 10, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "art.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out, err := execute(t, "colors", path, "--json", "--palette", "0")
	if err != nil {
		t.Fatalf("colors: %v", err)
	}

	var theme struct {
		Dominant string `json:"dominant"`
		Accent   string `json:"accent"`
	}
	if err := json.Unmarshal([]byte(out), &theme); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if theme.Dominant != "#c8280a" {
		t.Errorf("dominant = %q, want #c8280a", theme.Dominant)
	}
	if theme.Accent != "#37d7f5" {
		t.Errorf("accent = %q, want #37d7f5", theme.Accent)
	}
}

func TestColorsMissingFile(t *testing.T) {
	if _, err := execute(t, "colors", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRecentLimitValidation(t *testing.T) {
	_, err := execute(t, "recent", "-n", "51")
	if err == nil || !strings.Contains(err.Error(), "between 1 and 50") {
		t.Errorf("err = %v, want limit error", err)
	}
}
