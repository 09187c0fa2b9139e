package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not authenticated", ErrNotAuthenticated, "Run 'tuneboard auth login' to authenticate with Spotify"},
		{"wrapped not authenticated", fmt.Errorf("fetch now playing: %w", ErrNotAuthenticated), "Run 'tuneboard auth login' to authenticate with Spotify"},
		{"token expired text", errors.New("spotify: token expired"), "Run 'tuneboard auth login' to authenticate with Spotify"},
		{"no device", ErrNoActiveDevice, "Open Spotify on a device and start playing"},
		{"premium", ErrPremiumRequired, "Playback controls require Spotify Premium"},
		{"history store", fmt.Errorf("load: %w", ErrHistoryStore), "Check the history file permissions and contents; nothing was written"},
		{"image", ErrImageLoad, "Album art could not be loaded; default colors are used"},
		{"rate limited", ErrRateLimited, "Too many requests. Wait a moment and try again"},
		{"timeout", ErrTimeout, "Check your internet connection and try again"},
		{"config", ErrInvalidConfig, "Run 'tuneboard config path' to see where configuration is read from"},
		{"unknown", errors.New("something odd"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSuggestion(tt.err); got != tt.want {
				t.Errorf("GetSuggestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	err := WithSuggestion(ErrNothingPlaying, "Start something in Spotify")

	if !errors.Is(err, ErrNothingPlaying) {
		t.Error("errors.Is(err, ErrNothingPlaying) = false, want true")
	}
	if got := GetSuggestion(err); got != "Start something in Spotify" {
		t.Errorf("GetSuggestion() = %q, want explicit suggestion", got)
	}
	if got := err.Error(); got != ErrNothingPlaying.Error() {
		t.Errorf("Error() = %q, want %q", got, ErrNothingPlaying.Error())
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}

	got := Format(ErrNotAuthenticated)
	if !strings.HasPrefix(got, "Error: not authenticated") {
		t.Errorf("Format() = %q, want error prefix", got)
	}
	if !strings.Contains(got, "Suggestion: Run 'tuneboard auth login'") {
		t.Errorf("Format() = %q, want suggestion", got)
	}

	if got := Format(errors.New("plain")); got != "Error: plain" {
		t.Errorf("Format(plain) = %q, want %q", got, "Error: plain")
	}
}
