package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tberrors "github.com/tessro/tuneboard/internal/errors"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(Options{
		BaseURL:     srv.URL,
		HTTPClient:  srv.Client(),
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	return c, srv
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		params map[string]string
		want   string
	}{
		{
			name:   "no params",
			path:   "/me",
			params: nil,
			want:   "/me",
		},
		{
			name:   "empty params",
			path:   "/me",
			params: map[string]string{},
			want:   "/me",
		},
		{
			name:   "single param",
			path:   "/me/player/recently-played",
			params: map[string]string{"limit": "10"},
			want:   "/me/player/recently-played?limit=10",
		},
		{
			name:   "multiple params are sorted",
			path:   "/me/player/play",
			params: map[string]string{"device_id": "abc", "a": "b"},
			want:   "/me/player/play?a=b&device_id=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.path, tt.params); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{}
	err.ErrorInfo.Status = 401
	err.ErrorInfo.Message = "Invalid access token"

	expected := "Spotify API error 401: Invalid access token"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
	if !errors.Is(err, tberrors.ErrNotAuthenticated) {
		t.Error("401 should match ErrNotAuthenticated")
	}
	if errors.Is(err, tberrors.ErrNoActiveDevice) {
		t.Error("401 should not match ErrNoActiveDevice")
	}
}

func TestGetPlaybackState(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player" {
			t.Errorf("path = %q, want /me/player", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"device": {"id": "d1", "name": "Laptop", "type": "Computer", "is_active": true},
			"shuffle_state": true,
			"timestamp": 1730059784000,
			"progress_ms": 42000,
			"is_playing": true,
			"item": {
				"id": "t1", "name": "Song", "uri": "spotify:track:t1", "duration_ms": 180000,
				"artists": [{"name": "A"}, {"name": "B"}],
				"album": {"name": "Album", "images": [{"url": "https://i.scdn.co/image/x", "width": 640, "height": 640}]}
			}
		}`))
	}))

	state, err := c.GetPlaybackState(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetPlaybackState() error = %v", err)
	}
	if state == nil || state.Item == nil {
		t.Fatal("GetPlaybackState() = nil, want state with item")
	}
	if state.Item.URI != "spotify:track:t1" {
		t.Errorf("URI = %q, want %q", state.Item.URI, "spotify:track:t1")
	}
	if state.Device.Type != "Computer" || !state.ShuffleState || state.ProgressMS != 42000 {
		t.Errorf("state = %+v, want device/shuffle/progress populated", state)
	}
}

func TestGetPlaybackStateNothingPlaying(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	state, err := c.GetPlaybackState(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetPlaybackState() error = %v", err)
	}
	if state != nil {
		t.Errorf("GetPlaybackState() = %+v, want nil", state)
	}
}

func TestMissingCredential(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))

	_, err := c.GetPlaybackState(context.Background(), "")
	if !errors.Is(err, tberrors.ErrNotAuthenticated) {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
	if hits != 0 {
		t.Errorf("server hits = %d, want 0", hits)
	}
}

func TestRetriesTransientErrors(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte(`{"id": "u1", "display_name": "Listener"}`))
		}
	}))

	user, err := c.GetCurrentUser(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if user.DisplayName != "Listener" {
		t.Errorf("DisplayName = %q, want %q", user.DisplayName, "Listener")
	}
	if hits != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"status": 404, "message": "Player command failed: No active device found"}}`))
	}))

	err := c.Pause(context.Background(), "tok", "")
	if !errors.Is(err, tberrors.ErrNoActiveDevice) {
		t.Errorf("Pause() error = %v, want ErrNoActiveDevice", err)
	}
	if !strings.Contains(err.Error(), "No active device") {
		t.Errorf("Pause() error = %q, want Spotify message", err)
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestPlaybackControlMethods(t *testing.T) {
	var mu sync.Mutex
	var got []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Method+" "+r.URL.RequestURI())
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx := context.Background()
	if err := c.Play(ctx, "tok", ""); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := c.Pause(ctx, "tok", "dev"); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if err := c.Next(ctx, "tok", ""); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if err := c.Previous(ctx, "tok", ""); err != nil {
		t.Fatalf("Previous() error = %v", err)
	}

	want := []string{
		"PUT /me/player/play",
		"PUT /me/player/pause?device_id=dev",
		"POST /me/player/next",
		"POST /me/player/previous",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestGetRecentlyPlayed(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit = %q, want 10", got)
		}
		_, _ = w.Write([]byte(`{"items": [
			{"track": {"name": "One", "uri": "spotify:track:1"}, "played_at": "2024-10-27T20:09:44.123Z"},
			{"track": {"name": "Two", "uri": "spotify:track:2"}, "played_at": "2024-10-27T20:05:00Z"}
		]}`))
	}))

	resp, err := c.GetRecentlyPlayed(context.Background(), "tok", 10)
	if err != nil {
		t.Fatalf("GetRecentlyPlayed() error = %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(resp.Items))
	}
	if resp.Items[0].Track.Name != "One" {
		t.Errorf("Items[0].Track.Name = %q, want %q", resp.Items[0].Track.Name, "One")
	}
	if resp.Items[0].PlayedAt.IsZero() {
		t.Error("PlayedAt not parsed")
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := c.GetCurrentUser(ctx, "tok"); err == nil {
			t.Fatalf("call %d: error = nil, want failure", i)
		}
	}
	before := atomic.LoadInt32(&hits)

	_, err := c.GetCurrentUser(ctx, "tok")
	if !errors.Is(err, tberrors.ErrNetworkError) {
		t.Errorf("error = %v, want ErrNetworkError from open breaker", err)
	}
	if after := atomic.LoadInt32(&hits); after != before {
		t.Errorf("open breaker still sent %d requests", after-before)
	}
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	if got := parseRetryAfter(resp); got != 0 {
		t.Errorf("parseRetryAfter(empty) = %v, want 0", got)
	}
	resp.Header.Set("Retry-After", "3")
	if got := parseRetryAfter(resp); got != 3*time.Second {
		t.Errorf("parseRetryAfter(3) = %v, want 3s", got)
	}
}
