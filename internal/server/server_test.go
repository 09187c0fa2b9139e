package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tuneboard/internal/colors"
	"github.com/tessro/tuneboard/internal/core"
	tberrors "github.com/tessro/tuneboard/internal/errors"
	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/nowplaying"
)

type stubPlayer struct {
	mu       sync.Mutex
	snap     *core.PlaybackSnapshot
	recent   []core.RecentlyPlayed
	ctrlErr  error
	actions  []string
	gotLimit int
}

func (p *stubPlayer) CurrentlyPlaying(context.Context, core.Credential) (*core.PlaybackSnapshot, error) {
	return p.snap, nil
}

func (p *stubPlayer) RecentlyPlayed(_ context.Context, _ core.Credential, limit int) ([]core.RecentlyPlayed, error) {
	p.gotLimit = limit
	return p.recent, nil
}

func (p *stubPlayer) record(a string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, a)
	return p.ctrlErr
}

func (p *stubPlayer) Play(context.Context, core.Credential) error  { return p.record("play") }
func (p *stubPlayer) Pause(context.Context, core.Credential) error { return p.record("pause") }
func (p *stubPlayer) Next(context.Context, core.Credential) error  { return p.record("next") }
func (p *stubPlayer) Prev(context.Context, core.Credential) error  { return p.record("prev") }

type missingCreds struct{}

func (missingCreds) Credential(context.Context) (core.Credential, error) {
	return "", tberrors.ErrNotAuthenticated
}

func newTestServer(t *testing.T, player *stubPlayer, creds core.CredentialSource) http.Handler {
	t.Helper()
	store, err := history.Open(history.BackendJSONL, filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rec := history.NewRecorder(store, history.DefaultPassthrough())
	fb, err := colors.DefaultTheme("", "")
	require.NoError(t, err)

	srv := New(Deps{
		Player:   player,
		Creds:    creds,
		Watcher:  nowplaying.NewWatcher(player, creds, nil, nowplaying.WatcherOptions{Fallback: fb}),
		Poller:   nowplaying.NewHistoryPoller(player, creds, rec, time.Minute),
		Recorder: rec,
	}, Options{RateLimit: 1000})
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func playing(uri string) *core.PlaybackSnapshot {
	return &core.PlaybackSnapshot{
		Track:     &core.Track{URI: uri, Title: "Song", Artist: "Band", Album: "LP"},
		IsPlaying: true,
		Progress:  30 * time.Second,
		Timestamp: time.Date(2024, 10, 27, 20, 0, 0, 0, time.UTC),
		Device:    &core.Device{Type: "Smartphone"},
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, &stubPlayer{}, core.StaticCredential("tok"))
	rr := do(t, h, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, &stubPlayer{}, core.StaticCredential("tok"))
	do(t, h, http.MethodGet, "/healthz")
	rr := do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "tuneboard_api_requests_total")
}

func TestNowPlaying(t *testing.T) {
	h := newTestServer(t, &stubPlayer{snap: playing("spotify:track:a")}, core.StaticCredential("tok"))

	rr := do(t, h, http.MethodGet, "/api/now-playing")
	require.Equal(t, http.StatusOK, rr.Code)

	var state nowplaying.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	require.True(t, state.Snapshot.HasTrack())
	require.Equal(t, "spotify:track:a", state.Snapshot.Track.URI)
	require.Equal(t, colors.DefaultDominant, state.Theme.Dominant.Hex())
}

func TestRecentlyPlayedLimit(t *testing.T) {
	player := &stubPlayer{recent: []core.RecentlyPlayed{{Track: &core.Track{URI: "spotify:track:x"}}}}
	h := newTestServer(t, player, core.StaticCredential("tok"))

	rr := do(t, h, http.MethodGet, "/api/recently-played")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 10, player.gotLimit)

	rr = do(t, h, http.MethodGet, "/api/recently-played?limit=5")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 5, player.gotLimit)

	for _, bad := range []string{"0", "51", "abc"} {
		rr = do(t, h, http.MethodGet, "/api/recently-played?limit="+bad)
		require.Equal(t, http.StatusBadRequest, rr.Code, "limit=%s", bad)
	}
}

func TestTrackRequiresCredential(t *testing.T) {
	h := newTestServer(t, &stubPlayer{snap: playing("spotify:track:a")}, missingCreds{})

	rr := do(t, h, http.MethodPost, "/api/track")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Contains(t, body.Suggestion, "tuneboard auth login")
}

func TestTrackAppendsThenHistory(t *testing.T) {
	h := newTestServer(t, &stubPlayer{snap: playing("spotify:track:a")}, core.StaticCredential("tok"))

	rr := do(t, h, http.MethodPost, "/api/track")
	require.Equal(t, http.StatusOK, rr.Code)
	var first trackResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))
	require.True(t, first.Appended)
	require.Equal(t, history.ReasonFirstTrack, first.Reason)
	require.Equal(t, "smartphone", first.Record.Platform)

	rr = do(t, h, http.MethodPost, "/api/track")
	var second trackResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
	require.False(t, second.Appended)
	require.Equal(t, history.ReasonSameTrack, second.Reason)

	rr = do(t, h, http.MethodGet, "/api/history?limit=10")
	require.Equal(t, http.StatusOK, rr.Code)
	var records []history.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	require.Equal(t, "spotify:track:a", records[0].URI())
}

func TestHistoryEmpty(t *testing.T) {
	h := newTestServer(t, &stubPlayer{}, core.StaticCredential("tok"))
	rr := do(t, h, http.MethodGet, "/api/history")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestPlayerActions(t *testing.T) {
	player := &stubPlayer{}
	h := newTestServer(t, player, core.StaticCredential("tok"))

	for _, a := range []string{"play", "pause", "next", "prev"} {
		rr := do(t, h, http.MethodPost, "/api/player/"+a)
		require.Equal(t, http.StatusNoContent, rr.Code, a)
	}
	require.Equal(t, []string{"play", "pause", "next", "prev"}, player.actions)

	rr := do(t, h, http.MethodPost, "/api/player/shuffle")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPlayerErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{tberrors.ErrPremiumRequired, http.StatusForbidden},
		{tberrors.ErrNoActiveDevice, http.StatusNotFound},
		{tberrors.ErrRateLimited, http.StatusTooManyRequests},
		{tberrors.ErrNetworkError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := newTestServer(t, &stubPlayer{ctrlErr: tt.err}, core.StaticCredential("tok"))
			rr := do(t, h, http.MethodPost, "/api/player/next")
			require.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	store, err := history.Open(history.BackendJSON, filepath.Join(t.TempDir(), "h.json"))
	require.NoError(t, err)
	defer store.Close()
	h := New(Deps{Recorder: history.NewRecorder(store, history.DefaultPassthrough())},
		Options{CORSOrigins: []string{"http://localhost:3000"}}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/history", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}
