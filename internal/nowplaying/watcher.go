package nowplaying

import (
	"context"
	"sync"
	"time"

	"github.com/tessro/tuneboard/internal/colors"
	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/logging"
	"github.com/tessro/tuneboard/internal/metrics"
)

// State is the latest now-playing view. ArtURL is the artwork Theme was
// extracted from, empty while Theme is the fallback.
type State struct {
	Snapshot  *core.PlaybackSnapshot `json:"snapshot"`
	Theme     colors.Theme           `json:"theme"`
	ArtURL    string                 `json:"art_url,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
	Error     string                 `json:"error,omitempty"`
}

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	Interval    time.Duration
	PaletteSize int
	Fallback    colors.Theme

	// OnUpdate, if set, is called after every poll with the new state.
	OnUpdate func(State)
}

// Watcher polls the currently playing track and re-extracts the color theme
// whenever the album artwork changes.
type Watcher struct {
	player  core.Player
	creds   core.CredentialSource
	fetcher *colors.Fetcher
	opts    WatcherOptions

	refreshMu sync.Mutex
	mu        sync.RWMutex
	state     State
	loop      *Loop
}

// NewWatcher creates a Watcher. The state starts with the fallback theme.
func NewWatcher(player core.Player, creds core.CredentialSource, fetcher *colors.Fetcher, opts WatcherOptions) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = 8 * time.Second
	}
	w := &Watcher{
		player:  player,
		creds:   creds,
		fetcher: fetcher,
		opts:    opts,
		state:   State{Theme: opts.Fallback},
	}
	w.loop = NewLoop("now_playing", opts.Interval, 0, func(ctx context.Context) {
		_, _ = w.Refresh(ctx)
	})
	return w
}

// Current returns the most recent state.
func (w *Watcher) Current() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Refresh polls once and returns the new state. On a fetch failure the
// previous snapshot is kept and the error is recorded in the state.
// Concurrent calls are serialized.
func (w *Watcher) Refresh(ctx context.Context) (State, error) {
	w.refreshMu.Lock()
	defer w.refreshMu.Unlock()

	next := w.Current()
	next.UpdatedAt = time.Now()

	snap, err := w.fetch(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("now playing poll failed")
		next.Error = err.Error()
		w.publish(next)
		return next, err
	}
	next.Error = ""
	next.Snapshot = snap

	art := ""
	if snap.HasTrack() {
		art = snap.Track.AlbumArtURL
	}
	if art != next.ArtURL {
		theme, err := w.themeFor(ctx, art)
		if err != nil {
			// Leave ArtURL unset so the next poll retries the download.
			logging.Ctx(ctx).Warn().Err(err).Str("url", art).Msg("album art load failed, using default colors")
			next.ArtURL = ""
			next.Theme = w.opts.Fallback
		} else {
			next.ArtURL = art
			next.Theme = theme
		}
	}

	w.publish(next)
	return next, nil
}

// Serve runs the poll loop. It implements suture.Service.
func (w *Watcher) Serve(ctx context.Context) error {
	return w.loop.Serve(ctx)
}

// Stop ends Serve.
func (w *Watcher) Stop() {
	w.loop.Stop()
}

func (w *Watcher) String() string {
	return "now-playing-watcher"
}

func (w *Watcher) fetch(ctx context.Context) (*core.PlaybackSnapshot, error) {
	cred, err := w.creds.Credential(ctx)
	if err != nil {
		return nil, err
	}
	return w.player.CurrentlyPlaying(ctx, cred)
}

// themeFor extracts a theme from the artwork at url. An empty url or a
// watcher without a fetcher yields the fallback theme.
func (w *Watcher) themeFor(ctx context.Context, url string) (colors.Theme, error) {
	if url == "" || w.fetcher == nil {
		return w.opts.Fallback, nil
	}

	start := time.Now()
	img, err := w.fetcher.Fetch(ctx, url)
	metrics.RecordColorExtraction(time.Since(start), err)
	if err != nil {
		return colors.Theme{}, err
	}

	theme := colors.NewTheme(img, w.opts.PaletteSize)
	logging.Ctx(ctx).Debug().
		Str("dominant", theme.Dominant.Hex()).
		Str("accent", theme.Accent.Hex()).
		Msg("theme extracted")
	return theme, nil
}

func (w *Watcher) publish(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	if w.opts.OnUpdate != nil {
		w.opts.OnUpdate(s)
	}
}
