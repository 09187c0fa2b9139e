package cli

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/logging"
	"github.com/tessro/tuneboard/internal/nowplaying"
	"github.com/tessro/tuneboard/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Now Playing - current track, progress and device, tinted with the
    colors of the album art
  • Recently Played - the latest tracks reported by Spotify
  • History - the local history log

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Space        Play/Pause
  n            Next track
  p            Previous track
  r            Refresh
  Tab          Switch panel`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "refresh interval in milliseconds (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	fallback, err := fallbackTheme()
	if err != nil {
		return err
	}

	refresh := tuiRefresh
	if refresh <= 0 {
		refresh = cfg.TUI.RefreshInterval
	}

	// The dashboard still runs without the history panel if the store
	// cannot be opened (bolt allows one process at a time).
	var recorder *history.Recorder
	rec, store, err := openRecorder()
	if err != nil {
		logging.Warn().Err(err).Msg("history unavailable")
	} else {
		defer store.Close()
		recorder = rec
	}

	p := spotifyPlayer("")
	watcher := nowplaying.NewWatcher(p, creds, artFetcher(), nowplaying.WatcherOptions{
		PaletteSize: cfg.Colors.PaletteSize,
		Fallback:    fallback,
	})

	return tui.Run(&tui.App{
		Watcher:     watcher,
		Player:      p,
		Creds:       creds,
		Recorder:    recorder,
		RefreshRate: time.Duration(refresh) * time.Millisecond,
		RecentLimit: cfg.NowPlaying.RecentLimit,
		Light:       lightTerminal(cfg.TUI.Theme),
	})
}

// lightTerminal resolves the tui.theme setting; "auto" asks the terminal.
func lightTerminal(theme string) bool {
	switch theme {
	case "light":
		return true
	case "dark":
		return false
	}
	return !lipgloss.HasDarkBackground()
}
