package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/colors"
	"github.com/tessro/tuneboard/internal/nowplaying"
)

var nowCmd = &cobra.Command{
	Use:     "now",
	Aliases: []string{"status"},
	Short:   "Show what is playing and its album-art colors",
	Long: `Shows the track currently playing on Spotify, its progress and device,
and the dominant/accent color pair extracted from its album art.`,
	RunE: runNow,
}

func init() {
	rootCmd.AddCommand(nowCmd)
}

func runNow(cmd *cobra.Command, args []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	fallback, err := fallbackTheme()
	if err != nil {
		return err
	}

	w := nowplaying.NewWatcher(spotifyPlayer(""), creds, artFetcher(), nowplaying.WatcherOptions{
		PaletteSize: cfg.Colors.PaletteSize,
		Fallback:    fallback,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	state, err := w.Refresh(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return printJSON(out, state)
	}
	printNowPlaying(out, state)
	return nil
}

func printNowPlaying(out io.Writer, state nowplaying.State) {
	snap := state.Snapshot
	if !snap.HasTrack() {
		fmt.Fprintln(out, "Nothing playing")
		return
	}

	playIcon := "▶"
	if !snap.IsPlaying {
		playIcon = "⏸"
	}

	fmt.Fprintf(out, "%s %s\n", playIcon, snap.Track.Title)
	fmt.Fprintf(out, "  %s — %s\n", snap.Track.Artist, snap.Track.Album)
	fmt.Fprintf(out, "  %s %s / %s\n",
		FormatProgress(snap.Progress, snap.Track.Duration, 30),
		FormatDuration(snap.Progress),
		FormatDuration(snap.Track.Duration))

	if snap.Device != nil {
		fmt.Fprintf(out, "  📱 %s", snap.Device.Name)
		if snap.Device.Volume > 0 {
			fmt.Fprintf(out, " (🔊 %d%%)", snap.Device.Volume)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "  🎨 %s / %s", state.Theme.Dominant.Hex(), state.Theme.Accent.Hex())
	if len(state.Theme.Palette) > 0 {
		fmt.Fprintf(out, "  palette: %s", paletteString(state.Theme.Palette))
	}
	fmt.Fprintln(out)
}

func paletteString(p []colors.RGB) string {
	hex := make([]string, len(p))
	for i, c := range p {
		hex[i] = c.Hex()
	}
	return strings.Join(hex, " ")
}
