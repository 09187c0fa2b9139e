package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
	tailRecent    int
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch for playback state changes and print them as they happen.

Events tracked:
  - Track changes (new song started)
  - Track completions (song finished)
  - Track skips (song skipped before completion)
  - Restarts (same song played again from the start)
  - Pause/Resume
  - Volume changes
  - Device changes

With --json every event is printed as one JSON object per line.`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default from config)")
	tailCmd.Flags().IntVar(&tailRecent, "recent", 5, "recently played tracks to show on startup")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	p := spotifyPlayer("")

	interval := tailInterval
	if interval == 0 {
		interval = time.Duration(cfg.Tail.Interval) * time.Millisecond
	}

	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
		tail.WithJSON(JSONOutput()),
	)

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if !JSONOutput() {
		showInitialState(ctx, out, p, creds)
	}

	watcher := tail.NewWatcher(p, creds, interval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for event := range watcher.Events() {
		fmt.Fprintln(out, formatter.Format(event))
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// showInitialState prints recently played tracks, oldest first, so the
// stream reads chronologically.
func showInitialState(ctx context.Context, out io.Writer, p core.Player, creds core.CredentialSource) {
	if tailRecent <= 0 {
		return
	}
	cred, err := creds.Credential(ctx)
	if err != nil {
		return
	}
	recent, err := p.RecentlyPlayed(ctx, cred, tailRecent)
	if err != nil {
		return
	}
	for i := len(recent) - 1; i >= 0; i-- {
		entry := recent[i]
		if entry.Track == nil {
			continue
		}
		timestamp := ""
		if tailTimestamp {
			timestamp = entry.PlayedAt.Local().Format("15:04:05") + " "
		}
		emoji := ""
		if !tailNoEmoji {
			emoji = "⏪ "
		}
		fmt.Fprintf(out, "%s%s%s — %s\n", timestamp, emoji, entry.Track.Artist, entry.Track.Title)
	}
}
