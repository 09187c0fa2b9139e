package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/core"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently played tracks",
	Long:  `Lists the tracks Spotify reports as recently played, newest first.`,
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 0, "number of tracks (1-50, default from config)")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	limit := recentLimit
	if limit == 0 {
		limit = cfg.NowPlaying.RecentLimit
	}
	if limit < 1 || limit > 50 {
		return fmt.Errorf("limit must be between 1 and 50, got %d", limit)
	}

	creds, err := credentials()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	cred, err := creds.Credential(ctx)
	if err != nil {
		return err
	}
	items, err := spotifyPlayer("").RecentlyPlayed(ctx, cred, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		if items == nil {
			items = []core.RecentlyPlayed{}
		}
		return printJSON(out, items)
	}

	if len(items) == 0 {
		fmt.Fprintln(out, "Nothing played recently")
		return nil
	}

	now := time.Now()
	t := NewTable(out, "PLAYED", "TITLE", "ARTIST", "ALBUM")
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		t.Row(
			FormatAgo(item.PlayedAt, now),
			TruncateString(item.Track.Title, 40),
			TruncateString(item.Track.Artist, 30),
			TruncateString(item.Track.Album, 30),
		)
	}
	t.Flush()
	return nil
}
