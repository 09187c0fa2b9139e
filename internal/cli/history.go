package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/nowplaying"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and record the local listening history",
	Long: `The history log lives at history.path in the Spotify extended streaming
history format. A record is added when the track changes or is restarted.`,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the most recent history records",
	Args:    cobra.NoArgs,
	RunE:    runHistoryList,
}

var historyRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Run one record cycle against the current playback",
	Long: `Fetches the currently playing track and appends it to the history log if
it differs from the last record or was restarted.`,
	Args: cobra.NoArgs,
	RunE: runHistoryRecord,
}

var historyPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the history log location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cfg.History.Path)
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of records (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRecordCmd)
	historyCmd.AddCommand(historyPathCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", historyLimit)
	}

	recorder, store, err := openRecorder()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := recorder.Last(historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		if records == nil {
			records = []history.Record{}
		}
		return printJSON(out, records)
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No history recorded yet (%s)\n", store.Path())
		return nil
	}

	now := time.Now()
	t := NewTable(out, "WHEN", "TITLE", "ARTIST", "PLATFORM", "POSITION")
	t.AlignRight(5)
	for _, r := range records {
		when := "-"
		if ts, err := r.Time(); err == nil {
			when = FormatAgo(ts, now)
		}
		t.Row(
			when,
			TruncateString(r.Title(), 40),
			TruncateString(r.Artist(), 30),
			r.Platform,
			FormatDuration(time.Duration(r.MsPlayed)*time.Millisecond),
		)
	}
	t.Flush()
	return nil
}

func runHistoryRecord(cmd *cobra.Command, args []string) error {
	creds, err := credentials()
	if err != nil {
		return err
	}
	recorder, store, err := openRecorder()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	poller := nowplaying.NewHistoryPoller(spotifyPlayer(""), creds, recorder, cfg.HistoryInterval())
	result, err := poller.Cycle(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return printJSON(out, map[string]interface{}{
			"appended": result.Appended,
			"reason":   result.Reason,
			"record":   result.Record,
		})
	}

	if !result.Appended {
		fmt.Fprintf(out, "Not recorded: %s\n", result.Reason)
		return nil
	}
	fmt.Fprintf(out, "Recorded %s — %s (%s)\n", result.Record.Artist(), result.Record.Title(), result.Reason)
	return nil
}
