package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/core"
)

var controlDevice string

// controlAction describes one playback command.
type controlAction struct {
	use     string
	aliases []string
	short   string
	status  string
	message string
	run     func(p core.Player, ctx context.Context, cred core.Credential) error
}

var controlActions = []controlAction{
	{
		use:     "play",
		aliases: []string{"resume"},
		short:   "Resume playback",
		status:  "playing",
		message: "▶ Resumed",
		run:     func(p core.Player, ctx context.Context, cred core.Credential) error { return p.Play(ctx, cred) },
	},
	{
		use:     "pause",
		short:   "Pause playback",
		status:  "paused",
		message: "⏸ Paused",
		run:     func(p core.Player, ctx context.Context, cred core.Credential) error { return p.Pause(ctx, cred) },
	},
	{
		use:     "next",
		aliases: []string{"skip"},
		short:   "Skip to next track",
		status:  "skipped",
		message: "⏭ Skipped to next track",
		run:     func(p core.Player, ctx context.Context, cred core.Credential) error { return p.Next(ctx, cred) },
	},
	{
		use:     "prev",
		aliases: []string{"previous"},
		short:   "Go to previous track",
		status:  "previous",
		message: "⏮ Previous track",
		run:     func(p core.Player, ctx context.Context, cred core.Credential) error { return p.Prev(ctx, cred) },
	},
}

func init() {
	for _, a := range controlActions {
		a := a
		cmd := &cobra.Command{
			Use:     a.use,
			Aliases: a.aliases,
			Short:   a.short,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runControl(cmd, a)
			},
		}
		cmd.Flags().StringVarP(&controlDevice, "device", "d", "", "target device ID")
		rootCmd.AddCommand(cmd)
	}
}

func runControl(cmd *cobra.Command, a controlAction) error {
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
	if err := a.run(spotifyPlayer(controlDevice), ctx, cred); err != nil {
		return fmt.Errorf("failed to %s: %w", a.use, err)
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return printJSON(out, map[string]string{"status": a.status})
	}
	fmt.Fprintln(out, a.message)
	return nil
}
