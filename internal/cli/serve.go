package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/logging"
	"github.com/tessro/tuneboard/internal/nowplaying"
	"github.com/tessro/tuneboard/internal/server"
	"github.com/tessro/tuneboard/internal/supervisor"
)

var (
	serveAddr      string
	serveNoHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the history poller and the HTTP API",
	Long: `Runs until interrupted:

  - a history poller that records every track change to history.path
  - a now-playing poller that keeps the album-art theme current
  - an HTTP API on server.addr (/api/now-playing, /api/recently-played,
    /api/history, /api/track, /api/player/{action}, /healthz, /metrics)

Crashed services are restarted with backoff.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "do not run the history poller")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	creds, err := credentials()
	if err != nil {
		return err
	}
	fallback, err := fallbackTheme()
	if err != nil {
		return err
	}
	recorder, store, err := openRecorder()
	if err != nil {
		return err
	}
	defer store.Close()

	p := spotifyPlayer("")
	watcher := nowplaying.NewWatcher(p, creds, artFetcher(), nowplaying.WatcherOptions{
		Interval:    cfg.NowPlayingInterval(),
		PaletteSize: cfg.Colors.PaletteSize,
		Fallback:    fallback,
	})
	poller := nowplaying.NewHistoryPoller(p, creds, recorder, cfg.HistoryInterval())

	srv := server.New(server.Deps{
		Player:      p,
		Creds:       creds,
		Watcher:     watcher,
		Poller:      poller,
		Recorder:    recorder,
		RecentLimit: cfg.NowPlaying.RecentLimit,
	}, server.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
	})

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{})
	tree.AddPoller(watcher)
	if !serveNoHistory {
		tree.AddPoller(poller)
	}
	tree.AddAPI(supervisor.NewHTTPService(srv.HTTPServer(addr), 0))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.WithComponent("serve")
	log.Info().
		Str("addr", addr).
		Str("history", store.Path()).
		Bool("history_poller", !serveNoHistory).
		Msg("tuneboard serving")
	fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)

	err = tree.Serve(ctx)
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, u := range report {
			log.Warn().Str("service", u.Name).Msg("service did not stop in time")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
