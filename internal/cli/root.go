// Package cli implements the tuneboard command line.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/colors"
	"github.com/tessro/tuneboard/internal/config"
	tberrors "github.com/tessro/tuneboard/internal/errors"
	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/logging"
	"github.com/tessro/tuneboard/internal/spotify/auth"
	"github.com/tessro/tuneboard/internal/spotify/client"
	"github.com/tessro/tuneboard/internal/spotify/player"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tuneboard",
	Short: "Spotify now playing, album-art colors and listening history",
	Long: `tuneboard shows what Spotify is playing, themes it with colors taken from
the album art, and keeps a local log of every track you listen to.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.tuneboardrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	if err := logging.Init(logging.Config{
		Level:  level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, tberrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

func authConfig() *auth.Config {
	c := auth.NewConfig(cfg.Spotify.ClientID)
	c.RedirectURI = cfg.Spotify.RedirectURI
	c.Scopes = cfg.Spotify.Scopes
	return c
}

func tokenStorage() (*auth.TokenStorage, error) {
	storage, err := auth.NewTokenStorage(cfg.Spotify.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}
	return storage, nil
}

// credentials returns the refreshing credential source backed by the
// stored token.
func credentials() (*auth.Source, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, tberrors.WithSuggestion(
			fmt.Errorf("%w: spotify.client_id not configured", tberrors.ErrInvalidConfig),
			"Set spotify.client_id in ~/.tuneboardrc or TUNEBOARD_SPOTIFY_CLIENT_ID",
		)
	}
	storage, err := tokenStorage()
	if err != nil {
		return nil, err
	}
	return auth.NewSource(authConfig(), storage), nil
}

func spotifyClient() *client.Client {
	return client.New(client.Options{
		RequestsPerSecond: cfg.Spotify.RequestsPerSecond,
	})
}

func spotifyPlayer(deviceID string) *player.Player {
	p := player.New(spotifyClient())
	if deviceID != "" {
		p.SetDevice(deviceID)
	}
	return p
}

func fallbackTheme() (colors.Theme, error) {
	return colors.DefaultTheme(cfg.Colors.DefaultDominant, cfg.Colors.DefaultAccent)
}

func artFetcher() *colors.Fetcher {
	return colors.NewFetcher(&http.Client{Timeout: 10 * time.Second})
}

// openRecorder opens the configured history store. The caller closes the
// returned store.
func openRecorder() (*history.Recorder, history.Store, error) {
	store, err := history.Open(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return nil, nil, err
	}
	return history.NewRecorder(store, cfg.History.Passthrough()), store, nil
}
