package config

import (
	"os"
	"path/filepath"

	"github.com/tessro/tuneboard/internal/history"
)

// DefaultScopes are the Spotify scopes tuneboard needs.
var DefaultScopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"user-read-recently-played",
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	pass := history.DefaultPassthrough()
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI:       "http://127.0.0.1:8888/callback",
			Scopes:            DefaultScopes,
			TokenPath:         filepath.Join(configDir(), "spotify_token.json"),
			RequestsPerSecond: 5,
		},
		History: HistoryConfig{
			Backend:          "json",
			Path:             filepath.Join(dataDir(), "history.json"),
			Interval:         10000,
			ConnCountry:      pass.ConnCountry,
			IPAddr:           pass.IPAddr,
			ReasonStart:      pass.ReasonStart,
			ReasonEnd:        pass.ReasonEnd,
			OfflineTimestamp: pass.OfflineTimestamp,
		},
		NowPlaying: NowPlayingConfig{
			Interval:    8000,
			RecentLimit: 10,
		},
		Colors: ColorsConfig{
			DefaultDominant: "#8b5cf6",
			DefaultAccent:   "#ec4899",
			PaletteSize:     5,
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8787",
			RateLimit: 120,
		},
		Tail: TailConfig{
			Interval: 1000,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Spotify
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}
	if len(c.Spotify.Scopes) == 0 {
		c.Spotify.Scopes = d.Spotify.Scopes
	}
	if c.Spotify.TokenPath == "" {
		c.Spotify.TokenPath = d.Spotify.TokenPath
	}
	if c.Spotify.RequestsPerSecond == 0 {
		c.Spotify.RequestsPerSecond = d.Spotify.RequestsPerSecond
	}

	// History
	if c.History.Backend == "" {
		c.History.Backend = d.History.Backend
	}
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath(c.History.Backend)
	}
	if c.History.Interval == 0 {
		c.History.Interval = d.History.Interval
	}
	if c.History.ConnCountry == "" {
		c.History.ConnCountry = d.History.ConnCountry
	}
	if c.History.IPAddr == "" {
		c.History.IPAddr = d.History.IPAddr
	}
	if c.History.ReasonStart == "" {
		c.History.ReasonStart = d.History.ReasonStart
	}
	if c.History.ReasonEnd == "" {
		c.History.ReasonEnd = d.History.ReasonEnd
	}
	if c.History.OfflineTimestamp == 0 {
		c.History.OfflineTimestamp = d.History.OfflineTimestamp
	}

	// Now playing
	if c.NowPlaying.Interval == 0 {
		c.NowPlaying.Interval = d.NowPlaying.Interval
	}
	if c.NowPlaying.RecentLimit == 0 {
		c.NowPlaying.RecentLimit = d.NowPlaying.RecentLimit
	}

	// Colors
	if c.Colors.DefaultDominant == "" {
		c.Colors.DefaultDominant = d.Colors.DefaultDominant
	}
	if c.Colors.DefaultAccent == "" {
		c.Colors.DefaultAccent = d.Colors.DefaultAccent
	}
	if c.Colors.PaletteSize == 0 {
		c.Colors.PaletteSize = d.Colors.PaletteSize
	}

	// Server
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = d.Server.RateLimit
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

func defaultHistoryPath(backend string) string {
	name := "history.json"
	switch backend {
	case "jsonl":
		name = "history.jsonl"
	case "bolt":
		name = "history.db"
	}
	return filepath.Join(dataDir(), name)
}

// configDir returns $XDG_CONFIG_HOME/tuneboard or ~/.config/tuneboard.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tuneboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tuneboard"
	}
	return filepath.Join(home, ".config", "tuneboard")
}

// dataDir returns $XDG_DATA_HOME/tuneboard or ~/.local/share/tuneboard.
func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tuneboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tuneboard"
	}
	return filepath.Join(home, ".local", "share", "tuneboard")
}

// Passthrough returns the constant record fields configured for history.
func (h HistoryConfig) Passthrough() history.Passthrough {
	return history.Passthrough{
		ConnCountry:      h.ConnCountry,
		IPAddr:           h.IPAddr,
		ReasonStart:      h.ReasonStart,
		ReasonEnd:        h.ReasonEnd,
		OfflineTimestamp: h.OfflineTimestamp,
	}
}
