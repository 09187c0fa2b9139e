package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	tberrors "github.com/tessro/tuneboard/internal/errors"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.tuneboardrc, $XDG_CONFIG_HOME/tuneboard/config.toml, ~/.config/tuneboard/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", tberrors.ErrInvalidConfig, path, err)
		}
	}

	// Apply environment variable overrides, then defaults
	applyEnvOverrides(cfg)
	cfg.ApplyDefaults()

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", tberrors.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", tberrors.ErrInvalidConfig, path, err)
	}
	applyEnvOverrides(cfg)
	cfg.ApplyDefaults()
	return cfg, nil
}

// FindConfigFile returns the first existing config file path, or "".
func FindConfigFile() string {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// SearchPaths lists the locations Load checks, in order.
func SearchPaths() []string {
	var paths []string
	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".tuneboardrc"))
	}
	return append(paths, filepath.Join(configDir(), "config.toml"))
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// HistoryInterval returns the history poll interval.
func (c *Config) HistoryInterval() time.Duration {
	return time.Duration(c.History.Interval) * time.Millisecond
}

// NowPlayingInterval returns the now playing poll interval.
func (c *Config) NowPlayingInterval() time.Duration {
	return time.Duration(c.NowPlaying.Interval) * time.Millisecond
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Spotify
	if v := os.Getenv("TUNEBOARD_SPOTIFY_CLIENT_ID"); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv("TUNEBOARD_SPOTIFY_REDIRECT_URI"); v != "" {
		cfg.Spotify.RedirectURI = v
	}
	if v := os.Getenv("TUNEBOARD_SPOTIFY_TOKEN_PATH"); v != "" {
		cfg.Spotify.TokenPath = v
	}
	if v := os.Getenv("TUNEBOARD_SPOTIFY_SCOPES"); v != "" {
		cfg.Spotify.Scopes = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}

	// History
	if v := os.Getenv("TUNEBOARD_HISTORY_BACKEND"); v != "" {
		cfg.History.Backend = v
	}
	if v := os.Getenv("TUNEBOARD_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("TUNEBOARD_HISTORY_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.History.Interval = i
		}
	}
	if v := os.Getenv("TUNEBOARD_HISTORY_CONN_COUNTRY"); v != "" {
		cfg.History.ConnCountry = v
	}
	if v := os.Getenv("TUNEBOARD_HISTORY_IP_ADDR"); v != "" {
		cfg.History.IPAddr = v
	}

	// Now playing
	if v := os.Getenv("TUNEBOARD_NOW_PLAYING_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.NowPlaying.Interval = i
		}
	}

	// Server
	if v := os.Getenv("TUNEBOARD_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	// TUI
	if v := os.Getenv("TUNEBOARD_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("TUNEBOARD_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("TUNEBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TUNEBOARD_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TUNEBOARD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
