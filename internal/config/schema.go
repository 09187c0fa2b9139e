package config

// Config is the root configuration structure.
type Config struct {
	Spotify    SpotifyConfig    `toml:"spotify"`
	History    HistoryConfig    `toml:"history"`
	NowPlaying NowPlayingConfig `toml:"now_playing"`
	Colors     ColorsConfig     `toml:"colors"`
	Server     ServerConfig     `toml:"server"`
	Tail       TailConfig       `toml:"tail"`
	TUI        TUIConfig        `toml:"tui"`
	Log        LogConfig        `toml:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID    string   `toml:"client_id"`
	RedirectURI string   `toml:"redirect_uri"`
	Scopes      []string `toml:"scopes"`
	TokenPath   string   `toml:"token_path"`
	// RequestsPerSecond caps outgoing Web API calls.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// HistoryConfig holds settings for the track history log.
type HistoryConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	Interval int    `toml:"interval"` // milliseconds

	// Constant fields written into every record.
	ConnCountry      string `toml:"conn_country"`
	IPAddr           string `toml:"ip_addr"`
	ReasonStart      string `toml:"reason_start"`
	ReasonEnd        string `toml:"reason_end"`
	OfflineTimestamp int64  `toml:"offline_timestamp"`
}

// NowPlayingConfig holds settings for the now playing poller.
type NowPlayingConfig struct {
	Interval    int `toml:"interval"` // milliseconds
	RecentLimit int `toml:"recent_limit"`
}

// ColorsConfig holds theme color settings.
type ColorsConfig struct {
	DefaultDominant string `toml:"default_dominant"`
	DefaultAccent   string `toml:"default_accent"`
	PaletteSize     int    `toml:"palette_size"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
	RateLimit   int      `toml:"rate_limit"` // requests per minute per client IP, negative disables
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval int `toml:"interval"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}
