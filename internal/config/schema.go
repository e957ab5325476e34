package config

// Config is the root configuration structure.
type Config struct {
	Tracks []TrackConfig `toml:"tracks" yaml:"tracks"`
	Player PlayerConfig  `toml:"player"`
	Audio  AudioConfig   `toml:"audio"`
	TUI    TUIConfig     `toml:"tui"`
	Log    LogConfig     `toml:"log"`

	// path is the file the config was loaded from, empty if none.
	path string
}

// TrackConfig describes one playlist entry.
type TrackConfig struct {
	ID    string `toml:"id,omitempty" yaml:"id,omitempty"`
	Title string `toml:"title" yaml:"title"`
	Audio string `toml:"audio" yaml:"audio"`
	Image string `toml:"image,omitempty" yaml:"image,omitempty"`
}

// PlayerConfig holds playback controller settings.
type PlayerConfig struct {
	LoadRetries int  `toml:"load_retries"`
	RetryWaitMS int  `toml:"retry_wait_ms"`
	SeekStepMS  int  `toml:"seek_step_ms"`
	Autoplay    bool `toml:"autoplay"`
}

// AudioConfig holds audio output settings.
type AudioConfig struct {
	SampleRate       int     `toml:"sample_rate"`
	BufferMS         int     `toml:"buffer_ms"`
	StatusIntervalMS int     `toml:"status_interval_ms"`
	Volume           float64 `toml:"volume"` // in dB-like steps, 0 is unity gain
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme       string `toml:"theme"`
	ThrottleMS  int    `toml:"throttle_ms"`
	HideArtwork bool   `toml:"hide_artwork"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}
