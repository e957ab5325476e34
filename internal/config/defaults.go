package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			LoadRetries: 3,
			RetryWaitMS: 200,
			SeekStepMS:  5000,
		},
		Audio: AudioConfig{
			SampleRate:       44100,
			BufferMS:         100,
			StatusIntervalMS: 250,
		},
		TUI: TUIConfig{
			Theme:      "auto",
			ThrottleMS: 50,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Player
	if c.Player.LoadRetries == 0 {
		c.Player.LoadRetries = d.Player.LoadRetries
	}
	if c.Player.RetryWaitMS == 0 {
		c.Player.RetryWaitMS = d.Player.RetryWaitMS
	}
	if c.Player.SeekStepMS == 0 {
		c.Player.SeekStepMS = d.Player.SeekStepMS
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	if c.Audio.BufferMS == 0 {
		c.Audio.BufferMS = d.Audio.BufferMS
	}
	if c.Audio.StatusIntervalMS == 0 {
		c.Audio.StatusIntervalMS = d.Audio.StatusIntervalMS
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.ThrottleMS == 0 {
		c.TUI.ThrottleMS = d.TUI.ThrottleMS
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
}
