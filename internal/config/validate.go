package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := validateTracks(c.Tracks); err != nil {
		errs = append(errs, fmt.Errorf("tracks: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

func validateTracks(tracks []TrackConfig) error {
	var errs []error
	ids := make(map[string]int)
	for i, t := range tracks {
		if t.Audio == "" {
			errs = append(errs, fmt.Errorf("track %d: audio is required", i+1))
		}
		if t.ID == "" {
			continue
		}
		if prev, ok := ids[t.ID]; ok {
			errs = append(errs, fmt.Errorf("track %d: duplicate id %q (also track %d)", i+1, t.ID, prev+1))
			continue
		}
		ids[t.ID] = i
	}
	return errors.Join(errs...)
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.LoadRetries < 0 {
		return errors.New("load_retries must be non-negative")
	}
	if c.RetryWaitMS < 0 {
		return errors.New("retry_wait_ms must be non-negative")
	}
	if c.SeekStepMS < 0 {
		return errors.New("seek_step_ms must be non-negative")
	}
	return nil
}

// Validate checks AudioConfig for errors.
func (c *AudioConfig) Validate() error {
	if c.SampleRate < 0 {
		return errors.New("sample_rate must be non-negative")
	}
	if c.BufferMS < 0 {
		return errors.New("buffer_ms must be non-negative")
	}
	if c.StatusIntervalMS < 0 {
		return errors.New("status_interval_ms must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.ThrottleMS < 0 {
		return errors.New("throttle_ms must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 {
		return errors.New("max_size_mb and max_backups must be non-negative")
	}
	return nil
}
