package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/tessro/tapedeck/internal/core"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.tapedeckrc, $XDG_CONFIG_HOME/tapedeck/config.toml, ~/.config/tapedeck/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path == "" {
		cfg.ApplyDefaults()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	if err := cfg.decodeFile(path); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if err := cfg.decodeFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, deckerrors.WithSuggestion(
				fmt.Errorf("%w: %s: %w", deckerrors.ErrConfigNotFound, path, err),
				"Run 'tapedeck config init' to create it")
		}
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// decodeFile reads path into c and fills in defaults for settings the file
// leaves out. Zero is a meaningful retry count, so an explicit
// load_retries survives the defaults.
func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return err
	}
	c.path = path

	retries := c.Player.LoadRetries
	c.ApplyDefaults()
	if md.IsDefined("player", "load_retries") {
		c.Player.LoadRetries = retries
	}
	return nil
}

// DefaultPath returns the path new configuration is written to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tapedeckrc"
	}
	return filepath.Join(home, ".tapedeckrc")
}

// BaseDir returns the directory relative asset locators resolve against:
// the config file's directory, or the working directory without one.
func (c *Config) BaseDir() string {
	if c.path != "" {
		return filepath.Dir(c.path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// LoadPlaylistFile replaces the configured tracks with the ones listed in
// a YAML playlist file. Relative locators in the file resolve against
// the file's own directory.
func (c *Config) LoadPlaylistFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read playlist: %w", err)
	}

	var doc struct {
		Tracks []TrackConfig `yaml:"tracks"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse playlist: %w", err)
	}

	dir := filepath.Dir(path)
	for i := range doc.Tracks {
		doc.Tracks[i].Audio = absLocator(dir, doc.Tracks[i].Audio)
		doc.Tracks[i].Image = absLocator(dir, doc.Tracks[i].Image)
	}
	c.Tracks = doc.Tracks
	return nil
}

// SetFiles replaces the configured tracks with plain audio files, titled
// after their base names.
func (c *Config) SetFiles(files []string) {
	tracks := make([]TrackConfig, len(files))
	for i, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			f = abs
		}
		base := filepath.Base(f)
		tracks[i] = TrackConfig{
			Title: base[:len(base)-len(filepath.Ext(base))],
			Audio: f,
		}
	}
	c.Tracks = tracks
}

// Playlist builds the playlist described by the configuration.
func (c *Config) Playlist() (*core.Playlist, error) {
	tracks := make([]core.Track, len(c.Tracks))
	for i, t := range c.Tracks {
		tracks[i] = core.Track{
			ID:    t.ID,
			Title: t.Title,
			Audio: t.Audio,
			Image: t.Image,
		}
	}
	return core.NewPlaylist(tracks)
}

func absLocator(dir, locator string) string {
	if locator == "" || filepath.IsAbs(locator) {
		return locator
	}
	return filepath.Join(dir, locator)
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".tapedeckrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "tapedeck", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
// A .env file in the working directory is read first; variables already
// set in the environment win.
func applyEnvOverrides(cfg *Config) {
	_ = godotenv.Load()

	// Player
	if v := os.Getenv("TAPEDECK_PLAYER_LOAD_RETRIES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.LoadRetries = i
		}
	}
	if v := os.Getenv("TAPEDECK_PLAYER_AUTOPLAY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Player.Autoplay = b
		}
	}

	// Audio
	if v := os.Getenv("TAPEDECK_AUDIO_SAMPLE_RATE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.SampleRate = i
		}
	}
	if v := os.Getenv("TAPEDECK_AUDIO_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Audio.Volume = f
		}
	}

	// TUI
	if v := os.Getenv("TAPEDECK_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Log
	if v := os.Getenv("TAPEDECK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TAPEDECK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
