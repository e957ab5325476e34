package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[[tracks]]
title = "Song 1"
audio = "assets/song.mp3"
image = "assets/sham.png"

[[tracks]]
id = "second"
title = "Song 2"
audio = "assets/shame.mp3"

[player]
load_retries = 5

[tui]
theme = "dark"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if len(cfg.Tracks) != 2 {
		t.Fatalf("Tracks = %d, want 2", len(cfg.Tracks))
	}
	if cfg.Tracks[1].ID != "second" {
		t.Errorf("Tracks[1].ID = %q, want %q", cfg.Tracks[1].ID, "second")
	}
	if cfg.Player.LoadRetries != 5 {
		t.Errorf("LoadRetries = %d, want 5", cfg.Player.LoadRetries)
	}
	if cfg.Player.RetryWaitMS != 200 {
		t.Errorf("RetryWaitMS = %d, want default 200", cfg.Player.RetryWaitMS)
	}
	if cfg.TUI.Theme != "dark" {
		t.Errorf("Theme = %q, want %q", cfg.TUI.Theme, "dark")
	}
	if cfg.BaseDir() != dir {
		t.Errorf("BaseDir() = %q, want %q", cfg.BaseDir(), dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	playlist, err := cfg.Playlist()
	if err != nil {
		t.Fatalf("Playlist() error = %v", err)
	}
	if playlist.Len() != 2 {
		t.Errorf("Playlist().Len() = %d, want 2", playlist.Len())
	}
	if playlist.At(0).ID == "" {
		t.Error("first track should get a derived id")
	}
}

func TestLoadRetriesZeroIsKept(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"explicit zero", "[player]\nload_retries = 0\n", 0},
		{"omitted", "[player]\nseek_step_ms = 1000\n", 3},
		{"no player section", "[tui]\ntheme = \"dark\"\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", tt.content)
			cfg, err := LoadFrom(path)
			if err != nil {
				t.Fatalf("LoadFrom() error = %v", err)
			}
			if cfg.Player.LoadRetries != tt.want {
				t.Errorf("LoadRetries = %d, want %d", cfg.Player.LoadRetries, tt.want)
			}
		})
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, deckerrors.ErrConfigNotFound) {
		t.Fatalf("LoadFrom() error = %v, want ErrConfigNotFound", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFrom() error = %v, want it to wrap os.ErrNotExist", err)
	}
	if got := deckerrors.GetSuggestion(err); !strings.Contains(got, "config init") {
		t.Errorf("GetSuggestion() = %q, want a hint to run config init", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TAPEDECK_TUI_THEME", "light")
	t.Setenv("TAPEDECK_LOG_LEVEL", "debug")
	t.Setenv("TAPEDECK_PLAYER_AUTOPLAY", "true")

	path := writeFile(t, t.TempDir(), "config.toml", "")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.TUI.Theme != "light" {
		t.Errorf("Theme = %q, want %q", cfg.TUI.Theme, "light")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if !cfg.Player.Autoplay {
		t.Error("Autoplay = false, want true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, "invalid theme"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"negative retries", func(c *Config) { c.Player.LoadRetries = -1 }, "load_retries"},
		{"missing audio", func(c *Config) { c.Tracks = []TrackConfig{{Title: "x"}} }, "audio is required"},
		{"duplicate id", func(c *Config) {
			c.Tracks = []TrackConfig{{ID: "a", Audio: "1.mp3"}, {ID: "a", Audio: "2.mp3"}}
		}, "duplicate id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadPlaylistFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "set.yaml", `
tracks:
  - title: Song 1
    audio: song.mp3
    image: /art/sham.png
  - title: Song 2
    audio: /music/shame.mp3
`)

	cfg := Default()
	cfg.Tracks = []TrackConfig{{Audio: "replaced.mp3"}}
	if err := cfg.LoadPlaylistFile(path); err != nil {
		t.Fatalf("LoadPlaylistFile() error = %v", err)
	}

	if len(cfg.Tracks) != 2 {
		t.Fatalf("Tracks = %d, want 2", len(cfg.Tracks))
	}
	if cfg.Tracks[0].Audio != filepath.Join(dir, "song.mp3") {
		t.Errorf("Audio = %q, want resolved against playlist dir", cfg.Tracks[0].Audio)
	}
	if cfg.Tracks[0].Image != "/art/sham.png" {
		t.Errorf("Image = %q, want absolute path kept", cfg.Tracks[0].Image)
	}
	if cfg.Tracks[1].Audio != "/music/shame.mp3" {
		t.Errorf("Audio = %q, want %q", cfg.Tracks[1].Audio, "/music/shame.mp3")
	}
}

func TestSetFiles(t *testing.T) {
	cfg := Default()
	cfg.SetFiles([]string{"/music/Blue Monday.mp3"})

	if len(cfg.Tracks) != 1 {
		t.Fatalf("Tracks = %d, want 1", len(cfg.Tracks))
	}
	if cfg.Tracks[0].Title != "Blue Monday" {
		t.Errorf("Title = %q, want %q", cfg.Tracks[0].Title, "Blue Monday")
	}
}

func TestAppendTracks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[tui]
theme = "dark"

[[tracks]]
title = "Song 1"
audio = "song.mp3"
`)

	err := AppendTracks(path, TrackConfig{Title: "Song 2", Audio: "shame.mp3", Image: "indi.jpg"})
	if err != nil {
		t.Fatalf("AppendTracks() error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(cfg.Tracks) != 2 {
		t.Fatalf("Tracks = %d, want 2", len(cfg.Tracks))
	}
	if cfg.Tracks[1].Image != "indi.jpg" {
		t.Errorf("Tracks[1].Image = %q, want %q", cfg.Tracks[1].Image, "indi.jpg")
	}
	if cfg.TUI.Theme != "dark" {
		t.Errorf("Theme = %q, want existing setting kept", cfg.TUI.Theme)
	}
}

func TestAppendTracksCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.toml")
	if err := AppendTracks(path, TrackConfig{Title: "Song", Audio: "a.wav"}); err != nil {
		t.Fatalf("AppendTracks() error = %v", err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(cfg.Tracks) != 1 || cfg.Tracks[0].Audio != "a.wav" {
		t.Errorf("Tracks = %+v, want one a.wav track", cfg.Tracks)
	}
}
