package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tessro/tapedeck/internal/config"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    interface{}
		wantErr bool
	}{
		{"player.load_retries", "5", 5, false},
		{"player.load_retries", "five", nil, true},
		{"player.autoplay", "yes", true, false},
		{"tui.hide_artwork", "off", false, false},
		{"tui.hide_artwork", "maybe", nil, true},
		{"audio.volume", "-1.5", -1.5, false},
		{"tui.theme", "light", "light", false},
		{"defaults.device", "x", nil, true},
		{"theme", "light", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseValue(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestSetConfigValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := writeConfigFile(path, config.Default()); err != nil {
		t.Fatalf("writeConfigFile() error = %v", err)
	}
	if err := config.AppendTracks(path, config.TrackConfig{Title: "Song 1", Audio: "one.mp3"}); err != nil {
		t.Fatalf("AppendTracks() error = %v", err)
	}

	if err := setConfigValue(path, "tui.theme", "light"); err != nil {
		t.Fatalf("setConfigValue() error = %v", err)
	}
	if err := setConfigValue(path, "player.seek_step_ms", "10000"); err != nil {
		t.Fatalf("setConfigValue() error = %v", err)
	}

	got, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.TUI.Theme != "light" {
		t.Errorf("Theme = %q, want %q", got.TUI.Theme, "light")
	}
	if got.Player.SeekStepMS != 10000 {
		t.Errorf("SeekStepMS = %d, want 10000", got.Player.SeekStepMS)
	}
	if len(got.Tracks) != 1 || got.Tracks[0].Title != "Song 1" {
		t.Errorf("Tracks = %+v, want the appended track kept", got.Tracks)
	}
}

func TestSetConfigValueRestoresOnInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := writeConfigFile(path, config.Default()); err != nil {
		t.Fatalf("writeConfigFile() error = %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := setConfigValue(path, "tui.theme", "neon"); err == nil {
		t.Fatal("setConfigValue() error = nil, want invalid theme")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(before) {
		t.Errorf("config file changed after a rejected value:\n%s", after)
	}
}

func TestSetConfigValueMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	if err := setConfigValue(path, "tui.theme", "dark"); err == nil {
		t.Error("setConfigValue() error = nil, want missing file")
	}
}
