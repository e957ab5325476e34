package assets

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tessro/tapedeck/internal/core"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirPath(t *testing.T) {
	d := NewDir("/music")

	tests := []struct {
		locator string
		want    string
	}{
		{"assets/song.mp3", "/music/assets/song.mp3"},
		{"/abs/song.mp3", "/abs/song.mp3"},
		{"./a/../b.wav", "/music/b.wav"},
	}
	for _, tt := range tests {
		if got := d.Path(tt.locator); got != tt.want {
			t.Errorf("Path(%q) = %q, want %q", tt.locator, got, tt.want)
		}
	}
}

func TestDirOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "assets", "song.mp3"), "ID3")
	d := NewDir(dir)

	rc, err := d.Open("assets/song.mp3")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "ID3" {
		t.Errorf("content = %q, want %q", data, "ID3")
	}

	if _, err := d.Open("assets/missing.mp3"); !errors.Is(err, deckerrors.ErrAssetNotFound) {
		t.Errorf("Open(missing) error = %v, want ErrAssetNotFound", err)
	}
	if _, err := d.Open(""); !errors.Is(err, deckerrors.ErrAssetNotFound) {
		t.Errorf("Open(\"\") error = %v, want ErrAssetNotFound", err)
	}
}

func TestDirStat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cover.png"), "12345")
	d := NewDir(dir)

	info, err := d.Stat("cover.png")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size != 5 {
		t.Errorf("Size = %d, want 5", info.Size)
	}
	if info.Path != filepath.Join(dir, "cover.png") {
		t.Errorf("Path = %q", info.Path)
	}
	if info.Locator != "cover.png" {
		t.Errorf("Locator = %q, want %q", info.Locator, "cover.png")
	}

	if _, err := d.Stat("."); !errors.Is(err, deckerrors.ErrAssetNotFound) {
		t.Errorf("Stat(dir) error = %v, want ErrAssetNotFound", err)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "assets", "song.mp3"), "a")
	writeFile(t, filepath.Join(dir, "assets", "sham.png"), "b")
	writeFile(t, filepath.Join(dir, "assets", "shame.mp3"), "c")

	playlist, err := core.NewPlaylist([]core.Track{
		{ID: "1", Title: "Song 1", Audio: "assets/song.mp3", Image: "assets/sham.png"},
		{ID: "2", Title: "Song 2", Audio: "assets/shame.mp3", Image: "assets/indi.jpg"},
		{ID: "3", Title: "Song 3", Audio: "assets/gone.mp3"},
	})
	if err != nil {
		t.Fatal(err)
	}

	result := Check(NewDir(dir), playlist)

	if len(result.Data) != 5 {
		t.Fatalf("reports = %d, want 5", len(result.Data))
	}
	if len(result.Errors) != 2 {
		t.Errorf("errors = %d, want 2: %s", len(result.Errors), result.ErrorSummary())
	}

	var missing []string
	for _, r := range result.Data {
		if !r.OK() {
			missing = append(missing, r.Info.Locator)
			if !errors.Is(r.Err, deckerrors.ErrAssetNotFound) {
				t.Errorf("%s error = %v, want ErrAssetNotFound", r.Info.Locator, r.Err)
			}
		}
	}
	want := []string{"assets/indi.jpg", "assets/gone.mp3"}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, missing[i], want[i])
		}
	}
}
