package artwork

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tapedeck/internal/assets"
	"github.com/tessro/tapedeck/internal/core"
)

type countingResolver struct {
	core.AssetResolver
	opens int
}

func (r *countingResolver) Open(locator string) (io.ReadCloser, error) {
	r.opens++
	return r.AssetResolver.Open(locator)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, A: 255}
			if y >= h/2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func assertSize(t *testing.T, art string, width, height int) {
	t.Helper()
	lines := strings.Split(art, "\n")
	if len(lines) != height {
		t.Errorf("lines = %d, want %d", len(lines), height)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d", i, w, width)
		}
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "sham.png"), 16, 16)
	r := NewRenderer(assets.NewDir(dir))

	art := r.Render("sham.png", 8, 4)
	assertSize(t, art, 8, 4)
	if !strings.Contains(art, halfBlock) {
		t.Error("art has no half blocks")
	}
}

func TestRenderCaches(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "sham.png"), 4, 4)
	resolver := &countingResolver{AssetResolver: assets.NewDir(dir)}
	r := NewRenderer(resolver)

	first := r.Render("sham.png", 6, 3)
	second := r.Render("sham.png", 6, 3)
	if first != second {
		t.Error("cached art differs")
	}
	if resolver.opens != 1 {
		t.Errorf("opens = %d, want 1", resolver.opens)
	}

	r.Render("sham.png", 10, 5)
	if resolver.opens != 2 {
		t.Errorf("opens = %d, want 2 after a size change", resolver.opens)
	}
}

func TestRenderPlaceholder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(assets.NewDir(dir))

	for _, locator := range []string{"", "missing.jpg", "broken.png"} {
		art := r.Render(locator, 10, 4)
		assertSize(t, art, 10, 4)
		if !strings.Contains(art, "♪") {
			t.Errorf("Render(%q) is not the placeholder", locator)
		}
	}
}

func TestRenderZeroSize(t *testing.T) {
	r := NewRenderer(assets.NewDir(t.TempDir()))
	if got := r.Render("x.png", 0, 4); got != "" {
		t.Errorf("Render(width 0) = %q, want empty", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		src        image.Rectangle
		maxW, maxH int
		want       image.Rectangle
	}{
		{"square into wide", image.Rect(0, 0, 100, 100), 40, 20, image.Rect(0, 0, 20, 20)},
		{"square into tall", image.Rect(0, 0, 100, 100), 20, 40, image.Rect(0, 0, 20, 20)},
		{"wide image", image.Rect(0, 0, 200, 100), 40, 40, image.Rect(0, 0, 40, 20)},
		{"odd height rounds down", image.Rect(0, 0, 10, 7), 10, 40, image.Rect(0, 0, 10, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fit(tt.src, tt.maxW, tt.maxH); got != tt.want {
				t.Errorf("fit() = %v, want %v", got, tt.want)
			}
		})
	}
}
