// Package artwork renders cover images as terminal half-block art.
package artwork

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/hashstructure/v2"
	"golang.org/x/image/draw"

	"github.com/tessro/tapedeck/internal/core"
)

const halfBlock = "▀"

// Renderer draws images from a resolver and caches the result per
// locator and size.
type Renderer struct {
	resolver    core.AssetResolver
	placeholder lipgloss.Style

	mu    sync.Mutex
	cache map[uint64]string
}

type cacheKey struct {
	Locator string
	Width   int
	Height  int
}

// NewRenderer returns a renderer reading images through resolver.
func NewRenderer(resolver core.AssetResolver) *Renderer {
	return &Renderer{
		resolver:    resolver,
		placeholder: lipgloss.NewStyle().Faint(true),
		cache:       make(map[uint64]string),
	}
}

// SetPlaceholderStyle sets the style of the art shown for missing images.
func (r *Renderer) SetPlaceholderStyle(s lipgloss.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placeholder = s
	// Placeholders are cached alongside real art.
	r.cache = make(map[uint64]string)
}

// Render returns locator's image as width×height cells. Each cell shows
// two pixels, so the image is scaled to width×2·height. Missing or
// undecodable images give a placeholder of the same size.
func (r *Renderer) Render(locator string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	key, err := hashstructure.Hash(cacheKey{Locator: locator, Width: width, Height: height}, hashstructure.FormatV2, nil)
	if err == nil {
		r.mu.Lock()
		art, ok := r.cache[key]
		r.mu.Unlock()
		if ok {
			return art
		}
	}

	art, rerr := r.render(locator, width, height)
	if rerr != nil {
		art = r.Placeholder(width, height)
	}

	if err == nil {
		r.mu.Lock()
		r.cache[key] = art
		r.mu.Unlock()
	}
	return art
}

// Placeholder returns the art used when there is no image.
func (r *Renderer) Placeholder(width, height int) string {
	r.mu.Lock()
	style := r.placeholder
	r.mu.Unlock()
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, style.Render("♪"))
}

func (r *Renderer) render(locator string, width, height int) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("no image")
	}
	rc, err := r.resolver.Open(locator)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	src, _, err := image.Decode(rc)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", locator, err)
	}

	dst := image.NewRGBA(fit(src.Bounds(), width, height*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, halfBlocks(dst)), nil
}

// fit returns the largest rectangle with src's aspect ratio inside
// maxW×maxH, with an even height so pixel rows pair into cells.
func fit(src image.Rectangle, maxW, maxH int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 {
		return image.Rect(0, 0, maxW, maxH-maxH%2)
	}

	w, h := maxW, sh*maxW/sw
	if h > maxH {
		w, h = sw*maxH/sh, maxH
	}
	h -= h % 2
	return image.Rect(0, 0, max(w, 1), max(h, 2))
}

// halfBlocks renders img with the upper pixel of each pair as the
// foreground and the lower one as the background.
func halfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	lines := make([]string, 0, b.Dy()/2)

	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().
				Foreground(hexColor(img.RGBAAt(x, y))).
				Background(hexColor(img.RGBAAt(x, y+1)))
			sb.WriteString(style.Render(halfBlock))
		}
		lines = append(lines, sb.String())
	}

	return strings.Join(lines, "\n")
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
