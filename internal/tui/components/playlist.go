package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/tui/styles"
)

// Playlist displays the tracks around the current one
type Playlist struct {
	offset int
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// Window returns the range of track indexes [start, end) shown in
// maxLines rows while keeping current in view.
func (p *Playlist) Window(current, total, maxLines int) (start, end int) {
	if total == 0 || maxLines <= 0 {
		return 0, 0
	}
	if p.offset > current {
		p.offset = current
	}
	if current >= p.offset+maxLines {
		p.offset = current - maxLines + 1
	}
	if p.offset+maxLines > total {
		p.offset = max(total-maxLines, 0)
	}
	return p.offset, min(p.offset+maxLines, total)
}

// Render renders up to maxLines tracks in width cells.
func (p *Playlist) Render(playlist *core.Playlist, current int, playing bool, width, maxLines int) string {
	if playlist.IsEmpty() {
		return styles.Muted.Render("Playlist is empty")
	}

	tracks := playlist.Tracks()
	start, end := p.Window(current, len(tracks), maxLines)
	lines := make([]string, 0, end-start)

	// Fixed overhead: "XX. " (4) + "▶ " or "  " (2)
	const overhead = 6

	for i := start; i < end; i++ {
		num := fmt.Sprintf("%2d.", i+1)
		title := styles.Truncate(tracks[i].DisplayTitle(), width-overhead)

		var line string
		if i == current {
			icon := "▶"
			if !playing {
				icon = "·"
			}
			line = styles.Highlight.Render(fmt.Sprintf("%s %s %s", num, icon, title))
		} else {
			line = fmt.Sprintf("%s   %s", styles.Dim.Render(num), styles.Muted.Render(title))
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
