package tui

import (
	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/tui/components"
)

const (
	maxContentWidth = 64
	maxArtHeight    = 16
	minArtHeight    = 4
	maxListHeight   = 5

	// header, blank, blank after art, title, info, blank, controls,
	// blank, progress, blank, status
	fixedRows = 11
)

// layout is where everything sits on screen for one frame. Mouse events
// are matched against the same values the view is drawn from.
type layout struct {
	width, height int

	contentX, contentWidth int

	artRow, artWidth, artHeight int

	titleRow    int
	infoRow     int
	controlsRow int
	controls    components.ControlHits
	barRow      int
	barX        int
	barWidth    int
	listRow     int
	listHeight  int
	statusRow   int
}

func (m Model) layout(s core.Session) layout {
	l := layout{width: m.width, height: m.height}

	l.contentWidth = min(max(m.width-4, 10), maxContentWidth)
	l.contentX = max((m.width-l.contentWidth)/2, 0)

	total := m.player.Playlist().Len()
	l.listHeight = min(total, maxListHeight)
	room := m.height - fixedRows - l.listHeight
	if room < 0 {
		l.listHeight = max(l.listHeight+room, 0)
		room = 0
	}

	if !m.opts.HideArtwork {
		l.artHeight = min(room, maxArtHeight)
		l.artWidth = min(2*l.artHeight, l.contentWidth)
		if l.artHeight < minArtHeight {
			l.artHeight, l.artWidth = 0, 0
		}
	}

	row := 2
	l.artRow = row
	if l.artHeight > 0 {
		row += l.artHeight + 1
	}
	l.titleRow = row
	l.infoRow = row + 1
	l.controlsRow = row + 3
	l.barRow = row + 5
	l.listRow = row + 7
	l.statusRow = max(m.height-1, l.listRow+l.listHeight)

	controlsWidth := m.nowPlaying.ControlsWidth(s.IsPlaying)
	_, hits := m.nowPlaying.Controls(s.IsPlaying)
	l.controls = hits.Offset(centered(m.width, controlsWidth))

	_, barX, barWidth := m.nowPlaying.Progress(s.Position, s.Duration, l.contentWidth)
	l.barX = l.contentX + barX
	l.barWidth = barWidth

	return l
}

// centered is the column at which a line of the given width starts when
// centered in total columns.
func centered(total, width int) int {
	return max((total-width)/2, 0)
}

// onBar reports whether the pointer is on the progress bar, allowing a
// cell of slack at either end.
func (l layout) onBar(x, y int) bool {
	return y == l.barRow && x >= l.barX-1 && x <= l.barX+l.barWidth
}

// listIndex maps a row in the playlist strip to its offset in the strip.
func (l layout) listIndex(y int) (int, bool) {
	if y < l.listRow || y >= l.listRow+l.listHeight {
		return 0, false
	}
	return y - l.listRow, true
}
