package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/tui/styles"
)

// Hit is a half-open column range [Start, End) on a rendered line.
type Hit struct {
	Start, End int
}

// Contains reports whether column x falls inside the range.
func (h Hit) Contains(x int) bool {
	return x >= h.Start && x < h.End
}

// ControlHits locates the transport glyphs on the controls line.
type ControlHits struct {
	Prev, Toggle, Next Hit
}

// Offset shifts every range by dx columns.
func (c ControlHits) Offset(dx int) ControlHits {
	shift := func(h Hit) Hit { return Hit{h.Start + dx, h.End + dx} }
	return ControlHits{Prev: shift(c.Prev), Toggle: shift(c.Toggle), Next: shift(c.Next)}
}

const controlGap = "   "

// NowPlaying renders the current track's title, transport controls and
// progress.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Title renders the status icon and track title within width cells.
func (n *NowPlaying) Title(s core.Session, width int) string {
	if s.Track == nil {
		return styles.Muted.Render(styles.Truncate("No track", width))
	}
	title := styles.Truncate(s.Track.DisplayTitle(), width-2)
	return styles.StatusIcon(s.IsPlaying) + " " + styles.Title.Render(title)
}

// TitleWidth is the display width of the unstyled title line.
func (n *NowPlaying) TitleWidth(s core.Session, width int) int {
	if s.Track == nil {
		return styles.Width(styles.Truncate("No track", width))
	}
	return 2 + styles.Width(styles.Truncate(s.Track.DisplayTitle(), width-2))
}

// Info renders the track number and load phase.
func (n *NowPlaying) Info(s core.Session, total int) string {
	info := fmt.Sprintf("Track %d/%d", s.Index+1, total)
	switch s.Phase {
	case core.PhaseLoading:
		info += " · loading"
	case core.PhaseEmpty:
		info += " · stopped"
	}
	return info
}

// Controls renders the previous, play/pause and next glyphs and reports
// where each one landed.
func (n *NowPlaying) Controls(playing bool) (string, ControlHits) {
	toggle := "▶"
	toggleStyle := styles.Paused
	if playing {
		toggle = "⏸"
		toggleStyle = styles.Playing
	}

	var hits ControlHits
	x := 0
	place := func(glyph string) Hit {
		h := Hit{Start: x, End: x + styles.Width(glyph)}
		x = h.End + styles.Width(controlGap)
		return h
	}
	hits.Prev = place("⏮")
	hits.Toggle = place(toggle)
	hits.Next = place("⏭")

	line := strings.Join([]string{
		styles.Subtitle.Render("⏮"),
		toggleStyle.Render(toggle),
		styles.Subtitle.Render("⏭"),
	}, controlGap)
	return line, hits
}

// ControlsWidth is the display width of the controls line.
func (n *NowPlaying) ControlsWidth(playing bool) int {
	_, hits := n.Controls(playing)
	return hits.Next.End
}

// Progress renders "elapsed bar total" in width cells. The bar occupies
// [barX, barX+barWidth).
func (n *NowPlaying) Progress(position, duration time.Duration, width int) (line string, barX, barWidth int) {
	elapsed := formatDuration(position)
	total := "-:--"
	if duration > 0 {
		total = formatDuration(duration)
	}

	labelWidth := max(styles.Width(elapsed), styles.Width(total))
	barWidth = width - 2*labelWidth - 2
	if barWidth < 1 {
		barWidth = 1
	}
	barX = labelWidth + 1

	s := core.Session{Position: position, Duration: duration}

	line = styles.Muted.Render(padLeft(elapsed, labelWidth)) + " " +
		styles.ProgressBar(s.ProgressPercent(), barWidth) + " " +
		styles.Muted.Render(padRight(total, labelWidth))
	return line, barX, barWidth
}

func padLeft(s string, width int) string {
	return styles.Repeat(" ", width-styles.Width(s)) + s
}

func padRight(s string, width int) string {
	return s + styles.Repeat(" ", width-styles.Width(s))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
