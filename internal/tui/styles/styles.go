package styles

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Colors, filled in from a catppuccin flavour by Apply.
var (
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
	TextDim    lipgloss.Color
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	ErrorText lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

func init() {
	Apply("dark")
}

// Flavor returns the catppuccin flavour for a theme name. "auto" follows
// the terminal background.
func Flavor(theme string) catppuccin.Flavor {
	switch theme {
	case "light":
		return catppuccin.Latte
	case "dark":
		return catppuccin.Mocha
	}
	if lipgloss.HasDarkBackground() {
		return catppuccin.Mocha
	}
	return catppuccin.Latte
}

// Apply switches every color and style to the given theme.
func Apply(theme string) {
	f := Flavor(theme)

	Primary = lipgloss.Color(f.Mauve().Hex)
	Secondary = lipgloss.Color(f.Green().Hex)
	Accent = lipgloss.Color(f.Peach().Hex)

	Success = lipgloss.Color(f.Green().Hex)
	Warning = lipgloss.Color(f.Yellow().Hex)
	Error = lipgloss.Color(f.Red().Hex)
	Info = lipgloss.Color(f.Blue().Hex)

	Background = lipgloss.Color(f.Base().Hex)
	Surface = lipgloss.Color(f.Surface0().Hex)
	Border = lipgloss.Color(f.Overlay0().Hex)
	Text = lipgloss.Color(f.Text().Hex)
	TextMuted = lipgloss.Color(f.Subtext0().Hex)
	TextDim = lipgloss.Color(f.Overlay1().Hex)

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	ErrorText = lipgloss.NewStyle().Foreground(Error)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(Repeat("━", filled)) +
		emptyStyle.Render(Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// Repeat repeats a string n times
func Repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += s
	}
	return result
}

// Truncate shortens s to at most width display cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Width returns the display width of an unstyled string.
func Width(s string) int {
	return runewidth.StringWidth(s)
}
