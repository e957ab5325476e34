package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/artwork"
	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/seek"
	"github.com/tessro/tapedeck/internal/tui/components"
	"github.com/tessro/tapedeck/internal/tui/styles"
)

const (
	actionTimeout = 5 * time.Second
	errorTimeout  = 5 * time.Second
	noticeTimeout = 2 * time.Second
)

// Player is the playback session the screen drives.
type Player interface {
	Playlist() *core.Playlist
	Snapshot() core.Session
	Updates() <-chan core.Session
	Done() <-chan struct{}

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	TogglePlayPause(ctx context.Context) error
	SeekTo(ctx context.Context, target time.Duration) error
	SeekBy(ctx context.Context, delta time.Duration) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SelectTrack(ctx context.Context, i int) error
}

// Options configures the screen.
type Options struct {
	Theme       string
	Throttle    time.Duration
	SeekStep    time.Duration
	HideArtwork bool
	Autoplay    bool
	Logger      *zap.Logger
}

// Model is the main TUI model
type Model struct {
	player   Player
	artwork  *artwork.Renderer
	opts     Options
	log      *zap.Logger
	keys     keyMap
	help     help.Model
	gesture  *seek.Gesture
	copyFunc func(string) error

	width  int
	height int

	session core.Session

	// Drag state
	preview time.Duration

	// Error handling
	lastError   error
	errorExpiry time.Time // When to clear the error
	shownLoad   string    // Load failure already surfaced

	notice       string
	noticeExpiry time.Time

	// Components
	nowPlaying *components.NowPlaying
	playlist   *components.Playlist

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(player Player, art *artwork.Renderer, opts Options) Model {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}
	if opts.Throttle <= 0 {
		opts.Throttle = seek.DefaultThrottle
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return Model{
		player:     player,
		artwork:    art,
		opts:       opts,
		log:        log,
		keys:       defaultKeyMap(),
		help:       help.New(),
		gesture:    seek.NewGesture(player, seek.WithThrottle(opts.Throttle)),
		copyFunc:   clipboard.WriteAll,
		session:    player.Snapshot(),
		nowPlaying: components.NewNowPlaying(),
		playlist:   components.NewPlaylist(),
	}
}

// Messages
type sessionMsg core.Session
type playerDoneMsg struct{}
type errMsg error
type clearErrorMsg struct{}
type noticeMsg string
type clearNoticeMsg struct{}

// Commands
func (m Model) waitForSession() tea.Cmd {
	updates, done := m.player.Updates(), m.player.Done()
	return func() tea.Msg {
		select {
		case s := <-updates:
			return sessionMsg(s)
		case <-done:
			return playerDoneMsg{}
		}
	}
}

// do runs a playback action off the UI goroutine.
func (m Model) do(name string, fn func(ctx context.Context) error) tea.Cmd {
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Warn("action failed", zap.String("action", name), zap.Error(err))
			return errMsg(fmt.Errorf("%s: %w", name, err))
		}
		return nil
	}
}

func (m Model) copyTrack() tea.Cmd {
	track := m.session.Track
	copyFunc := m.copyFunc
	return func() tea.Msg {
		if track == nil {
			return nil
		}
		text := track.DisplayTitle() + "\t" + track.Audio
		if err := copyFunc(text); err != nil {
			return errMsg(fmt.Errorf("copy: %w", err))
		}
		return noticeMsg("Copied " + track.DisplayTitle())
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForSession()}
	if m.opts.Autoplay {
		cmds = append(cmds, m.do("play", m.player.Play))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// The bar moved under the pointer; a drag in progress no longer
		// maps to what is on screen.
		m.gesture.Cancel()
		return m, nil

	case sessionMsg:
		m.session = core.Session(msg)
		cmds := []tea.Cmd{m.waitForSession()}
		if cmd := m.surfaceLoadFailure(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case playerDoneMsg:
		m.quitting = true
		return m, tea.Quit

	case errMsg:
		return m, m.showError(msg)

	case clearErrorMsg:
		if !time.Now().Before(m.errorExpiry) {
			m.lastError = nil
		}
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		m.noticeExpiry = time.Now().Add(noticeTimeout)
		return m, tea.Tick(noticeTimeout, func(time.Time) tea.Msg { return clearNoticeMsg{} })

	case clearNoticeMsg:
		if !time.Now().Before(m.noticeExpiry) {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

// surfaceLoadFailure shows a new load error from the session once.
func (m *Model) surfaceLoadFailure() tea.Cmd {
	if m.session.Err == nil {
		m.shownLoad = ""
		return nil
	}
	text := m.session.Err.Error()
	if text == m.shownLoad {
		return nil
	}
	m.shownLoad = text
	return m.showError(m.session.Err)
}

func (m *Model) showError(err error) tea.Cmd {
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorTimeout) // Show error for 5 seconds
	return tea.Tick(errorTimeout, func(time.Time) tea.Msg { return clearErrorMsg{} })
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.PlayPause):
		return m, m.do("play/pause", m.player.TogglePlayPause)

	case key.Matches(msg, m.keys.Next):
		return m, m.do("next", m.player.Next)

	case key.Matches(msg, m.keys.Prev):
		return m, m.do("previous", m.player.Previous)

	case key.Matches(msg, m.keys.SeekBack):
		step := m.opts.SeekStep
		return m, m.do("seek", func(ctx context.Context) error { return m.player.SeekBy(ctx, -step) })

	case key.Matches(msg, m.keys.SeekForward):
		step := m.opts.SeekStep
		return m, m.do("seek", func(ctx context.Context) error { return m.player.SeekBy(ctx, step) })

	case key.Matches(msg, m.keys.Select):
		i := int(msg.String()[0] - '1')
		if i >= m.player.Playlist().Len() {
			return m, nil
		}
		return m, m.selectTrack(i)

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyTrack()

	case key.Matches(msg, m.keys.Cancel):
		m.gesture.Cancel()
		return m, nil
	}

	return m, nil
}

func (m Model) selectTrack(i int) tea.Cmd {
	return m.do("select", func(ctx context.Context) error { return m.player.SelectTrack(ctx, i) })
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	l := m.layout(m.session)
	x := msg.X - l.barX

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			// Any other button abandons a drag.
			m.gesture.Cancel()
			return m, nil
		}
		if l.onBar(msg.X, msg.Y) && m.session.HasAudio() {
			m.gesture.Start(m.session.Position)
			m.preview, _ = m.gesture.Move(x, l.barWidth, m.session.Duration)
			return m, nil
		}
		if msg.Y == l.controlsRow {
			switch {
			case l.controls.Prev.Contains(msg.X):
				return m, m.do("previous", m.player.Previous)
			case l.controls.Toggle.Contains(msg.X):
				return m, m.do("play/pause", m.player.TogglePlayPause)
			case l.controls.Next.Contains(msg.X):
				return m, m.do("next", m.player.Next)
			}
		}
		if row, ok := l.listIndex(msg.Y); ok {
			start, end := m.playlist.Window(m.session.Index, m.player.Playlist().Len(), l.listHeight)
			if i := start + row; i < end {
				return m, m.selectTrack(i)
			}
		}

	case tea.MouseActionMotion:
		if !m.gesture.Active() {
			return m, nil
		}
		if preview, emit := m.gesture.Move(x, l.barWidth, m.session.Duration); emit {
			m.preview = preview
		}

	case tea.MouseActionRelease:
		if !m.gesture.Active() {
			return m, nil
		}
		m.preview = seek.Map(x, l.barWidth, m.session.Duration, m.session.Position)
		gesture, width, duration := m.gesture, l.barWidth, m.session.Duration
		return m, m.do("seek", func(ctx context.Context) error {
			return gesture.Release(ctx, x, width, duration)
		})
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	s := m.session
	l := m.layout(s)
	rows := make([]string, max(m.height, l.statusRow+1))

	rows[0] = strings.Repeat(" ", l.contentX) + styles.Highlight.Render("tapedeck")

	if l.artHeight > 0 && m.artwork != nil {
		image := ""
		if s.Track != nil {
			image = s.Track.Image
		}
		art := m.artwork.Render(image, l.artWidth, l.artHeight)
		pad := strings.Repeat(" ", centered(m.width, l.artWidth))
		for i, line := range strings.Split(art, "\n") {
			if i < l.artHeight {
				rows[l.artRow+i] = pad + line
			}
		}
	}

	titleWidth := m.nowPlaying.TitleWidth(s, l.contentWidth)
	rows[l.titleRow] = strings.Repeat(" ", centered(m.width, titleWidth)) + m.nowPlaying.Title(s, l.contentWidth)

	info := m.nowPlaying.Info(s, m.player.Playlist().Len())
	rows[l.infoRow] = strings.Repeat(" ", centered(m.width, styles.Width(info))) + styles.Subtitle.Render(info)

	controls, _ := m.nowPlaying.Controls(s.IsPlaying)
	rows[l.controlsRow] = strings.Repeat(" ", l.controls.Prev.Start) + controls

	position := s.Position
	if m.gesture.Active() {
		position = m.preview
	}
	progress, _, _ := m.nowPlaying.Progress(position, s.Duration, l.contentWidth)
	rows[l.barRow] = strings.Repeat(" ", l.contentX) + progress

	if l.listHeight > 0 {
		list := m.playlist.Render(m.player.Playlist(), s.Index, s.IsPlaying, l.contentWidth, l.listHeight)
		for i, line := range strings.Split(list, "\n") {
			if i < l.listHeight {
				rows[l.listRow+i] = strings.Repeat(" ", l.contentX) + line
			}
		}
	}

	// The status bar grows upward when the full help is shown.
	status := strings.Split(m.renderStatusBar(), "\n")
	for i, line := range status {
		if row := l.statusRow - len(status) + 1 + i; row >= 0 {
			rows[row] = line
		}
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderStatusBar() string {
	status := m.help.View(m.keys)

	if m.notice != "" {
		status = styles.Playing.Render(m.notice)
	}
	if m.lastError != nil {
		status = styles.ErrorText.Render("Error: " + m.lastError.Error())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

// Run starts the TUI application
func Run(ctx context.Context, player Player, art *artwork.Renderer, opts Options) error {
	styles.Apply(opts.Theme)

	model := NewModel(player, art, opts)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
