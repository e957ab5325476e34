package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

// teardownTimeout bounds the release of the last sound when Run's context
// is cancelled.
const teardownTimeout = 2 * time.Second

// Options configures a Controller.
type Options struct {
	// LoadRetries is how many times a failed load is retried before the
	// failure is surfaced.
	LoadRetries int
	// RetryWait is the wait before the first retry; it doubles each retry.
	RetryWait time.Duration
	// AutoAdvance moves to the next track when the current one finishes.
	AutoAdvance bool
	Logger      *zap.Logger
}

// Controller owns the playback session. All state changes happen on the
// goroutine running Run; public methods and engine callbacks are turned
// into messages for it.
type Controller struct {
	engine   core.AudioEngine
	playlist *core.Playlist
	opts     Options
	log      *zap.Logger

	inbox   chan any
	statusC chan struct{}
	updates chan core.Session
	done    chan struct{}
	started atomic.Bool

	// gen identifies the sound the session currently cares about. It is
	// bumped on every load and release; anything tagged with an older
	// generation is stale.
	gen atomic.Uint64

	statusMu      sync.Mutex
	pendingStatus *statusMsg

	snapMu sync.RWMutex
	snap   core.Session

	// Owned by the Run goroutine.
	baseCtx  context.Context
	index    int
	phase    core.Phase
	sound    core.Sound
	playing  bool
	position time.Duration
	duration time.Duration
	lastErr  error
	closed   bool

	// early holds the latest report that arrived while still loading.
	early *core.Status
}

// New creates a controller for a non-empty playlist. Call Run to start it.
func New(engine core.AudioEngine, playlist *core.Playlist, opts Options) (*Controller, error) {
	if playlist.IsEmpty() {
		return nil, deckerrors.ErrEmptyPlaylist
	}
	if opts.LoadRetries < 0 {
		opts.LoadRetries = 0
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Controller{
		engine:   engine,
		playlist: playlist,
		opts:     opts,
		log:      log.Named("player"),
		inbox:    make(chan any),
		statusC:  make(chan struct{}, 1),
		updates:  make(chan core.Session, 1),
		done:     make(chan struct{}),
	}
	c.snap = c.session()
	return c, nil
}

// Playlist returns the playlist the controller plays from.
func (c *Controller) Playlist() *core.Playlist {
	return c.playlist
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() core.Session {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snap
}

// Updates returns a channel carrying the latest session after each change.
// Only the most recent session is kept if the reader falls behind.
func (c *Controller) Updates() <-chan core.Session {
	return c.updates
}

// Done returns a channel that is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Play loads and starts the current track, or resumes it if loaded.
func (c *Controller) Play(ctx context.Context) error {
	return c.send(ctx, command{kind: cmdPlay})
}

// Pause pauses playback. It does nothing when no audio is loaded.
func (c *Controller) Pause(ctx context.Context) error {
	return c.send(ctx, command{kind: cmdPause})
}

// TogglePlayPause pauses when playing and plays otherwise.
func (c *Controller) TogglePlayPause(ctx context.Context) error {
	return c.send(ctx, command{kind: cmdToggle})
}

// SeekTo moves playback to target, clamped to the track's duration. It
// does nothing when no audio is loaded.
func (c *Controller) SeekTo(ctx context.Context, target time.Duration) error {
	return c.send(ctx, command{kind: cmdSeek, target: target})
}

// SeekBy moves playback relative to the current position.
func (c *Controller) SeekBy(ctx context.Context, delta time.Duration) error {
	return c.send(ctx, command{kind: cmdSeekBy, target: delta})
}

// Next skips to the next track, wrapping to the first after the last.
func (c *Controller) Next(ctx context.Context) error {
	return c.send(ctx, command{kind: cmdNext})
}

// Previous goes back one track, wrapping to the last before the first.
func (c *Controller) Previous(ctx context.Context) error {
	return c.send(ctx, command{kind: cmdPrevious})
}

// SelectTrack jumps to the track at index i and starts it.
func (c *Controller) SelectTrack(ctx context.Context, i int) error {
	if i < 0 || i >= c.playlist.Len() {
		return fmt.Errorf("track %d out of range (1-%d)", i+1, c.playlist.Len())
	}
	return c.send(ctx, command{kind: cmdSelect, index: i})
}

// Close releases any loaded audio and stops the controller.
func (c *Controller) Close(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}
	err := c.send(ctx, command{kind: cmdClose})
	if errors.Is(err, deckerrors.ErrClosed) {
		return nil
	}
	return err
}

// send delivers a command to the Run goroutine and waits for its result.
func (c *Controller) send(ctx context.Context, cmd command) error {
	cmd.ctx = ctx
	cmd.reply = make(chan error, 1)

	select {
	case c.inbox <- cmd:
	case <-c.done:
		return deckerrors.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post delivers an internal message, giving up once Run has returned.
func (c *Controller) post(msg any) bool {
	select {
	case c.inbox <- msg:
		return true
	case <-c.done:
		return false
	}
}

// onStatus returns the status callback for the sound of generation gen.
// It never blocks the engine: only the latest report is kept until the
// Run goroutine picks it up.
func (c *Controller) onStatus(gen uint64) core.StatusFunc {
	return func(s core.Status) {
		if c.gen.Load() != gen {
			return
		}
		c.statusMu.Lock()
		c.pendingStatus = &statusMsg{gen: gen, status: s}
		c.statusMu.Unlock()

		select {
		case c.statusC <- struct{}{}:
		default:
		}
	}
}

// Run processes messages until ctx is cancelled or Close is called.
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return errors.New("controller already running")
	}
	defer close(c.done)

	c.baseCtx = ctx
	c.log.Debug("controller started", zap.Int("tracks", c.playlist.Len()))

	for !c.closed {
		select {
		case <-ctx.Done():
			tctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
			c.teardown(tctx)
			cancel()
			return ctx.Err()

		case <-c.statusC:
			c.statusMu.Lock()
			msg := c.pendingStatus
			c.pendingStatus = nil
			c.statusMu.Unlock()
			if msg != nil {
				c.handleStatus(*msg)
			}

		case msg := <-c.inbox:
			switch m := msg.(type) {
			case command:
				m.reply <- c.handleCommand(m)
			case loadResult:
				c.handleLoadResult(m)
			}
		}
	}

	return nil
}
