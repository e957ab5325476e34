// Package seek turns pointer gestures on a progress bar into seek targets.
package seek

import (
	"context"
	"sync"
	"time"
)

// DefaultThrottle is the minimum spacing between preview updates while
// dragging.
const DefaultThrottle = 50 * time.Millisecond

// Seeker moves playback to a position.
type Seeker interface {
	SeekTo(ctx context.Context, target time.Duration) error
}

// Map converts a pointer offset along a bar of the given width into a
// position within duration. Offsets outside the bar are clamped to its
// ends. With no usable geometry current is returned unchanged.
func Map(pointerX, width int, duration, current time.Duration) time.Duration {
	if width <= 0 || duration <= 0 {
		return current
	}
	x := min(max(pointerX, 0), width)
	return duration * time.Duration(x) / time.Duration(width)
}

// Valid reports whether a bar of the given width over duration can be
// mapped at all.
func Valid(width int, duration time.Duration) bool {
	return width > 0 && duration > 0
}

// Gesture tracks one press, drag, release sequence on a progress bar.
// Nothing carries over from one gesture to the next.
type Gesture struct {
	seeker   Seeker
	throttle time.Duration
	now      func() time.Time

	mu       sync.Mutex
	active   bool
	preview  time.Duration
	lastEmit time.Time
}

// Option configures a Gesture.
type Option func(*Gesture)

// WithThrottle sets the preview throttle interval.
func WithThrottle(d time.Duration) Option {
	return func(g *Gesture) { g.throttle = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gesture) { g.now = now }
}

// NewGesture returns an idle gesture that commits seeks to seeker.
func NewGesture(seeker Seeker, opts ...Option) *Gesture {
	g := &Gesture{
		seeker:   seeker,
		throttle: DefaultThrottle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start begins a gesture with current as the displayed position.
func (g *Gesture) Start(current time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = true
	g.preview = current
	g.lastEmit = time.Time{}
}

// Move updates the preview position for a drag to pointerX. emit is true
// when enough time has passed since the last emitted preview for the
// display to be refreshed. Move never seeks.
func (g *Gesture) Move(pointerX, width int, duration time.Duration) (preview time.Duration, emit bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.active {
		return g.preview, false
	}

	g.preview = Map(pointerX, width, duration, g.preview)

	now := g.now()
	if g.lastEmit.IsZero() || now.Sub(g.lastEmit) >= g.throttle {
		g.lastEmit = now
		return g.preview, true
	}
	return g.preview, false
}

// Release ends the gesture at pointerX and commits the mapped position to
// the seeker. With an unusable geometry no seek is issued.
func (g *Gesture) Release(ctx context.Context, pointerX, width int, duration time.Duration) error {
	g.mu.Lock()
	active := g.active
	g.reset()
	g.mu.Unlock()

	if !active || !Valid(width, duration) {
		return nil
	}
	return g.seeker.SeekTo(ctx, Map(pointerX, width, duration, 0))
}

// Cancel abandons the gesture without seeking.
func (g *Gesture) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

// Active reports whether a gesture is in progress.
func (g *Gesture) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

func (g *Gesture) reset() {
	g.active = false
	g.preview = 0
	g.lastEmit = time.Time{}
}
