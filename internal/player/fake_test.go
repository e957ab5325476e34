package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

// fakeSound records the calls made against one created sound.
type fakeSound struct {
	mu        sync.Mutex
	locator   string
	onStatus  core.StatusFunc
	plays     int
	pauses    int
	positions []int64
	released  bool
}

func (s *fakeSound) Play(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
	return nil
}

func (s *fakeSound) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses++
	return nil
}

func (s *fakeSound) SetPosition(ctx context.Context, millis int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append(s.positions, millis)
	return nil
}

func (s *fakeSound) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	return nil
}

func (s *fakeSound) emit(st core.Status) {
	s.onStatus(st)
}

func (s *fakeSound) isReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

func (s *fakeSound) counts() (plays, pauses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays, s.pauses
}

func (s *fakeSound) seeks() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.positions...)
}

// fakeEngine hands out fakeSounds. Create can be made to fail or to wait
// on a gate per locator.
type fakeEngine struct {
	mu       sync.Mutex
	sounds   []*fakeSound
	opts     []core.LoadOptions
	failures map[string]int
	failErr  error
	gates    map[string]chan struct{}
	blocked  int
	// early is reported through onStatus inside Create, before it returns,
	// the way the beep engine's reporter does.
	early *core.Status
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		failures: make(map[string]int),
		gates:    make(map[string]chan struct{}),
	}
}

func (e *fakeEngine) Create(ctx context.Context, locator string, opts core.LoadOptions, onStatus core.StatusFunc) (core.Sound, error) {
	e.mu.Lock()
	gate := e.gates[locator]
	early := e.early
	e.mu.Unlock()
	if early != nil {
		onStatus(*early)
	}
	if gate != nil {
		e.mu.Lock()
		e.blocked++
		e.mu.Unlock()
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = append(e.opts, opts)
	if e.failures[locator] > 0 {
		e.failures[locator]--
		if e.failErr != nil {
			return nil, e.failErr
		}
		return nil, errors.New("decode failed")
	}
	s := &fakeSound{locator: locator, onStatus: onStatus}
	e.sounds = append(e.sounds, s)
	return s, nil
}

func (e *fakeEngine) attempts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.opts)
}

func (e *fakeEngine) waiting() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blocked
}

func (e *fakeEngine) created() []*fakeSound {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*fakeSound(nil), e.sounds...)
}

func (e *fakeEngine) last() *fakeSound {
	sounds := e.created()
	if len(sounds) == 0 {
		return nil
	}
	return sounds[len(sounds)-1]
}

func twoTrackPlaylist(t *testing.T) *core.Playlist {
	t.Helper()
	p, err := core.NewPlaylist([]core.Track{
		{ID: "1", Title: "Song 1", Audio: "assets/song.mp3", Image: "assets/sham.png"},
		{ID: "2", Title: "Song 2", Audio: "assets/shame.mp3", Image: "assets/indi.jpg"},
	})
	if err != nil {
		t.Fatalf("NewPlaylist() error = %v", err)
	}
	return p
}

func startController(t *testing.T, engine core.AudioEngine, playlist *core.Playlist, opts Options) *Controller {
	t.Helper()
	c, err := New(engine, playlist, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-c.Done()
	})
	return c
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func waitReady(t *testing.T, c *Controller) core.Session {
	t.Helper()
	waitFor(t, "ready phase", func() bool { return c.Snapshot().Phase == core.PhaseReady })
	return c.Snapshot()
}
