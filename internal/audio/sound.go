package audio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

// sound is one decoded track queued on the output. Fields shared with the
// mixer are guarded by the output lock.
type sound struct {
	locator  string
	stream   beep.StreamSeekCloser
	closer   io.Closer
	format   beep.Format
	ctrl     *beep.Ctrl
	out      output
	onStatus core.StatusFunc
	log      *zap.Logger

	// Guarded by out.Lock.
	ended    bool
	released bool

	kick        chan struct{}
	quit        chan struct{}
	releaseOnce sync.Once
}

// queue hands the stream to the output. finish runs when it drains.
func (s *sound) queue() {
	s.out.Play(beep.Seq(s.ctrl, beep.Callback(s.finish)))
}

// finish is called by the mixer with the output lock held.
func (s *sound) finish() {
	if s.released {
		return
	}
	s.ended = true
	s.ctrl.Paused = true
	s.notify()
}

func (s *sound) notify() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Play resumes playback. A sound that reached its end starts over.
func (s *sound) Play(ctx context.Context) error {
	s.out.Lock()
	if s.released {
		s.out.Unlock()
		return deckerrors.ErrClosed
	}
	requeue := s.ended
	if s.ended {
		if err := s.stream.Seek(0); err != nil {
			s.out.Unlock()
			return err
		}
		s.ended = false
	}
	s.ctrl.Paused = false
	s.out.Unlock()

	if requeue {
		s.queue()
	}
	s.notify()
	return nil
}

// Pause halts playback, keeping the position.
func (s *sound) Pause(ctx context.Context) error {
	s.out.Lock()
	defer s.out.Unlock()
	if s.released {
		return deckerrors.ErrClosed
	}
	s.ctrl.Paused = true
	s.notify()
	return nil
}

// SetPosition moves playback to millis, clamped to the stream length.
func (s *sound) SetPosition(ctx context.Context, millis int64) error {
	s.out.Lock()
	if s.released {
		s.out.Unlock()
		return deckerrors.ErrClosed
	}

	n := s.format.SampleRate.N(time.Duration(millis) * time.Millisecond)
	n = min(max(n, 0), s.stream.Len())
	if err := s.stream.Seek(n); err != nil {
		s.out.Unlock()
		return err
	}

	requeue := false
	if s.ended && n < s.stream.Len() {
		// Back inside the track; wait paused for the next Play.
		s.ended = false
		requeue = true
	}
	s.out.Unlock()

	if requeue {
		s.queue()
	}
	s.notify()
	return nil
}

// Release stops reporting, drops the stream from the output and closes
// the decoder. It is safe to call more than once.
func (s *sound) Release(ctx context.Context) error {
	var err error
	s.releaseOnce.Do(func() {
		close(s.quit)

		s.out.Lock()
		s.released = true
		s.ctrl.Streamer = nil
		s.out.Unlock()

		err = s.stream.Close()
		// Decoders may or may not close their source.
		_ = s.closer.Close()
		s.log.Debug("sound released")
	})
	return err
}

// status samples the current playback state.
func (s *sound) status() core.Status {
	s.out.Lock()
	defer s.out.Unlock()

	length := s.stream.Len()
	pos := s.stream.Position()
	if s.ended {
		pos = length
	}
	return core.Status{
		IsPlaying:      !s.ctrl.Paused && !s.ended && !s.released,
		PositionMillis: s.format.SampleRate.D(pos).Milliseconds(),
		DurationMillis: s.format.SampleRate.D(length).Milliseconds(),
	}
}

// report sends a status every interval and after every state change
// until the sound is released.
func (s *sound) report(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.send()
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
		case <-s.kick:
		}
		s.send()
	}
}

func (s *sound) send() {
	select {
	case <-s.quit:
		return
	default:
	}
	if s.onStatus != nil {
		s.onStatus(s.status())
	}
}
