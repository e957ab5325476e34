package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

func (c *Controller) handleCommand(cmd command) error {
	ctx := cmd.ctx
	c.log.Debug("command", zap.Stringer("kind", cmd.kind), zap.Stringer("phase", c.phase))

	switch cmd.kind {
	case cmdPlay:
		return c.play(ctx)

	case cmdPause:
		return c.pause(ctx)

	case cmdToggle:
		if c.playing {
			return c.pause(ctx)
		}
		return c.play(ctx)

	case cmdSeek:
		return c.seekTo(ctx, cmd.target)

	case cmdSeekBy:
		return c.seekTo(ctx, c.position+cmd.target)

	case cmdNext:
		c.switchTo(ctx, c.playlist.NextIndex(c.index))
		return nil

	case cmdPrevious:
		c.switchTo(ctx, c.playlist.PrevIndex(c.index))
		// Show the new track from its start right away instead of the old
		// track's position until the first status report arrives.
		c.position = 0
		c.publish()
		return nil

	case cmdSelect:
		c.switchTo(ctx, cmd.index)
		return nil

	case cmdClose:
		c.teardown(ctx)
		c.closed = true
		return nil
	}

	return fmt.Errorf("unknown command %d", cmd.kind)
}

func (c *Controller) play(ctx context.Context) error {
	if c.sound == nil {
		if c.phase == core.PhaseLoading {
			// Already on its way with autoplay.
			return nil
		}
		c.load(ctx)
		return nil
	}
	if err := c.sound.Play(ctx); err != nil {
		c.log.Warn("play failed", zap.Error(err))
		return fmt.Errorf("failed to play: %w", err)
	}
	return nil
}

func (c *Controller) pause(ctx context.Context) error {
	if c.sound == nil {
		return nil
	}
	if err := c.sound.Pause(ctx); err != nil {
		c.log.Warn("pause failed", zap.Error(err))
		return fmt.Errorf("failed to pause: %w", err)
	}
	return nil
}

func (c *Controller) seekTo(ctx context.Context, target time.Duration) error {
	if c.sound == nil {
		return nil
	}
	target = c.clamp(target)
	if err := c.sound.SetPosition(ctx, target.Milliseconds()); err != nil {
		c.log.Warn("seek failed", zap.Duration("target", target), zap.Error(err))
		return fmt.Errorf("failed to seek: %w", err)
	}
	c.position = target
	c.publish()
	return nil
}

// clamp bounds a seek target to [0, duration]. With an unknown duration
// only the lower bound applies.
func (c *Controller) clamp(target time.Duration) time.Duration {
	if target < 0 {
		return 0
	}
	if c.duration > 0 && target > c.duration {
		return c.duration
	}
	return target
}

// switchTo releases the loaded sound and starts loading track i.
func (c *Controller) switchTo(ctx context.Context, i int) {
	c.index = i
	c.load(ctx)
}

// load releases any loaded sound, then asks the engine for the current
// track on a worker goroutine. The result comes back as a loadResult.
func (c *Controller) load(ctx context.Context) {
	c.release(ctx)

	gen := c.gen.Add(1)
	track := c.playlist.At(c.index)

	c.phase = core.PhaseLoading
	c.early = nil
	c.playing = false
	c.position = 0
	c.duration = 0
	c.publish()

	c.log.Debug("loading track",
		zap.Int("index", c.index),
		zap.String("title", track.DisplayTitle()),
		zap.Uint64("gen", gen))

	go c.create(c.baseCtx, gen, c.index, *track)
}

// create runs off the Run goroutine. Failed loads are retried with
// exponential backoff while the request is still the latest one.
func (c *Controller) create(ctx context.Context, gen uint64, index int, track core.Track) {
	var (
		sound core.Sound
		err   error
	)

	for attempt := 0; attempt <= c.opts.LoadRetries; attempt++ {
		if attempt > 0 {
			wait := c.opts.RetryWait * time.Duration(1<<(attempt-1))
			c.log.Debug("retrying load",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
			select {
			case <-ctx.Done():
				err = ctx.Err()
				c.post(loadResult{gen: gen, index: index, err: err})
				return
			case <-time.After(wait):
			}
		}
		if c.gen.Load() != gen {
			// Superseded by a newer load or a release; nobody wants this one.
			return
		}

		sound, err = c.engine.Create(ctx, track.Audio, core.LoadOptions{Autoplay: true}, c.onStatus(gen))
		if err == nil || !retryable(err) {
			break
		}
	}

	if !c.post(loadResult{gen: gen, index: index, sound: sound, err: err}) && sound != nil {
		_ = sound.Release(context.Background())
	}
}

// retryable reports whether a load error may succeed on another attempt.
func retryable(err error) bool {
	return !errors.Is(err, deckerrors.ErrUnsupportedFormat) &&
		!errors.Is(err, deckerrors.ErrAssetNotFound) &&
		!errors.Is(err, context.Canceled)
}

func (c *Controller) handleLoadResult(r loadResult) {
	if r.gen != c.gen.Load() {
		// A newer request won; keep only its sound.
		if r.sound != nil {
			c.log.Debug("releasing superseded sound", zap.Uint64("gen", r.gen))
			if err := r.sound.Release(c.baseCtx); err != nil {
				c.log.Warn("release failed", zap.Error(err))
			}
		}
		return
	}

	if r.err != nil {
		track := c.playlist.At(r.index)
		c.log.Warn("load failed",
			zap.Int("index", r.index),
			zap.String("audio", track.Audio),
			zap.Error(r.err))
		c.sound = nil
		c.early = nil
		c.phase = core.PhaseEmpty
		c.playing = false
		c.lastErr = fmt.Errorf("%s: %w: %w", track.DisplayTitle(), deckerrors.ErrLoadFailed, r.err)
		c.publish()
		return
	}

	c.sound = r.sound
	c.phase = core.PhaseReady
	c.lastErr = nil
	if early := c.early; early != nil {
		c.early = nil
		c.observe(*early)
	}
	c.log.Info("track ready", zap.Int("index", r.index))
	c.publish()
}

func (c *Controller) handleStatus(m statusMsg) {
	if m.gen != c.gen.Load() {
		// Report from a released or superseded sound.
		return
	}

	if c.phase != core.PhaseReady {
		// The engine may report before Create returns. Only Ready carries
		// isPlaying, so hold the report until the load result lands.
		st := m.status
		c.early = &st
		return
	}

	wasPlaying := c.playing
	c.observe(m.status)
	c.publish()

	if c.opts.AutoAdvance && wasPlaying && finished(m.status) {
		c.log.Debug("track finished, advancing", zap.Int("index", c.index))
		c.switchTo(c.baseCtx, c.playlist.NextIndex(c.index))
	}
}

func (c *Controller) observe(s core.Status) {
	c.playing = s.IsPlaying
	c.position = s.Position()
	c.duration = s.Duration()
}

// finished reports whether a status marks the natural end of a track.
func finished(s core.Status) bool {
	return !s.IsPlaying && s.DurationMillis > 0 && s.PositionMillis >= s.DurationMillis
}

// release frees the loaded sound. Any report or load still in flight for
// it becomes stale.
func (c *Controller) release(ctx context.Context) {
	c.gen.Add(1)
	if c.sound == nil {
		return
	}
	if err := c.sound.Release(ctx); err != nil {
		c.log.Warn("release failed", zap.Error(err))
	}
	c.sound = nil
}

func (c *Controller) teardown(ctx context.Context) {
	c.release(ctx)
	c.phase = core.PhaseEmpty
	c.playing = false
	c.position = 0
	c.duration = 0
	c.publish()
	c.log.Debug("controller stopped")
}

func (c *Controller) session() core.Session {
	return core.Session{
		Index:     c.index,
		Track:     c.playlist.At(c.index),
		Phase:     c.phase,
		IsPlaying: c.playing,
		Position:  c.position,
		Duration:  c.duration,
		Err:       c.lastErr,
	}
}

// publish makes the current state visible to Snapshot and Updates.
func (c *Controller) publish() {
	s := c.session()

	c.snapMu.Lock()
	c.snap = s
	c.snapMu.Unlock()

	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- s:
	default:
	}
}
