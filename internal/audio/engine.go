// Package audio plays tracks through the system speaker using beep.
package audio

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

const (
	defaultSampleRate     = beep.SampleRate(44100)
	defaultBuffer         = 100 * time.Millisecond
	defaultStatusInterval = 250 * time.Millisecond

	resampleQuality = 4
)

// Options configures an Engine.
type Options struct {
	SampleRate     int
	Buffer         time.Duration
	StatusInterval time.Duration
	// Volume is a gain in powers of two; 0 leaves samples untouched.
	Volume float64
	Logger *zap.Logger
}

// output is the sink sounds are mixed into. The speaker package is the
// only real implementation.
type output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }

// Engine implements core.AudioEngine on top of the speaker.
type Engine struct {
	resolver core.AssetResolver
	out      output
	rate     beep.SampleRate
	buffer   time.Duration
	interval time.Duration
	volume   float64
	log      *zap.Logger

	initOnce sync.Once
	initErr  error
}

// New returns an engine that reads assets through resolver. The speaker
// is opened on the first Create.
func New(resolver core.AssetResolver, opts Options) *Engine {
	return newEngine(resolver, speakerOutput{}, opts)
}

func newEngine(resolver core.AssetResolver, out output, opts Options) *Engine {
	e := &Engine{
		resolver: resolver,
		out:      out,
		rate:     beep.SampleRate(opts.SampleRate),
		buffer:   opts.Buffer,
		interval: opts.StatusInterval,
		volume:   opts.Volume,
		log:      opts.Logger,
	}
	if e.rate <= 0 {
		e.rate = defaultSampleRate
	}
	if e.buffer <= 0 {
		e.buffer = defaultBuffer
	}
	if e.interval <= 0 {
		e.interval = defaultStatusInterval
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

func (e *Engine) init() error {
	e.initOnce.Do(func() {
		if err := e.out.Init(e.rate, e.rate.N(e.buffer)); err != nil {
			e.initErr = fmt.Errorf("%w: %w", deckerrors.ErrNoAudioDevice, err)
			return
		}
		e.log.Debug("speaker ready", zap.Int("sample_rate", int(e.rate)), zap.Duration("buffer", e.buffer))
	})
	return e.initErr
}

// Create decodes the asset at locator and queues it on the speaker,
// paused unless opts.Autoplay is set.
func (e *Engine) Create(ctx context.Context, locator string, opts core.LoadOptions, onStatus core.StatusFunc) (core.Sound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decodeFn, err := decoderFor(locator)
	if err != nil {
		return nil, err
	}
	if err := e.init(); err != nil {
		return nil, err
	}

	rc, err := e.resolver.Open(locator)
	if err != nil {
		return nil, err
	}
	stream, format, err := decodeFn(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", locator, err)
	}

	var s beep.Streamer = stream
	if format.SampleRate != e.rate {
		s = beep.Resample(resampleQuality, format.SampleRate, e.rate, s)
	}
	vol := &effects.Volume{Streamer: s, Base: 2, Volume: e.volume}
	ctrl := &beep.Ctrl{Streamer: vol, Paused: !opts.Autoplay}

	snd := &sound{
		locator:  locator,
		stream:   stream,
		closer:   rc,
		format:   format,
		ctrl:     ctrl,
		out:      e.out,
		onStatus: onStatus,
		log:      e.log.With(zap.String("locator", locator)),
		kick:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}

	e.log.Debug("sound created",
		zap.String("locator", locator),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Duration("length", format.SampleRate.D(stream.Len())),
		zap.Bool("autoplay", opts.Autoplay))

	snd.queue()
	go snd.report(e.interval)
	return snd, nil
}

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// decoderFor picks a decoder from the locator's extension.
func decoderFor(locator string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(locator)) {
	case ".mp3":
		return mp3.Decode, nil
	case ".wav":
		return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(rc)
		}, nil
	}
	return nil, fmt.Errorf("%s: %w", locator, deckerrors.ErrUnsupportedFormat)
}
