package cli

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/artwork"
	"github.com/tessro/tapedeck/internal/assets"
	"github.com/tessro/tapedeck/internal/audio"
	"github.com/tessro/tapedeck/internal/config"
	"github.com/tessro/tapedeck/internal/logging"
	"github.com/tessro/tapedeck/internal/player"
)

const closeTimeout = 2 * time.Second

// deck wires the configured playlist, audio engine and controller
// together and runs the controller until closed.
type deck struct {
	log      *zap.Logger
	resolver *assets.Dir
	ctrl     *player.Controller
	art      *artwork.Renderer
	cancel   context.CancelFunc
}

type deckOptions struct {
	files       []string
	console     io.Writer
	autoAdvance bool
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func openDeck(ctx context.Context, c *config.Config, opts deckOptions) (*deck, error) {
	if len(opts.files) > 0 {
		c.SetFiles(opts.files)
	}
	playlist, err := c.Playlist()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(c.Log, opts.console)
	if err != nil {
		return nil, err
	}

	resolver := assets.NewDir(c.BaseDir())
	engine := audio.New(resolver, audio.Options{
		SampleRate:     c.Audio.SampleRate,
		Buffer:         millis(c.Audio.BufferMS),
		StatusInterval: millis(c.Audio.StatusIntervalMS),
		Volume:         c.Audio.Volume,
		Logger:         log.Named("audio"),
	})

	ctrl, err := player.New(engine, playlist, player.Options{
		LoadRetries: c.Player.LoadRetries,
		RetryWait:   millis(c.Player.RetryWaitMS),
		AutoAdvance: opts.autoAdvance,
		Logger:      log.Named("player"),
	})
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := ctrl.Run(runCtx); err != nil && runCtx.Err() == nil {
			log.Error("controller stopped", zap.Error(err))
		}
	}()

	log.Info("deck opened",
		zap.Int("tracks", playlist.Len()),
		zap.String("base", resolver.Base))

	return &deck{
		log:      log,
		resolver: resolver,
		ctrl:     ctrl,
		art:      artwork.NewRenderer(resolver),
		cancel:   cancel,
	}, nil
}

// Close releases the loaded sound and stops the controller.
func (d *deck) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := d.ctrl.Close(ctx); err != nil {
		d.log.Warn("close failed", zap.Error(err))
	}
	d.cancel()
	<-d.ctrl.Done()
	_ = d.log.Sync()
}
