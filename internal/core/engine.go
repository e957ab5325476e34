package core

import (
	"context"
	"io"
	"time"
)

// LoadOptions configures how a sound is created.
type LoadOptions struct {
	Autoplay bool
}

// StatusFunc receives asynchronous status reports for a sound. It may be
// called from any goroutine, several times per second.
type StatusFunc func(Status)

// Sound is a loaded playback resource. At most one is live per session.
type Sound interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetPosition(ctx context.Context, millis int64) error
	Release(ctx context.Context) error
}

// AudioEngine creates sounds from resource locators.
type AudioEngine interface {
	Create(ctx context.Context, locator string, opts LoadOptions, onStatus StatusFunc) (Sound, error)
}

// AssetInfo describes a resolved asset.
type AssetInfo struct {
	Locator string
	Path    string
	Size    int64
	ModTime time.Time
}

// AssetResolver turns resource locators into readable assets.
type AssetResolver interface {
	Open(locator string) (io.ReadCloser, error)
	Stat(locator string) (AssetInfo, error)
}
