package tail

import (
	"context"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventSeek
	EventLoadFailure
)

// seekTolerance is how far the position may drift from the expected one
// between polls before it counts as a seek.
const seekTolerance = 2 * time.Second

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Session
	Current   *core.Session
}

// SessionSource provides the current playback session.
type SessionSource interface {
	Snapshot() core.Session
}

// Watcher polls a session source for state changes and emits events.
type Watcher struct {
	source   SessionSource
	interval time.Duration
	events   chan Event
	done     chan struct{}
}

// NewWatcher creates a new state watcher.
func NewWatcher(source SessionSource, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = 250 * time.Millisecond
	}
	return &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	prev := w.source.Snapshot()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case now := <-ticker.C:
			curr := w.source.Snapshot()
			before := prev

			for _, e := range diffSessions(&before, &curr, now.Sub(last)) {
				select {
				case w.events <- e:
				default:
					// Drop event if channel is full
				}
			}

			prev = curr
			last = now
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffSessions compares two sessions taken elapsed apart and returns the
// detected events.
func diffSessions(prev, curr *core.Session, elapsed time.Duration) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var events []Event
	emit := func(t EventType) {
		events = append(events, Event{
			Type:      t,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if prev == nil {
		if curr.Track != nil {
			emit(EventTrackChange)
		}
		return events
	}

	if curr.Err != nil && (prev.Err == nil || prev.Err.Error() != curr.Err.Error()) {
		emit(EventLoadFailure)
	}

	if trackChanged(prev, curr) {
		eventType := EventTrackChange

		// Check if it was a completion vs skip
		if prev.HasAudio() && wasCompleted(prev) {
			eventType = EventTrackComplete
		} else if prev.HasAudio() {
			eventType = EventTrackSkip
		}
		emit(eventType)
		return events
	}

	if prev.IsPlaying && !curr.IsPlaying {
		emit(EventPause)
	} else if !prev.IsPlaying && curr.IsPlaying {
		emit(EventResume)
	}

	if wasSeek(prev, curr, elapsed) {
		emit(EventSeek)
	}

	return events
}

// trackChanged returns true if the session moved to another track.
func trackChanged(prev, curr *core.Session) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.ID != curr.Track.ID
}

// wasCompleted returns true if the track likely completed naturally.
func wasCompleted(s *core.Session) bool {
	return s.ProgressPercent() >= 95
}

// wasSeek returns true if the position moved further than playback alone
// would explain.
func wasSeek(prev, curr *core.Session, elapsed time.Duration) bool {
	if !prev.HasAudio() || !curr.HasAudio() {
		return false
	}
	expected := prev.Position
	if prev.IsPlaying {
		expected += elapsed
	}
	drift := curr.Position - expected
	if drift < 0 {
		drift = -drift
	}
	return drift > seekTolerance
}
