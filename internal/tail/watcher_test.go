package tail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

var (
	trackOne = &core.Track{ID: "1", Title: "Song 1", Audio: "assets/song.mp3"}
	trackTwo = &core.Track{ID: "2", Title: "Song 2", Audio: "assets/shame.mp3"}
)

func ready(track *core.Track, index int, playing bool, pos, dur time.Duration) core.Session {
	return core.Session{
		Index:     index,
		Track:     track,
		Phase:     core.PhaseReady,
		IsPlaying: playing,
		Position:  pos,
		Duration:  dur,
	}
}

func types(events []Event) []EventType {
	var out []EventType
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestDiffSessions(t *testing.T) {
	failed := core.Session{Index: 1, Track: trackTwo, Phase: core.PhaseEmpty, Err: errors.New("Song 2: load failed")}

	tests := []struct {
		name    string
		prev    core.Session
		curr    core.Session
		elapsed time.Duration
		want    []EventType
	}{
		{
			name:    "steady playback",
			prev:    ready(trackOne, 0, true, 10*time.Second, time.Minute),
			curr:    ready(trackOne, 0, true, 10*time.Second+250*time.Millisecond, time.Minute),
			elapsed: 250 * time.Millisecond,
		},
		{
			name: "pause",
			prev: ready(trackOne, 0, true, 10*time.Second, time.Minute),
			curr: ready(trackOne, 0, false, 10*time.Second, time.Minute),
			want: []EventType{EventPause},
		},
		{
			name: "resume",
			prev: ready(trackOne, 0, false, 10*time.Second, time.Minute),
			curr: ready(trackOne, 0, true, 10*time.Second, time.Minute),
			want: []EventType{EventResume},
		},
		{
			name:    "seek forward",
			prev:    ready(trackOne, 0, true, 10*time.Second, time.Minute),
			curr:    ready(trackOne, 0, true, 40*time.Second, time.Minute),
			elapsed: 250 * time.Millisecond,
			want:    []EventType{EventSeek},
		},
		{
			name: "seek while paused",
			prev: ready(trackOne, 0, false, 40*time.Second, time.Minute),
			curr: ready(trackOne, 0, false, 5*time.Second, time.Minute),
			want: []EventType{EventSeek},
		},
		{
			name: "skip",
			prev: ready(trackOne, 0, true, 10*time.Second, time.Minute),
			curr: core.Session{Index: 1, Track: trackTwo, Phase: core.PhaseLoading},
			want: []EventType{EventTrackSkip},
		},
		{
			name: "complete",
			prev: ready(trackOne, 0, false, time.Minute, time.Minute),
			curr: core.Session{Index: 1, Track: trackTwo, Phase: core.PhaseLoading},
			want: []EventType{EventTrackComplete},
		},
		{
			name: "change before anything loaded",
			prev: core.Session{Index: 0, Track: trackOne},
			curr: core.Session{Index: 1, Track: trackTwo, Phase: core.PhaseLoading},
			want: []EventType{EventTrackChange},
		},
		{
			name: "load failure",
			prev: core.Session{Index: 1, Track: trackTwo, Phase: core.PhaseLoading},
			curr: failed,
			want: []EventType{EventLoadFailure},
		},
		{
			name: "same failure reported once",
			prev: failed,
			curr: failed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(diffSessions(&tt.prev, &tt.curr, tt.elapsed))
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %s, want %s", i, eventTypeName(got[i]), eventTypeName(tt.want[i]))
				}
			}
		})
	}
}

func TestDiffSessionsFirstPoll(t *testing.T) {
	curr := ready(trackOne, 0, true, 0, time.Minute)
	got := types(diffSessions(nil, &curr, 0))
	if len(got) != 1 || got[0] != EventTrackChange {
		t.Errorf("events = %v, want [track_change]", got)
	}
}

type sessionSequence struct {
	mu       sync.Mutex
	sessions []core.Session
}

func (s *sessionSequence) Snapshot() core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.sessions[0]
	if len(s.sessions) > 1 {
		s.sessions = s.sessions[1:]
	}
	return cur
}

func TestWatcherEmitsEvents(t *testing.T) {
	source := &sessionSequence{sessions: []core.Session{
		ready(trackOne, 0, true, 0, time.Minute),
		ready(trackOne, 0, false, 0, time.Minute),
		{Index: 1, Track: trackTwo, Phase: core.PhaseLoading},
	}}
	w := NewWatcher(source, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	var got []EventType
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case e := <-w.Events():
			got = append(got, e.Type)
		case <-timeout:
			t.Fatalf("events = %v, want pause then skip", got)
		}
	}
	w.Stop()

	if got[0] != EventPause || got[1] != EventTrackSkip {
		t.Errorf("events = %v, want [pause track_skip]", got)
	}
}

func TestFormatter(t *testing.T) {
	curr := ready(trackTwo, 1, true, 75*time.Second, 3*time.Minute)
	prev := ready(trackOne, 0, true, 20*time.Second, time.Minute)
	ts := time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC)

	tests := []struct {
		name  string
		opts  []FormatterOption
		event Event
		want  string
	}{
		{
			name:  "track change",
			event: Event{Type: EventTrackChange, Current: &curr},
			want:  "🎵 Now playing: Song 2",
		},
		{
			name:  "skip names the previous track",
			opts:  []FormatterOption{WithEmoji(false)},
			event: Event{Type: EventTrackSkip, Previous: &prev, Current: &curr},
			want:  "Skipped: Song 1",
		},
		{
			name:  "seek",
			opts:  []FormatterOption{WithEmoji(false), WithTimestamp(true)},
			event: Event{Type: EventSeek, Timestamp: ts, Current: &curr},
			want:  "14:03:09 Seek: 1:15 / 3:00",
		},
		{
			name:  "template",
			opts:  []FormatterOption{WithTemplate("{{.Type}} #{{.Track}} {{.Title}} {{.Position}}")},
			event: Event{Type: EventPause, Current: &curr},
			want:  "pause #2 Song 2 1:15",
		},
		{
			name:  "bad template falls back",
			opts:  []FormatterOption{WithEmoji(false), WithTemplate("{{.Missing")},
			event: Event{Type: EventResume, Current: &curr},
			want:  "Resumed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFormatter(tt.opts...).Format(tt.event)
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLoadFailure(t *testing.T) {
	curr := core.Session{Index: 0, Track: trackOne, Err: errors.New("Song 1: load failed: decode failed")}
	got := NewFormatter(WithEmoji(false)).Format(Event{Type: EventLoadFailure, Current: &curr})
	if !strings.Contains(got, "decode failed") {
		t.Errorf("Format() = %q, want the load error", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59 * time.Second, "0:59"},
		{75 * time.Second, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
