package core

import "time"

// Phase is the lifecycle phase of a playback session.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "empty"
	}
}

// Session is a read-only snapshot of the playback session.
type Session struct {
	Index     int           `json:"index"`
	Track     *Track        `json:"track"`
	Phase     Phase         `json:"phase"`
	IsPlaying bool          `json:"is_playing"`
	Position  time.Duration `json:"position"`
	Duration  time.Duration `json:"duration"` // 0 means unknown / not yet loaded
	Err       error         `json:"-"`
}

// HasAudio returns true if a sound is loaded for the current track.
func (s *Session) HasAudio() bool {
	return s != nil && s.Phase == PhaseReady
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *Session) ProgressPercent() float64 {
	if s == nil || s.Duration <= 0 {
		return 0
	}
	p := float64(s.Position) / float64(s.Duration) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Status is a playback status report from the audio engine.
type Status struct {
	IsPlaying      bool
	PositionMillis int64
	DurationMillis int64
}

// Position returns the reported position as a duration.
func (s Status) Position() time.Duration {
	return time.Duration(s.PositionMillis) * time.Millisecond
}

// Duration returns the reported duration as a duration.
func (s Status) Duration() time.Duration {
	return time.Duration(s.DurationMillis) * time.Millisecond
}
