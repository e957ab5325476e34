package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}

	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	var buf bytes.Buffer
	if err := f.template.Execute(&buf, NewRecord(e)); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

// Record is the flat form of an event used by templates and JSON output.
type Record struct {
	Type      string    `json:"type"`
	Emoji     string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"-"`
	Track     int       `json:"track"`
	Title     string    `json:"title"`
	Position  string    `json:"position"`
	Duration  string    `json:"duration"`
	Playing   bool      `json:"playing"`
	Error     string    `json:"error,omitempty"`
}

// NewRecord flattens an event.
func NewRecord(e Event) Record {
	r := Record{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if s := e.Current; s != nil {
		r.Track = s.Index + 1
		if s.Track != nil {
			r.Title = s.Track.DisplayTitle()
		}
		r.Position = FormatDuration(s.Position)
		r.Duration = FormatDuration(s.Duration)
		r.Playing = s.IsPlaying
		if s.Err != nil {
			r.Error = s.Err.Error()
		}
	}

	return r
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if t := track(e.Current); t != nil {
			return fmt.Sprintf("Now playing: %s", t.DisplayTitle())
		}
		return "Track changed"

	case EventTrackComplete:
		if t := track(e.Previous); t != nil {
			return fmt.Sprintf("Finished: %s", t.DisplayTitle())
		}
		return "Track completed"

	case EventTrackSkip:
		if t := track(e.Previous); t != nil {
			return fmt.Sprintf("Skipped: %s", t.DisplayTitle())
		}
		return "Track skipped"

	case EventPause:
		if e.Current != nil {
			return fmt.Sprintf("Paused at %s", FormatDuration(e.Current.Position))
		}
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventSeek:
		if e.Current != nil {
			return fmt.Sprintf("Seek: %s / %s",
				FormatDuration(e.Current.Position),
				FormatDuration(e.Current.Duration))
		}
		return "Seek"

	case EventLoadFailure:
		if e.Current != nil && e.Current.Err != nil {
			return fmt.Sprintf("Load failed: %v", e.Current.Err)
		}
		return "Load failed"

	default:
		return "Unknown event"
	}
}

func track(s *core.Session) *core.Track {
	if s == nil {
		return nil
	}
	return s.Track
}

// FormatDuration renders d as m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventSeek:
		return "⏩"
	case EventLoadFailure:
		return "⚠️"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventSeek:
		return "seek"
	case EventLoadFailure:
		return "load_failure"
	default:
		return "unknown"
	}
}
