package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrLoadFailed        = errors.New("failed to load audio")
	ErrEmptyPlaylist     = errors.New("playlist is empty")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoAudioDevice     = errors.New("no audio output device")
	ErrClosed            = errors.New("player closed")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// DeckError wraps an error with a user-friendly suggestion.
type DeckError struct {
	Err        error
	Suggestion string
}

func (e *DeckError) Error() string {
	return e.Err.Error()
}

func (e *DeckError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &DeckError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var deckErr *DeckError
	if errors.As(err, &deckErr) && deckErr.Suggestion != "" {
		return deckErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrEmptyPlaylist) {
		return "Add tracks with 'tapedeck playlist add' or pass audio files as arguments"
	}

	if errors.Is(err, ErrAssetNotFound) || strings.Contains(errStr, "no such file") {
		return "Run 'tapedeck playlist check' to find missing files"
	}

	if errors.Is(err, ErrUnsupportedFormat) {
		return "Only .mp3 and .wav files can be played"
	}

	if errors.Is(err, ErrNoAudioDevice) || strings.Contains(errStr, "alsa") ||
		strings.Contains(errStr, "audio device") {
		return "Check that an audio output device is available"
	}

	if errors.Is(err, ErrLoadFailed) {
		return "The file may be corrupt. Try another track"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Run 'tapedeck config show' to inspect your configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
