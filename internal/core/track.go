package core

import (
	"github.com/google/uuid"
)

// trackNamespace scopes derived track IDs so they never collide with
// IDs derived for other purposes from the same locator.
var trackNamespace = uuid.MustParse("6f1c3f0e-5d7a-4c1b-9a52-2f3e8d4b7c10")

// Track represents one playable audio item. Tracks are immutable once
// the playlist is built.
type Track struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Audio string `json:"audio"` // resource locator for the audio asset
	Image string `json:"image"` // resource locator for the artwork, may be empty
}

// DeriveID returns a stable identifier for an audio locator. The same
// locator always yields the same ID.
func DeriveID(audio string) string {
	return uuid.NewSHA1(trackNamespace, []byte(audio)).String()
}

// DisplayTitle returns the title, falling back to the audio locator.
func (t Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Audio
}
