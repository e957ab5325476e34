package core

import (
	"fmt"
)

// Playlist is a fixed, ordered sequence of tracks known at startup.
type Playlist struct {
	tracks []Track
}

// NewPlaylist builds a playlist. Tracks without an ID get one derived
// from their audio locator; duplicate IDs are rejected.
func NewPlaylist(tracks []Track) (*Playlist, error) {
	seen := make(map[string]int, len(tracks))
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		if t.Audio == "" {
			return nil, fmt.Errorf("track %d: audio locator is required", i+1)
		}
		if t.ID == "" {
			t.ID = DeriveID(t.Audio)
		}
		if prev, ok := seen[t.ID]; ok {
			return nil, fmt.Errorf("track %d: duplicate id %q (also used by track %d)", i+1, t.ID, prev+1)
		}
		seen[t.ID] = i
		out[i] = t
	}
	return &Playlist{tracks: out}, nil
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}

// At returns the track at index i, or nil if i is out of range.
func (p *Playlist) At(i int) *Track {
	if i < 0 || i >= p.Len() {
		return nil
	}
	t := p.tracks[i]
	return &t
}

// Tracks returns a copy of the tracks in order.
func (p *Playlist) Tracks() []Track {
	if p == nil {
		return nil
	}
	out := make([]Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// NextIndex returns the index after i, wrapping to 0 at the end.
func (p *Playlist) NextIndex(i int) int {
	n := p.Len()
	if n == 0 {
		return 0
	}
	return (i + 1) % n
}

// PrevIndex returns the index before i, wrapping to the last track.
// The +n keeps the result non-negative since Go's % keeps the sign of
// the dividend.
func (p *Playlist) PrevIndex(i int) int {
	n := p.Len()
	if n == 0 {
		return 0
	}
	return (i - 1 + n) % n
}
