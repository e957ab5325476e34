package assets

import (
	"fmt"

	"github.com/tessro/tapedeck/internal/core"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

// Kind names the role an asset plays for a track.
type Kind string

const (
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// AssetReport is the result of checking one asset.
type AssetReport struct {
	Track int
	Title string
	Kind  Kind
	Info  core.AssetInfo
	Err   error
}

// OK reports whether the asset was found.
func (r AssetReport) OK() bool {
	return r.Err == nil
}

// Check stats the audio and image of every track. Missing assets are
// recorded both in their report and as errors on the result.
func Check(resolver core.AssetResolver, playlist *core.Playlist) *deckerrors.PartialResult[[]AssetReport] {
	result := &deckerrors.PartialResult[[]AssetReport]{}

	for i, track := range playlist.Tracks() {
		title := track.DisplayTitle()
		result.Data = append(result.Data, check(resolver, i, title, KindAudio, track.Audio, result))
		if track.Image != "" {
			result.Data = append(result.Data, check(resolver, i, title, KindImage, track.Image, result))
		}
	}

	return result
}

func check(resolver core.AssetResolver, i int, title string, kind Kind, locator string, result *deckerrors.PartialResult[[]AssetReport]) AssetReport {
	report := AssetReport{Track: i, Title: title, Kind: kind, Info: core.AssetInfo{Locator: locator}}
	info, err := resolver.Stat(locator)
	if err != nil {
		report.Err = err
		result.AddError(fmt.Errorf("track %d %s: %w", i+1, kind, err))
		return report
	}
	report.Info = info
	return report
}
