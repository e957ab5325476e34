package player

import (
	"context"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

type commandKind int

const (
	cmdPlay commandKind = iota
	cmdPause
	cmdToggle
	cmdSeek
	cmdSeekBy
	cmdNext
	cmdPrevious
	cmdSelect
	cmdClose
)

func (k commandKind) String() string {
	switch k {
	case cmdPlay:
		return "play"
	case cmdPause:
		return "pause"
	case cmdToggle:
		return "toggle"
	case cmdSeek:
		return "seek"
	case cmdSeekBy:
		return "seek-by"
	case cmdNext:
		return "next"
	case cmdPrevious:
		return "previous"
	case cmdSelect:
		return "select"
	case cmdClose:
		return "close"
	default:
		return "unknown"
	}
}

// command is a transport request from a caller.
type command struct {
	kind   commandKind
	index  int
	target time.Duration
	ctx    context.Context
	reply  chan error
}

// loadResult reports the outcome of an engine Create for generation gen.
type loadResult struct {
	gen   uint64
	index int
	sound core.Sound
	err   error
}

// statusMsg is a status report from the sound of generation gen.
type statusMsg struct {
	gen    uint64
	status core.Status
}
