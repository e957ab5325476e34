package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/tapedeck/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui [files...]",
	Aliases: []string{"tui"},
	Short:   "Open the player screen",
	Long: `Open the player screen.

The screen shows the current track's artwork and title, transport
controls, a progress bar and the playlist. Click the controls or drag
along the progress bar with the mouse.

Keyboard shortcuts:
  Space        Play/Pause
  n            Next track
  p            Previous track
  ←/→          Seek back/forward
  1-9          Select track
  y            Copy track title and file
  ?            Help
  q, Ctrl+C    Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return startTUI(cmd.Context(), args, -1, cfg.Player.Autoplay)
}

// startTUI opens the screen. With start >= 0 that track is loaded and
// played right away.
func startTUI(ctx context.Context, files []string, start int, autoplay bool) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the player screen needs a terminal; use 'tapedeck play --headless'")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := openDeck(ctx, cfg, deckOptions{files: files})
	if err != nil {
		return err
	}
	defer d.Close()

	if start >= 0 {
		if err := d.ctrl.SelectTrack(ctx, start); err != nil {
			return err
		}
		autoplay = false
	}

	return tui.Run(ctx, d.ctrl, d.art, tui.Options{
		Theme:       cfg.TUI.Theme,
		Throttle:    millis(cfg.TUI.ThrottleMS),
		SeekStep:    millis(cfg.Player.SeekStepMS),
		HideArtwork: cfg.TUI.HideArtwork,
		Autoplay:    autoplay,
		Logger:      d.log.Named("tui"),
	})
}
