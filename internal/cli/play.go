package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/tapedeck/internal/core"
)

var (
	playHeadless bool
	playPick     bool
	playStart    int
)

var playCmd = &cobra.Command{
	Use:   "play [files...]",
	Short: "Start playback",
	Long: `Start playing the playlist, or the given audio files.

With --headless no screen is opened: playback events are printed as
they happen and each track advances to the next when it ends. Stop
with Ctrl+C.

Examples:
  tapedeck play                      # Open the player on track 1, playing
  tapedeck play --start 3            # Start from the third track
  tapedeck play --pick --headless    # Choose a track, then print events
  tapedeck play --headless a.mp3 b.wav --json`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "play without the screen, printing events")
	playCmd.Flags().BoolVar(&playPick, "pick", false, "choose the first track interactively")
	playCmd.Flags().IntVar(&playStart, "start", 1, "track number to start from")
	addTailFlags(playCmd)
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		cfg.SetFiles(args)
	}
	playlist, err := cfg.Playlist()
	if err != nil {
		return err
	}
	if playStart < 1 || playStart > max(playlist.Len(), 1) {
		return fmt.Errorf("--start must be between 1 and %d", playlist.Len())
	}
	start := playStart - 1

	if playPick {
		start, err = pickTrack(playlist, start)
		if err != nil {
			return err
		}
	}

	if !playHeadless {
		return startTUI(cmd.Context(), nil, start, false)
	}
	return runHeadless(cmd, start)
}

func pickTrack(playlist *core.Playlist, current int) (int, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return 0, fmt.Errorf("--pick needs an interactive terminal")
	}

	var options []huh.Option[int]
	for i, t := range playlist.Tracks() {
		options = append(options, huh.NewOption(fmt.Sprintf("%2d. %s", i+1, t.DisplayTitle()), i))
	}

	selected := current
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Start with").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return selected, nil
}

func runHeadless(cmd *cobra.Command, start int) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := deckOptions{autoAdvance: true}
	if Verbose() {
		opts.console = os.Stderr
	}

	d, err := openDeck(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.ctrl.SelectTrack(ctx, start); err != nil {
		return err
	}

	return followEvents(ctx, d.ctrl, d.ctrl.Done(), cmd.OutOrStdout())
}
