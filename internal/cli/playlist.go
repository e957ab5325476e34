package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/tapedeck/internal/assets"
	"github.com/tessro/tapedeck/internal/config"
)

var playlistCmd = &cobra.Command{
	Use:     "playlist",
	Aliases: []string{"pl"},
	Short:   "Manage the playlist",
	Long:    `View, check and extend the configured playlist.`,
	RunE:    runPlaylistList,
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tracks",
	RunE:  runPlaylistList,
}

var playlistCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that every track's files exist",
	Long: `Look up the audio and image file of every track and report
missing ones. Exits with an error if anything is missing.`,
	RunE: runPlaylistCheck,
}

var (
	addTitle string
	addAudio string
	addImage string
)

var playlistAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a track to the config file",
	Long: `Add a track to the config file. Without --audio a form asks for
the title, audio file and image.

Examples:
  tapedeck playlist add
  tapedeck playlist add --title "Song 3" --audio assets/three.mp3`,
	RunE: runPlaylistAdd,
}

var playlistImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Append the tracks of a YAML playlist to the config file",
	Long: `Append the tracks of a YAML playlist to the config file.

The file lists tracks under a top-level "tracks" key:

  tracks:
    - title: Song 1
      audio: assets/song.mp3
      image: assets/sham.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaylistImport,
}

func init() {
	playlistAddCmd.Flags().StringVar(&addTitle, "title", "", "track title")
	playlistAddCmd.Flags().StringVar(&addAudio, "audio", "", "audio file")
	playlistAddCmd.Flags().StringVar(&addImage, "image", "", "cover image")

	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistCheckCmd)
	playlistCmd.AddCommand(playlistAddCmd)
	playlistCmd.AddCommand(playlistImportCmd)
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	playlist, err := cfg.Playlist()
	if err != nil {
		return err
	}

	if JSONOutput() {
		output := make([]map[string]interface{}, 0, playlist.Len())
		for i, t := range playlist.Tracks() {
			output = append(output, map[string]interface{}{
				"position": i + 1,
				"id":       t.ID,
				"title":    t.DisplayTitle(),
				"audio":    t.Audio,
				"image":    t.Image,
			})
		}
		return writeJSON(out, map[string]interface{}{"tracks": output})
	}

	if playlist.IsEmpty() {
		fmt.Fprintln(out, "Playlist is empty")
		return nil
	}

	table := NewTableWriter(out, "#", "TITLE", "AUDIO", "IMAGE")
	for i, t := range playlist.Tracks() {
		table.Row(strconv.Itoa(i+1), TruncateString(t.DisplayTitle(), 40), t.Audio, t.Image)
	}
	table.Flush()
	return nil
}

func runPlaylistCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	playlist, err := cfg.Playlist()
	if err != nil {
		return err
	}

	result := assets.Check(assets.NewDir(cfg.BaseDir()), playlist)

	if JSONOutput() {
		output := make([]map[string]interface{}, 0, len(result.Data))
		for _, r := range result.Data {
			entry := map[string]interface{}{
				"track":   r.Track + 1,
				"kind":    string(r.Kind),
				"locator": r.Info.Locator,
				"ok":      r.OK(),
			}
			if r.OK() {
				entry["path"] = r.Info.Path
				entry["size"] = r.Info.Size
			} else {
				entry["error"] = r.Err.Error()
			}
			output = append(output, entry)
		}
		if err := writeJSON(out, map[string]interface{}{"assets": output}); err != nil {
			return err
		}
	} else {
		table := NewTableWriter(out, "", "#", "KIND", "FILE", "SIZE", "MODIFIED")
		for _, r := range result.Data {
			size, modified := "-", "-"
			if r.OK() {
				size = humanize.Bytes(uint64(r.Info.Size))
				modified = humanize.Time(r.Info.ModTime)
			}
			table.Row(StatusIcon(r.OK()), strconv.Itoa(r.Track+1), string(r.Kind), r.Info.Locator, size, modified)
		}
		table.Flush()
	}

	if result.HasErrors() {
		return fmt.Errorf("%d missing: %s", len(result.Errors), result.ErrorSummary())
	}
	return nil
}

// targetConfigPath is the config file new tracks are written to.
func targetConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := cfg.Path(); p != "" {
		return p
	}
	return config.DefaultPath()
}

func runPlaylistAdd(cmd *cobra.Command, args []string) error {
	track := config.TrackConfig{Title: addTitle, Audio: addAudio, Image: addImage}

	if track.Audio == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--audio is required without an interactive terminal")
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Title").
					Value(&track.Title),
				huh.NewInput().
					Title("Audio file").
					Description(".mp3 or .wav, relative to the config file").
					Value(&track.Audio).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("audio file is required")
						}
						return nil
					}),
				huh.NewInput().
					Title("Cover image").
					Description("optional .png or .jpg").
					Value(&track.Image),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}
	}

	path := targetConfigPath()
	if err := config.AppendTracks(path, track); err != nil {
		return err
	}

	if JSONOutput() {
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"status": "added",
			"title":  track.Title,
			"audio":  track.Audio,
			"path":   path,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s\n", track.Title, path)
	return nil
}

func runPlaylistImport(cmd *cobra.Command, args []string) error {
	var imported config.Config
	if err := imported.LoadPlaylistFile(args[0]); err != nil {
		return err
	}
	if len(imported.Tracks) == 0 {
		return fmt.Errorf("no tracks in %s", args[0])
	}

	path := targetConfigPath()
	if err := config.AppendTracks(path, imported.Tracks...); err != nil {
		return err
	}

	if JSONOutput() {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"status": "imported",
			"tracks": len(imported.Tracks),
			"path":   path,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tracks into %s\n", len(imported.Tracks), path)
	return nil
}
