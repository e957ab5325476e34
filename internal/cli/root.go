package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessro/tapedeck/internal/config"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

var (
	cfgFile      string
	playlistFile string
	jsonOut      bool
	verbose      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tapedeck [files...]",
	Short: "A single-screen audio player for the terminal",
	Long: `Tapedeck plays a fixed playlist of local audio files with cover art,
transport controls and a drag-to-seek progress bar.

Without a subcommand it opens the player screen. Audio files given as
arguments replace the configured playlist.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.tapedeckrc)")
	rootCmd.PersistentFlags().StringVar(&playlistFile, "playlist", "", "YAML playlist file replacing the configured tracks")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
		if errors.Is(err, deckerrors.ErrConfigNotFound) {
			// config init and playlist add create the file
			cfg, err = config.Default(), nil
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if playlistFile != "" {
		if err := cfg.LoadPlaylistFile(playlistFile); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", deckerrors.ErrInvalidConfig, err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, deckerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
