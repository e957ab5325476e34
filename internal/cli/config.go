package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/tapedeck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing tapedeck configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  player.load_retries       Retries after a failed load
  player.retry_wait_ms      Wait before the first retry
  player.seek_step_ms       Step for the seek keys
  player.autoplay           Start playing on launch (true/false)
  audio.sample_rate         Output sample rate
  audio.buffer_ms           Output buffer length
  audio.status_interval_ms  How often position is reported
  audio.volume              Volume offset, 0 is unity gain
  tui.theme                 auto, dark or light
  tui.throttle_ms           Seek preview throttle while dragging
  tui.hide_artwork          Hide cover art (true/false)
  log.level                 debug, info, warn or error
  log.file                  Log file path

Examples:
  tapedeck config set tui.theme light
  tapedeck config set player.seek_step_ms 10000`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetThemeCmd = &cobra.Command{
	Use:   "set-theme",
	Short: "Interactively select the color theme",
	RunE:  runConfigSetTheme,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetThemeCmd)
	rootCmd.AddCommand(configCmd)
}

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindFloat
)

var settableKeys = map[string]valueKind{
	"player.load_retries":      kindInt,
	"player.retry_wait_ms":     kindInt,
	"player.seek_step_ms":      kindInt,
	"player.autoplay":          kindBool,
	"audio.sample_rate":        kindInt,
	"audio.buffer_ms":          kindInt,
	"audio.status_interval_ms": kindInt,
	"audio.volume":             kindFloat,
	"tui.theme":                kindString,
	"tui.throttle_ms":          kindInt,
	"tui.hide_artwork":         kindBool,
	"log.level":                kindString,
	"log.file":                 kindString,
	"log.max_size_mb":          kindInt,
	"log.max_backups":          kindInt,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if JSONOutput() {
		return writeJSON(out, cfg)
	}

	encoder := toml.NewEncoder(out)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"path":   path,
			"exists": exists,
		})
	}
	if exists {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (not created)\n", path)
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'tapedeck config init' first", configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeConfigFile(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file: %s\n", configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Add tracks with 'tapedeck playlist add' or 'tapedeck playlist import'")
	fmt.Fprintln(out, "  2. Run 'tapedeck playlist check' to confirm every file is found")
	fmt.Fprintln(out, "  3. Run 'tapedeck' to start playing")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := cfg.Path(); p != "" {
		return p
	}
	return config.DefaultPath()
}

// parseValue converts a raw command-line value to the type stored under key.
func parseValue(key, value string) (interface{}, error) {
	kind, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q. Run 'tapedeck config set --help' for supported keys", key)
	}

	switch kind {
	case kindInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return i, nil
	case kindBool:
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("value must be true or false for %s", key)
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be a number for %s", key)
		}
		return f, nil
	}
	return value, nil
}

// setConfigValue writes one key into the config file at path. The file is
// restored if the result does not validate.
func setConfigValue(path, key, value string) error {
	typedValue, err := parseValue(key, value)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("config file not found at %s. Run 'tapedeck config init' first", path)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	rawConfig := make(map[string]interface{})
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		rawConfig[section] = sectionMap
	}
	sectionMap[field] = typedValue

	if err := writeConfigFile(path, rawConfig); err != nil {
		return err
	}

	updated, err := config.LoadFrom(path)
	if err == nil {
		err = updated.Validate()
	}
	if err != nil {
		_ = os.WriteFile(path, data, 0644)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func writeConfigFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Tapedeck Configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := setConfigValue(getConfigPath(), key, value); err != nil {
		return err
	}

	if JSONOutput() {
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

func runConfigSetTheme(cmd *cobra.Command, args []string) error {
	selected := cfg.TUI.Theme
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select theme").
				Description("auto follows the terminal background").
				Options(
					huh.NewOption("Auto", "auto"),
					huh.NewOption("Dark (Mocha)", "dark"),
					huh.NewOption("Light (Latte)", "light"),
				).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}

	return runConfigSet(cmd, []string{"tui.theme", selected})
}
