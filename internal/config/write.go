package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// AppendTracks adds tracks to the config file at path, keeping every other
// setting in the file as it is. The file is created if it does not exist.
func AppendTracks(path string, tracks ...TrackConfig) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config: %w", err)
	}

	rawConfig := make(map[string]interface{})
	if len(data) > 0 {
		if _, err := toml.Decode(string(data), &rawConfig); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	var existing []map[string]interface{}
	switch v := rawConfig["tracks"].(type) {
	case []map[string]interface{}:
		existing = v
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				existing = append(existing, m)
			}
		}
	}

	for _, t := range tracks {
		entry := map[string]interface{}{
			"title": t.Title,
			"audio": t.Audio,
		}
		if t.ID != "" {
			entry["id"] = t.ID
		}
		if t.Image != "" {
			entry["image"] = t.Image
		}
		existing = append(existing, entry)
	}
	rawConfig["tracks"] = existing

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	_, _ = fmt.Fprintln(f, "# tapedeck configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	return encoder.Encode(rawConfig)
}
