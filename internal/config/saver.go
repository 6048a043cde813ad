package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary for the managed keys.
type saveConfig struct {
	BaseDir          string       `json:"base_dir,omitempty"`
	Editor           string       `json:"editor,omitempty"`
	ShowFilePreview  bool         `json:"show_file_preview"`
	PreviewMaxLines  int          `json:"preview_max_lines"`
	DateFormat       string       `json:"date_format"`
	DefaultExtension string       `json:"default_extension"`
	Keymap           KeymapConfig `json:"keymap"`
	UI               UIConfig     `json:"ui"`
}

// Save writes the config to ~/.config/bookleaf/config.json.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes cfg to path. Keys in an existing file that the config does
// not manage are preserved.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	merged := make(map[string]json.RawMessage)
	if existing, err := os.ReadFile(path); err == nil {
		// Unparseable files are overwritten.
		_ = json.Unmarshal(existing, &merged)
	}

	managed, err := json.Marshal(saveConfig{
		BaseDir:          cfg.BaseDir,
		Editor:           cfg.Editor,
		ShowFilePreview:  cfg.ShowFilePreview,
		PreviewMaxLines:  cfg.PreviewMaxLines,
		DateFormat:       cfg.DateFormat,
		DefaultExtension: cfg.DefaultExtension,
		Keymap:           cfg.Keymap,
		UI:               cfg.UI,
	})
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
