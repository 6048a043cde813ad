package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	configDir  = ".config/bookleaf"
	configFile = "config.json"

	envPrefix = "bookleaf"
)

// testConfigPath overrides ConfigPath in tests.
var testConfigPath string

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	BaseDir          string       `json:"base_dir"`
	Editor           string       `json:"editor"`
	ShowFilePreview  *bool        `json:"show_file_preview"`
	PreviewMaxLines  *int         `json:"preview_max_lines"`
	DateFormat       string       `json:"date_format"`
	DefaultExtension *string      `json:"default_extension"`
	Keymap           KeymapConfig `json:"keymap"`
	UI               rawUIConfig  `json:"ui"`
}

type rawUIConfig struct {
	ShowFooter  *bool `json:"show_footer"`
	RecentFiles *int  `json:"recent_files"`
}

// envOverrides are read from BOOKLEAF_* environment variables and win over
// the config file. split_words instead of explicit names keeps envconfig from
// falling back to unprefixed variables such as $EDITOR.
type envOverrides struct {
	BaseDir          string `split_words:"true"`
	Editor           string
	DateFormat       string `split_words:"true"`
	DefaultExtension string `split_words:"true"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/bookleaf/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var raw rawConfig
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			mergeConfig(cfg, &raw)
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.BaseDir = ExpandPath(cfg.BaseDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	if raw.BaseDir != "" {
		cfg.BaseDir = raw.BaseDir
	}
	if raw.Editor != "" {
		cfg.Editor = raw.Editor
	}
	if raw.ShowFilePreview != nil {
		cfg.ShowFilePreview = *raw.ShowFilePreview
	}
	if raw.PreviewMaxLines != nil {
		cfg.PreviewMaxLines = *raw.PreviewMaxLines
	}
	if raw.DateFormat != "" {
		cfg.DateFormat = raw.DateFormat
	}
	// An explicit empty extension is allowed and disables the suffix.
	if raw.DefaultExtension != nil {
		cfg.DefaultExtension = *raw.DefaultExtension
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.RecentFiles != nil {
		cfg.UI.RecentFiles = *raw.UI.RecentFiles
	}
}

// applyEnv applies BOOKLEAF_* environment overrides.
func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if env.BaseDir != "" {
		cfg.BaseDir = env.BaseDir
	}
	if env.Editor != "" {
		cfg.Editor = env.Editor
	}
	if env.DateFormat != "" {
		cfg.DateFormat = env.DateFormat
	}
	if env.DefaultExtension != "" {
		cfg.DefaultExtension = env.DefaultExtension
	}
	return nil
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// SetTestConfigPath points ConfigPath at path. Test use only.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath restores the default ConfigPath.
func ResetTestConfigPath() { testConfigPath = "" }
