package config

// Config is the root configuration structure.
type Config struct {
	// BaseDir is the directory the storage folder is nested under
	// (storage lives in BaseDir/User/BookLeaf).
	BaseDir string `json:"base_dir"`
	// Editor opens files; empty falls back to $EDITOR, $VISUAL, then vim.
	Editor string `json:"editor"`

	ShowFilePreview  bool   `json:"show_file_preview"`
	PreviewMaxLines  int    `json:"preview_max_lines"`
	DateFormat       string `json:"date_format"`
	DefaultExtension string `json:"default_extension"`

	Keymap KeymapConfig `json:"keymap"`
	UI     UIConfig     `json:"ui"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter  bool `json:"show_footer"`
	RecentFiles int  `json:"recent_files"` // files listed on the home screen
}

const (
	DefaultBaseDir         = "~/.config/bookleaf"
	DefaultPreviewMaxLines = 3
	DefaultDateFormat      = "%Y-%m-%d_%H%M%S"
	DefaultExtension       = ".md"
	defaultRecentFiles     = 8
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseDir:          DefaultBaseDir,
		ShowFilePreview:  true,
		PreviewMaxLines:  DefaultPreviewMaxLines,
		DateFormat:       DefaultDateFormat,
		DefaultExtension: DefaultExtension,
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter:  true,
			RecentFiles: defaultRecentFiles,
		},
	}
}

// Validate checks the configuration for errors, restoring defaults for
// values that cannot be used.
func (c *Config) Validate() error {
	if c.PreviewMaxLines < 0 {
		c.PreviewMaxLines = DefaultPreviewMaxLines
	}
	if c.DateFormat == "" {
		c.DateFormat = DefaultDateFormat
	}
	if c.BaseDir == "" {
		c.BaseDir = ExpandPath(DefaultBaseDir)
	}
	if c.UI.RecentFiles < 0 {
		c.UI.RecentFiles = defaultRecentFiles
	}
	return nil
}
