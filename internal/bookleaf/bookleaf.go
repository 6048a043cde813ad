// Package bookleaf implements the BookLeaf commands: browsing, creating,
// searching and deleting scratch files in the storage folder. Commands only
// talk to the host through plugin.Window.
package bookleaf

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/marcus/bookleaf/internal/config"
	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
)

// Command names, as used by plugin.Window.RunCommand and the CLI.
const (
	CommandList       = "list"
	CommandNew        = "new"
	CommandSearch     = "search"
	CommandDelete     = "delete"
	CommandOpenFolder = "open-folder"
)

// modTimeFormat is the strftime layout for modification-time annotations.
const modTimeFormat = "%Y-%m-%d %H:%M"

var (
	kindNew     = plugin.Kind{Color: plugin.KindColorGreenish, Letter: "+"}
	kindFile    = plugin.Kind{Color: plugin.KindColorLight, Letter: "B"}
	kindDelete  = plugin.Kind{Color: plugin.KindColorRedish, Letter: "X"}
	kindConfirm = plugin.Kind{Color: plugin.KindColorRedish, Letter: "!"}
	kindCancel  = plugin.Kind{Color: plugin.KindColorLight, Letter: "-"}
)

// Settings are the user options the commands read.
type Settings struct {
	ShowFilePreview  bool
	PreviewMaxLines  int
	DateFormat       string
	DefaultExtension string
}

// DefaultSettings returns the settings used when no configuration is given.
func DefaultSettings() Settings {
	return Settings{
		ShowFilePreview:  true,
		PreviewMaxLines:  config.DefaultPreviewMaxLines,
		DateFormat:       config.DefaultDateFormat,
		DefaultExtension: config.DefaultExtension,
	}
}

// SettingsFromConfig extracts the command settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		ShowFilePreview:  cfg.ShowFilePreview,
		PreviewMaxLines:  cfg.PreviewMaxLines,
		DateFormat:       cfg.DateFormat,
		DefaultExtension: cfg.DefaultExtension,
	}
}

// Env is what every command needs: where the files live, the settings, a
// clock and a logger.
type Env struct {
	Locator  *storage.Locator
	Settings Settings
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewEnv creates an Env with the wall clock and a discarding logger.
func NewEnv(loc *storage.Locator, settings Settings) *Env {
	return &Env{
		Locator:  loc,
		Settings: settings,
		Now:      time.Now,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// entries resolves the storage folder and lists it.
func (e *Env) entries() ([]storage.Entry, error) {
	dir, err := e.Locator.Path()
	if err != nil {
		return nil, err
	}
	return storage.List(dir)
}

// Register adds all BookLeaf commands to reg.
func Register(reg *plugin.Registry, env *Env) error {
	commands := []plugin.Command{
		&ListCommand{env: env},
		&NewCommand{env: env},
		&SearchCommand{env: env},
		&DeleteCommand{env: env},
		&OpenFolderCommand{env: env},
	}
	for _, c := range commands {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register %s: %w", c.Name(), err)
		}
	}
	return nil
}

// formatModTime renders a modification time for panel annotations.
func formatModTime(t time.Time) string {
	return strftime.Format(modTimeFormat, t.Local())
}
