package bookleaf

import (
	"github.com/ncruces/go-strftime"

	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
)

// NewCommand prompts for a file name and opens the file, creating it first
// when needed.
type NewCommand struct {
	env *Env
}

func (c *NewCommand) Name() string { return CommandNew }

func (c *NewCommand) Description() string { return "Create a new scratch file" }

func (c *NewCommand) Run(w plugin.Window) error {
	defaultName := strftime.Format(c.env.Settings.DateFormat, c.env.Now())
	w.ShowInputPanel("File name:", defaultName, func(name string) {
		c.create(w, name)
	}, nil)
	return nil
}

func (c *NewCommand) create(w plugin.Window, name string) {
	if name == "" {
		return
	}
	if !storage.HasExtension(name) {
		name += c.env.Settings.DefaultExtension
	}

	dir, err := c.env.Locator.Path()
	if err != nil {
		w.ErrorMessage("Failed to create file: " + err.Error())
		return
	}
	path, err := storage.Resolve(dir, name)
	if err != nil {
		w.ErrorMessage("Failed to create file: " + err.Error())
		return
	}

	created, err := storage.Create(path)
	if err != nil {
		c.env.Logger.Warn("create file failed", "path", path, "err", err)
		w.ErrorMessage("Failed to create file: " + err.Error())
		return
	}
	c.env.Logger.Debug("open file", "path", path, "created", created)
	w.OpenFile(path)
}
