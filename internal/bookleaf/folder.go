package bookleaf

import "github.com/marcus/bookleaf/internal/plugin"

// OpenFolderCommand reveals the storage folder in the system file browser.
type OpenFolderCommand struct {
	env *Env
}

func (c *OpenFolderCommand) Name() string { return CommandOpenFolder }

func (c *OpenFolderCommand) Description() string { return "Open the storage folder" }

func (c *OpenFolderCommand) Run(w plugin.Window) error {
	dir, err := c.env.Locator.Path()
	if err != nil {
		return err
	}
	w.OpenDir(dir)
	return nil
}
