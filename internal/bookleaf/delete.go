package bookleaf

import (
	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
)

// DeleteCommand removes a file after an explicit confirmation.
type DeleteCommand struct {
	env *Env
}

func (c *DeleteCommand) Name() string { return CommandDelete }

func (c *DeleteCommand) Description() string { return "Delete a file" }

func (c *DeleteCommand) Run(w plugin.Window) error {
	entries, err := c.env.entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		w.StatusMessage("BookLeaf: No files to delete")
		return nil
	}

	s := &deleteSession{env: c.env, window: w, entries: entries}
	s.selectFile()
	return nil
}

// deleteState tracks where a delete interaction is.
type deleteState int

const (
	deleteSelecting deleteState = iota
	deleteConfirming
	deleteDone
)

// pendingDeletion links the chosen file to its confirmation step.
type pendingDeletion struct {
	Name string
	Path string
}

// deleteSession runs selecting -> confirming -> done, never revisiting a step.
type deleteSession struct {
	env     *Env
	window  plugin.Window
	entries []storage.Entry
	state   deleteState
	pending *pendingDeletion
}

func (s *deleteSession) selectFile() {
	items := make([]plugin.QuickPanelItem, len(s.entries))
	for i, e := range s.entries {
		items[i] = plugin.QuickPanelItem{
			Trigger:    e.Name,
			Details:    "Select to delete",
			Annotation: formatModTime(e.ModTime),
			Kind:       kindDelete,
		}
	}
	s.state = deleteSelecting
	s.window.ShowQuickPanel(items, s.onSelect,
		plugin.KeepOpenOnFocusLost(),
		plugin.WithPlaceholder("Select file to delete..."),
	)
}

func (s *deleteSession) onSelect(sel plugin.Selection) {
	if s.state != deleteSelecting {
		return
	}
	idx, ok := sel.Index()
	if !ok || idx >= len(s.entries) {
		s.state = deleteDone
		return
	}

	e := s.entries[idx]
	s.pending = &pendingDeletion{Name: e.Name, Path: e.Path}
	s.state = deleteConfirming
	s.window.ShowQuickPanel([]plugin.QuickPanelItem{
		{
			Trigger: "Yes, delete",
			Details: "Permanently delete " + e.Name,
			Kind:    kindConfirm,
		},
		{
			Trigger: "Cancel",
			Details: "Keep the file",
			Kind:    kindCancel,
		},
	}, s.onConfirm)
}

func (s *deleteSession) onConfirm(sel plugin.Selection) {
	if s.state != deleteConfirming {
		return
	}
	s.state = deleteDone
	pending := s.pending
	s.pending = nil

	if idx, ok := sel.Index(); !ok || idx != 0 {
		return
	}

	if err := storage.Remove(pending.Path); err != nil {
		s.env.Logger.Warn("delete failed", "path", pending.Path, "err", err)
		s.window.ErrorMessage("Failed to delete file: " + err.Error())
		return
	}
	s.env.Logger.Info("deleted file", "path", pending.Path)
	s.window.StatusMessage("BookLeaf: Deleted " + pending.Name)
}
