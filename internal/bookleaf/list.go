package bookleaf

import (
	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
)

// ListCommand shows every file plus a "+ New File" entry.
type ListCommand struct {
	env *Env
}

func (c *ListCommand) Name() string { return CommandList }

func (c *ListCommand) Description() string { return "Browse files or create a new one" }

// Run builds the panel from a fresh listing. The listing is held by the
// session for this invocation only, so indices never refer to an older list.
func (c *ListCommand) Run(w plugin.Window) error {
	entries, err := c.env.entries()
	if err != nil {
		return err
	}

	s := &listSession{window: w, entries: entries}
	items := make([]plugin.QuickPanelItem, 0, len(entries)+1)
	items = append(items, plugin.QuickPanelItem{
		Trigger: "+ New File",
		Details: "Create a new scratch file",
		Kind:    kindNew,
	})

	settings := c.env.Settings
	for _, e := range entries {
		item := plugin.QuickPanelItem{
			Trigger:    e.Name,
			Annotation: formatModTime(e.ModTime),
			Kind:       kindFile,
		}
		if settings.ShowFilePreview {
			p := storage.ReadPreview(e.Path, settings.PreviewMaxLines)
			if p.Status == storage.PreviewUnreadable {
				c.env.Logger.Debug("preview unreadable", "file", e.Name, "err", p.Err)
				item.DetailsUnavailable = true
			}
			item.Details = p.String()
		}
		items = append(items, item)
	}

	w.ShowQuickPanel(items, s.onSelect,
		plugin.KeepOpenOnFocusLost(),
		plugin.WithPlaceholder("Search files or create new..."),
	)
	return nil
}

// listSession is the state of one list interaction.
type listSession struct {
	window  plugin.Window
	entries []storage.Entry
}

func (s *listSession) onSelect(sel plugin.Selection) {
	idx, ok := sel.Index()
	if !ok {
		return
	}
	if idx == 0 {
		s.window.RunCommand(CommandNew)
		return
	}
	if idx-1 < len(s.entries) {
		s.window.OpenFile(s.entries[idx-1].Path)
	}
}
