package bookleaf

import (
	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
)

// Match is a search candidate: a readable file with its content.
type Match struct {
	storage.Entry
	Content string
	Preview string // first line, at most 100 characters
}

// SearchCommand indexes the content of every readable file and offers them
// in a panel. The panel itself filters by file name; content is not queried.
type SearchCommand struct {
	env *Env
}

func (c *SearchCommand) Name() string { return CommandSearch }

func (c *SearchCommand) Description() string { return "Search file contents" }

func (c *SearchCommand) Run(w plugin.Window) error {
	entries, err := c.env.entries()
	if err != nil {
		return err
	}

	s := &searchSession{window: w, matches: collectMatches(c.env, entries)}
	if len(s.matches) == 0 {
		w.StatusMessage("BookLeaf: No files found")
		return nil
	}

	items := make([]plugin.QuickPanelItem, len(s.matches))
	for i, m := range s.matches {
		items[i] = plugin.QuickPanelItem{
			Trigger:    m.Name,
			Details:    m.Preview,
			Annotation: formatModTime(m.ModTime),
			Kind:       kindFile,
		}
	}

	w.ShowQuickPanel(items, s.onSelect,
		plugin.KeepOpenOnFocusLost(),
		plugin.WithPlaceholder("Search file contents..."),
	)
	return nil
}

// collectMatches reads each entry; files that cannot be read as text are
// left out.
func collectMatches(env *Env, entries []storage.Entry) []Match {
	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		content, err := storage.ReadContent(e.Path)
		if err != nil {
			env.Logger.Debug("skip unreadable file", "file", e.Name, "err", err)
			continue
		}
		matches = append(matches, Match{
			Entry:   e,
			Content: content,
			Preview: storage.FirstLine(content),
		})
	}
	return matches
}

// searchSession is the state of one search interaction.
type searchSession struct {
	window  plugin.Window
	matches []Match
}

func (s *searchSession) onSelect(sel plugin.Selection) {
	idx, ok := sel.Index()
	if !ok || idx >= len(s.matches) {
		return
	}
	s.window.OpenFile(s.matches[idx].Path)
}
