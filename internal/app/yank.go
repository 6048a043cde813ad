package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/bookleaf/internal/msg"
	"github.com/marcus/bookleaf/internal/storage"
)

const yankToastDuration = 2 * time.Second

// selectedRecent returns the home screen entry under the cursor.
func (m *Model) selectedRecent() (storage.Entry, bool) {
	if m.recentCursor < 0 || m.recentCursor >= len(m.recent) {
		return storage.Entry{}, false
	}
	return m.recent[m.recentCursor], true
}

// yank copies the selected file's path, or its text when content is set,
// to the system clipboard.
func (m *Model) yank(content bool) tea.Cmd {
	e, ok := m.selectedRecent()
	if !ok {
		return msg.ShowToast("No file selected", yankToastDuration)
	}

	text, label := e.Path, "Copied path: "+e.Name
	if content {
		data, err := storage.ReadContent(e.Path)
		if err != nil {
			m.logger.Warn("yank content", "path", e.Path, "err", err)
			return msg.ShowErrorToast("Copy failed: "+err.Error(), yankToastDuration)
		}
		text, label = data, "Copied content of "+e.Name
	}

	if err := m.clipboardWrite(text); err != nil {
		m.logger.Warn("clipboard write", "err", err)
		return msg.ShowErrorToast("Copy failed: "+err.Error(), yankToastDuration)
	}
	return msg.ShowToast(label, yankToastDuration)
}
