package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/bookleaf/internal/storage"
)

// Message types for tea.Cmd
type (
	// RefreshMsg reloads the recent files list.
	RefreshMsg struct{}

	// ErrorMsg represents an error condition.
	ErrorMsg struct {
		Err error
	}

	// RunCommandMsg runs a registered command by name.
	RunCommandMsg struct {
		Name string
	}

	// storageEventMsg reports a change in the storage folder.
	storageEventMsg storage.Event

	// watchClosedMsg is sent when the storage watcher stops.
	watchClosedMsg struct{}
)

// ReportError returns a command to report an error.
func ReportError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// RunCommand returns a command that runs the named command on the next update.
func RunCommand(name string) tea.Cmd {
	return func() tea.Msg {
		return RunCommandMsg{Name: name}
	}
}

// waitForStorageEvent blocks until the watcher reports a change.
func waitForStorageEvent(events <-chan storage.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return watchClosedMsg{}
		}
		return storageEventMsg(ev)
	}
}
