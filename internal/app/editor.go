package app

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/bookleaf/internal/plugin"
)

// defaultEditor is used when neither config nor environment name one.
const defaultEditor = "vim"

var errNoEditor = errors.New("no editor configured")

// resolveEditor picks the editor: config first, then $EDITOR, $VISUAL and
// finally vim.
func resolveEditor(configured string, getenv func(string) string) string {
	if e := strings.TrimSpace(configured); e != "" {
		return e
	}
	for _, name := range []string{"EDITOR", "VISUAL"} {
		if e := strings.TrimSpace(getenv(name)); e != "" {
			return e
		}
	}
	return defaultEditor
}

// editorCommand builds the process for an editor string such as "code -w".
func editorCommand(editor, path string) (*exec.Cmd, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, errNoEditor
	}
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...), nil
}

// openInEditor hands the terminal to the editor until it exits.
func openInEditor(msg plugin.OpenFileMsg) tea.Cmd {
	c, err := editorCommand(msg.Editor, msg.Path)
	if err != nil {
		return ReportError(err)
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("editor: %w", err)}
		}
		return RefreshMsg{}
	})
}

// revealCommand builds the process that shows dir in the system file browser.
func revealCommand(goos, dir string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", dir), nil
	case "windows":
		return exec.Command("explorer", dir), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", dir), nil
	default:
		return nil, fmt.Errorf("opening folders is not supported on %s", goos)
	}
}

// revealDir starts the file browser without waiting for it.
func revealDir(goos, dir string) tea.Cmd {
	return func() tea.Msg {
		c, err := revealCommand(goos, dir)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		if err := c.Start(); err != nil {
			return ErrorMsg{Err: fmt.Errorf("open folder: %w", err)}
		}
		go func() { _ = c.Wait() }()
		return nil
	}
}
