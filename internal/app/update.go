package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/bookleaf/internal/keymap"
	"github.com/marcus/bookleaf/internal/modal"
	"github.com/marcus/bookleaf/internal/msg"
	"github.com/marcus/bookleaf/internal/plugin"
)

// Update handles all messages and returns the updated model and commands.
func (m *Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch teaMsg := teaMsg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(teaMsg)

	case tea.WindowSizeMsg:
		m.width = teaMsg.Width
		m.height = teaMsg.Height
		m.ready = true
		return m, nil

	case tea.BlurMsg:
		// Panels not marked keep-open are dismissed when the terminal loses focus.
		if qp := m.quickPanel; qp != nil && !qp.panel.Options().KeepOpenOnFocusLost {
			m.quickPanel = nil
			qp.onSelect(plugin.Cancelled())
		}
		return m, m.flush()

	case RunCommandMsg:
		m.runCommand(teaMsg.Name)
		return m, m.flush()

	case msg.ToastMsg:
		m.toastFor(teaMsg.Message, teaMsg.IsError, teaMsg.Duration)
		return m, m.flush()

	case msg.ToastExpiredMsg:
		if teaMsg.Seq == m.toastSeq {
			m.statusMsg = ""
			m.statusIsError = false
		}
		return m, nil

	case RefreshMsg:
		m.refreshRecent()
		return m, m.flush()

	case ErrorMsg:
		m.logger.Error("error", "err", teaMsg.Err)
		m.toast("Error: "+teaMsg.Err.Error(), true)
		return m, m.flush()

	case storageEventMsg:
		m.logger.Debug("storage changed", "file", teaMsg.Name, "op", teaMsg.Op.String())
		m.refreshRecent()
		return m, m.flush(waitForStorageEvent(m.events))

	case watchClosedMsg:
		m.events = nil
		return m, nil

	case plugin.OpenFileMsg:
		return m, openInEditor(teaMsg)

	case plugin.OpenDirMsg:
		return m, revealDir(m.goos, teaMsg.Path)
	}

	// Cursor blink and other widget messages
	var cmd tea.Cmd
	switch {
	case m.inputPanel != nil:
		cmd = m.inputPanel.panel.Update(teaMsg)
	case m.quickPanel != nil:
		cmd = m.quickPanel.panel.Update(teaMsg)
	}
	return m, cmd
}

// handleKeyMsg routes keyboard input to the top overlay, or to the keymap
// when none is open.
func (m *Model) handleKeyMsg(key tea.KeyMsg) tea.Cmd {
	switch m.activeModal() {
	case ModalError:
		if action, _ := m.errorDialog.HandleKey(key); action == modal.ActionDismiss {
			m.errorDialog = nil
		}
		return nil

	case ModalInputPanel:
		ip := m.inputPanel
		action, cmd := ip.panel.HandleKey(key)
		switch action {
		case modal.ActionSubmit:
			m.inputPanel = nil
			ip.onDone(ip.panel.Value())
		case modal.ActionCancel:
			m.inputPanel = nil
			if ip.onCancel != nil {
				ip.onCancel()
			}
		}
		return m.flush(cmd)

	case ModalQuickPanel:
		qp := m.quickPanel
		action, cmd := qp.panel.HandleKey(key)
		switch action {
		case modal.ActionSelect:
			sel := qp.panel.Selection()
			m.quickPanel = nil
			qp.onSelect(sel)
		case modal.ActionCancel:
			m.quickPanel = nil
			qp.onSelect(plugin.Cancelled())
		}
		return m.flush(cmd)

	case ModalHelp:
		switch key.String() {
		case "esc", "?", "q":
			m.showHelp = false
		case "ctrl+c":
			return m.quit()
		}
		return nil
	}

	command, ok := m.keymap.Handle(key.String(), keymap.ContextHome)
	if !ok {
		return nil
	}
	return m.execute(command)
}

// execute runs a keymap command from the home screen.
func (m *Model) execute(command string) tea.Cmd {
	switch command {
	case keymap.CmdQuit:
		return m.quit()
	case keymap.CmdHelp:
		m.showHelp = !m.showHelp
		return nil
	case keymap.CmdToggleFooter:
		m.showFooter = !m.showFooter
		return nil
	case keymap.CmdRefresh:
		m.refreshRecent()
		return m.flush()
	case keymap.CmdCursorDown:
		if m.recentCursor < len(m.recent)-1 {
			m.recentCursor++
		}
		return nil
	case keymap.CmdCursorUp:
		if m.recentCursor > 0 {
			m.recentCursor--
		}
		return nil
	case keymap.CmdOpenRecent:
		if m.recentCursor < len(m.recent) {
			m.OpenFile(m.recent[m.recentCursor].Path)
		}
		return m.flush()
	case keymap.CmdYankPath:
		return m.yank(false)
	case keymap.CmdYankContent:
		return m.yank(true)
	}

	m.runCommand(command)
	return m.flush()
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}
