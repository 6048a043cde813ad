package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/bookleaf/internal/styles"
)

var (
	submitKey  = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm"))
	cancelKey  = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
	dismissKey = key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "dismiss"))
)

// InputPanel prompts for a single line of text.
type InputPanel struct {
	caption string
	input   textinput.Model
}

// NewInputPanel creates a focused input prefilled with initial, cursor at
// the end.
func NewInputPanel(caption, initial string) *InputPanel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	return &InputPanel{caption: caption, input: ti}
}

// Init returns the cursor blink command.
func (p *InputPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Caption returns the prompt text.
func (p *InputPanel) Caption() string { return p.caption }

// Value returns the entered text.
func (p *InputPanel) Value() string { return p.input.Value() }

// HandleKey processes keyboard input. It returns ActionSubmit on Enter and
// ActionCancel on Esc.
func (p *InputPanel) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	switch {
	case key.Matches(msg, submitKey):
		return ActionSubmit, nil
	case key.Matches(msg, cancelKey):
		return ActionCancel, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return "", cmd
}

// Update forwards non-key messages (cursor blink) to the input.
func (p *InputPanel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the panel for a screen of the given size.
func (p *InputPanel) View(screenW, screenH int) string {
	f := frame{
		title: p.caption,
		width: DefaultWidth,
		hint:  "Enter to confirm · Esc to cancel",
	}
	_, contentWidth := f.size(screenW)
	p.input.Width = max(1, contentWidth-1)

	field := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(styles.BorderActive).
		Width(contentWidth).
		Render(p.input.View())
	return f.render(field, screenW)
}

// ErrorDialog is a blocking error notice.
type ErrorDialog struct {
	message string
}

// NewErrorDialog creates a dialog showing message.
func NewErrorDialog(message string) *ErrorDialog {
	return &ErrorDialog{message: message}
}

// Message returns the error text.
func (d *ErrorDialog) Message() string { return d.message }

// HandleKey returns ActionDismiss on Enter, Esc or Space.
func (d *ErrorDialog) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	if key.Matches(msg, dismissKey) {
		return ActionDismiss, nil
	}
	return "", nil
}

// View renders the dialog for a screen of the given size.
func (d *ErrorDialog) View(screenW, screenH int) string {
	f := frame{
		title:   "BookLeaf",
		variant: VariantDanger,
		width:   56,
	}
	_, contentWidth := f.size(screenW)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(contentWidth).Render(d.message))
	b.WriteString("\n\n")
	b.WriteString(styles.ButtonDangerFocused.Render("OK"))
	return f.render(b.String(), screenW)
}
