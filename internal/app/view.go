package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ncruces/go-strftime"

	"github.com/marcus/bookleaf/internal/keymap"
	"github.com/marcus/bookleaf/internal/styles"
	"github.com/marcus/bookleaf/internal/ui"
)

const (
	headerHeight = 2 // header line + spacing
	footerHeight = 1
	minWidth     = 40
	minHeight    = 12

	recentTimeFormat = "%Y-%m-%d %H:%M"
)

// View renders the entire application UI.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.ToastError.Render(msg))
	}

	// Calculate content area
	contentHeight := m.height - headerHeight
	if m.showFooter {
		contentHeight -= footerHeight
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent(m.width, contentHeight))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	// Overlays (priority order via activeModal)
	bg := b.String()
	switch m.activeModal() {
	case ModalError:
		return ui.OverlayPanel(bg, m.errorDialog.View(m.width, m.height), m.width, m.height, ui.AnchorCenter)
	case ModalInputPanel:
		return ui.OverlayPanel(bg, m.inputPanel.panel.View(m.width, m.height), m.width, m.height, ui.AnchorTop)
	case ModalQuickPanel:
		return ui.OverlayPanel(bg, m.quickPanel.panel.View(m.width, m.height), m.width, m.height, ui.AnchorTop)
	case ModalHelp:
		return ui.OverlayPanel(bg, styles.ModalBox.Render(m.buildHelpContent()), m.width, m.height, ui.AnchorCenter)
	}
	return bg
}

// renderHeader renders the title bar with the storage folder on the right.
func (m *Model) renderHeader() string {
	title := styles.Logo.Render(" BookLeaf")
	if m.version != "" {
		title += styles.Muted.Render(" " + m.version)
	}
	title += " "

	dir := styles.Muted.Render(m.storageDir + " ")
	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(dir)
	if spacing < 1 {
		dir = ""
		spacing = max(0, m.width-lipgloss.Width(title))
	}

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(title + strings.Repeat(" ", spacing) + dir)
}

// renderContent renders the home screen: the most recent files and a
// preview of the selected one.
func (m *Model) renderContent(width, height int) string {
	if height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(" Recent files"))
	b.WriteString("\n\n")

	if len(m.recent) == 0 {
		hint := "No files yet."
		if keys := m.keymap.KeysFor(keymap.CmdNew, keymap.ContextHome); len(keys) > 0 {
			hint += " Press " + keys[0] + " to create one."
		}
		b.WriteString(styles.Muted.Render(" " + hint))
	}

	for i, e := range m.recent {
		if i > 0 {
			b.WriteString("\n")
		}
		selected := i == m.recentCursor && !m.hasModal()
		cursor := "  "
		style := styles.ListItemNormal
		if selected {
			cursor = styles.ListCursor.Render("> ")
			style = styles.ListItemSelected
		}
		when := strftime.Format(recentTimeFormat, e.ModTime.Local())
		name := e.Name
		gap := width - 2 - lipgloss.Width(name) - len(when) - 2
		if gap < 1 {
			gap = 1
		}
		b.WriteString(" " + cursor + style.Render(name) + strings.Repeat(" ", gap) + styles.Muted.Render(when))
	}

	// Title, blank line and list rows, then a blank line before the preview.
	used := 2 + max(1, len(m.recent)) + 1
	if pane := m.renderPreviewPane(width, height-used); pane != "" {
		b.WriteString("\n\n")
		b.WriteString(pane)
	}

	// MaxHeight truncates content taller than the allocated space.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(b.String())
}

// renderFooter renders the bottom bar with key hints and status.
func (m *Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		toastStyle := styles.ToastSuccess
		if m.statusIsError {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(m.statusMsg)
	}

	// Calculate available width for hints (leave room for status and spacing)
	statusWidth := lipgloss.Width(status)
	minSpacing := 2
	availableForHints := m.width - statusWidth - minSpacing

	hintsStr := renderHintLineTruncated(m.footerHints(), availableForHints)

	spacing := m.width - lipgloss.Width(hintsStr) - statusWidth
	if spacing < 0 {
		spacing = 0
	}
	footer := hintsStr + strings.Repeat(" ", spacing) + status

	// Use MaxWidth to prevent wrapping and ensure single line
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type footerHint struct {
	keys  string
	label string
}

// footerHints lists the home commands first, then the essential global ones.
func (m *Model) footerHints() []footerHint {
	specs := []struct {
		id      string
		label   string
		context string
	}{
		{keymap.CmdList, "list", keymap.ContextHome},
		{keymap.CmdNew, "new", keymap.ContextHome},
		{keymap.CmdSearch, "search", keymap.ContextHome},
		{keymap.CmdDelete, "delete", keymap.ContextHome},
		{keymap.CmdOpenFolder, "folder", keymap.ContextHome},
		{keymap.CmdYankPath, "yank", keymap.ContextHome},
		{keymap.CmdHelp, "help", keymap.ContextGlobal},
		{keymap.CmdQuit, "quit", keymap.ContextGlobal},
	}

	var hints []footerHint
	for _, spec := range specs {
		keys := m.keymap.KeysFor(spec.id, spec.context)
		if len(keys) == 0 {
			continue
		}
		hints = append(hints, footerHint{keys: keys[0], label: spec.label})
	}
	return hints
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for i, hint := range hints {
		if hint.keys == "" || hint.label == "" {
			continue
		}
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if i > 0 {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break // Stop adding hints if we exceed available width
		}
		result = candidate
	}
	return result
}

// buildHelpContent creates the help modal content.
func (m *Model) buildHelpContent() string {
	var b strings.Builder

	b.WriteString(styles.ModalTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(styles.Title.Render("Files"))
	b.WriteString("\n")
	m.renderBindingSection(&b, keymap.ContextHome)
	b.WriteString("\n")

	b.WriteString(styles.Title.Render("Global"))
	b.WriteString("\n")
	m.renderBindingSection(&b, keymap.ContextGlobal)
	b.WriteString("\n")

	b.WriteString(styles.Title.Render("Panels"))
	b.WriteString("\n")
	for _, row := range [][2]string{
		{"↑/↓", "move"},
		{"enter", "select"},
		{"esc", "cancel"},
		{"type", "filter"},
	} {
		b.WriteString(fmt.Sprintf("  %s %s\n", styles.Muted.Render(fmt.Sprintf("%-11s", row[0])), row[1]))
	}
	b.WriteString("\n")

	b.WriteString(styles.Subtle.Render("Press ? or esc to close"))
	return b.String()
}

// renderBindingSection renders bindings for a context.
func (m *Model) renderBindingSection(b *strings.Builder, context string) {
	bindings := m.keymap.BindingsFor(context)

	// Group keys by command
	seen := make(map[string]bool)
	for _, binding := range bindings {
		if seen[binding.Command] {
			continue
		}
		seen[binding.Command] = true

		var keys []string
		for _, b2 := range bindings {
			if b2.Command == binding.Command {
				keys = append(keys, b2.Key)
			}
		}

		// Pad key to align commands
		padded := fmt.Sprintf("%-11s", formatBindingKeys(keys))
		b.WriteString(fmt.Sprintf("  %s %s\n", styles.Muted.Render(padded), formatCommandName(binding.Command)))
	}
}

// formatBindingKeys formats multiple keys into a display string.
func formatBindingKeys(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	// Show up to 2 keys
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, ", ")
}

// formatCommandName converts a command ID to a display name.
func formatCommandName(cmd string) string {
	return strings.ReplaceAll(cmd, "-", " ")
}
