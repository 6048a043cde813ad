package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/styles"
)

const (
	maxVisibleItems = 10
	badgeWidth      = 3 // " X "
	cursorWidth     = 2 // "> "
	minTriggerWidth = 8
)

// quickPanelKeyMap holds the navigation keys of a quick panel. Every other
// key edits the filter.
type quickPanelKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Select   key.Binding
	Cancel   key.Binding
}

func defaultQuickPanelKeys() quickPanelKeyMap {
	return quickPanelKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// QuickPanel is a filterable list of items. Selections always refer to the
// index of an item in the list it was created with, whatever the filter.
type QuickPanel struct {
	items []plugin.QuickPanelItem
	opts  plugin.PanelOptions
	input textinput.Model
	keys  quickPanelKeyMap

	filtered   []filterMatch
	cursor     int // into filtered
	offset     int // first visible row
	maxVisible int // rows that fit, from the last render
	hasDetails bool
}

// NewQuickPanel creates a focused quick panel over items.
func NewQuickPanel(items []plugin.QuickPanelItem, opts plugin.PanelOptions) *QuickPanel {
	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.Prompt = "> "
	ti.PromptStyle = styles.ListCursor
	ti.Focus()

	p := &QuickPanel{
		items:      items,
		opts:       opts,
		input:      ti,
		keys:       defaultQuickPanelKeys(),
		maxVisible: maxVisibleItems,
	}
	for _, it := range items {
		if it.Details != "" {
			p.hasDetails = true
			break
		}
	}
	p.refilter()
	return p
}

// Init returns the cursor blink command.
func (p *QuickPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Options returns the options the panel was opened with.
func (p *QuickPanel) Options() plugin.PanelOptions { return p.opts }

// Query returns the current filter text.
func (p *QuickPanel) Query() string { return p.input.Value() }

// VisibleCount returns how many items pass the filter.
func (p *QuickPanel) VisibleCount() int { return len(p.filtered) }

// Selection returns the item under the cursor as an index into the original
// items, or a cancelled Selection when nothing matches.
func (p *QuickPanel) Selection() plugin.Selection {
	if p.cursor < 0 || p.cursor >= len(p.filtered) {
		return plugin.Cancelled()
	}
	return plugin.Selected(p.filtered[p.cursor].index)
}

// HandleKey processes keyboard input. It returns ActionSelect when an item is
// chosen and ActionCancel when the panel is dismissed.
func (p *QuickPanel) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Cancel):
		return ActionCancel, nil
	case key.Matches(msg, p.keys.Select):
		if len(p.filtered) == 0 {
			return "", nil
		}
		return ActionSelect, nil
	case key.Matches(msg, p.keys.Up):
		p.moveCursor(-1)
		return "", nil
	case key.Matches(msg, p.keys.Down):
		p.moveCursor(1)
		return "", nil
	case key.Matches(msg, p.keys.PageUp):
		p.moveCursor(-p.maxVisible)
		return "", nil
	case key.Matches(msg, p.keys.PageDown):
		p.moveCursor(p.maxVisible)
		return "", nil
	}

	prev := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != prev {
		p.refilter()
	}
	return "", cmd
}

// Update forwards non-key messages (cursor blink) to the filter input.
func (p *QuickPanel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *QuickPanel) refilter() {
	p.filtered = filterItems(p.items, p.input.Value())
	p.cursor = 0
	p.offset = 0
}

func (p *QuickPanel) moveCursor(delta int) {
	if len(p.filtered) == 0 {
		return
	}
	p.cursor = clamp(p.cursor+delta, 0, len(p.filtered)-1)
	p.ensureCursorVisible()
}

func (p *QuickPanel) ensureCursorVisible() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.maxVisible {
		p.offset = p.cursor - p.maxVisible + 1
	}
	maxOffset := max(0, len(p.filtered)-p.maxVisible)
	p.offset = clamp(p.offset, 0, maxOffset)
}

func (p *QuickPanel) rowHeight() int {
	if p.hasDetails {
		return 2
	}
	return 1
}

// View renders the panel for a screen of the given size.
func (p *QuickPanel) View(screenW, screenH int) string {
	f := frame{
		width:   DefaultWidth,
		variant: VariantDefault,
		hint:    "↑/↓ navigate · Enter select · Esc cancel",
	}
	_, contentWidth := f.size(screenW)

	// filter line + blank + hint (blank + line)
	budget := desiredModalInnerHeight(screenH) - 4
	p.maxVisible = clamp(budget/p.rowHeight(), 1, maxVisibleItems)
	p.ensureCursorVisible()

	p.input.Width = max(1, contentWidth-runewidth.StringWidth(p.input.Prompt)-1)

	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	if len(p.filtered) == 0 {
		b.WriteString(styles.Muted.Render("No matches"))
		return f.render(b.String(), screenW)
	}

	needsScrollbar := len(p.filtered) > p.maxVisible
	rowWidth := contentWidth
	if needsScrollbar {
		rowWidth--
	}

	end := min(p.offset+p.maxVisible, len(p.filtered))
	rows := make([]string, 0, (end-p.offset)*p.rowHeight())
	for i := p.offset; i < end; i++ {
		m := p.filtered[i]
		rows = append(rows, p.renderRow(p.items[m.index], m.ranges, i == p.cursor, rowWidth)...)
	}
	list := strings.Join(rows, "\n")

	if needsScrollbar {
		scrollbar := renderScrollbar(len(p.filtered)*p.rowHeight(), p.offset*p.rowHeight(), len(rows))
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, scrollbar)
	}
	b.WriteString(list)
	return f.render(b.String(), screenW)
}

// renderRow renders an item as a title line (cursor, kind badge, trigger,
// right-aligned annotation) and, when any item has details, a details line.
func (p *QuickPanel) renderRow(it plugin.QuickPanelItem, ranges []MatchRange, selected bool, width int) []string {
	cursor := "  "
	if selected {
		cursor = styles.ListCursor.Render("> ")
	}
	badge := styles.KindBadge(it.Kind.Letter, kindColor(it.Kind.Color))
	indent := cursorWidth + badgeWidth + 1

	annotation := it.Annotation
	annWidth := runewidth.StringWidth(annotation)
	triggerWidth := width - indent - annWidth - 1
	if annotation != "" && triggerWidth < minTriggerWidth {
		annotation, annWidth = "", 0
		triggerWidth = width - indent
	}

	trigger, truncated := truncate(it.Trigger, triggerWidth)
	title := highlightMatches(trigger, ranges, selected)
	if truncated {
		title += styles.Muted.Render("…")
	}
	used := indent + runewidth.StringWidth(trigger)
	if truncated {
		used++
	}
	line := cursor + badge + " " + title
	if annotation != "" {
		gap := max(1, width-used-annWidth)
		line += strings.Repeat(" ", gap) + styles.Muted.Render(annotation)
	}

	lines := []string{line}
	if p.hasDetails {
		details, cut := truncate(it.Details, width-indent)
		if cut {
			details += "…"
		}
		detailStyle := styles.Subtle
		if it.DetailsUnavailable {
			detailStyle = styles.Unreadable
		}
		lines = append(lines, strings.Repeat(" ", indent)+detailStyle.Render(details))
	}
	return lines
}

// truncate cuts s to fit width display cells, leaving room for an ellipsis
// when it does not fit.
func truncate(s string, width int) (string, bool) {
	if width <= 0 {
		return "", s != ""
	}
	if runewidth.StringWidth(s) <= width {
		return s, false
	}
	return runewidth.Truncate(s, width-1, ""), true
}

func kindColor(c plugin.KindColor) lipgloss.Color {
	switch c {
	case plugin.KindColorGreenish:
		return styles.KindGreenish
	case plugin.KindColorRedish:
		return styles.KindRedish
	default:
		return styles.KindLight
	}
}
