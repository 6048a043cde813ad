package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/bookleaf/internal/styles"
)

// Variant is the colour scheme of a panel frame.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
)

// Panel sizing.
const (
	DefaultWidth  = 72
	MinModalWidth = 30
	ModalPadding  = 6 // border(2) + padding(4)
)

// Actions returned by HandleKey.
const (
	ActionSelect  = "select"
	ActionSubmit  = "submit"
	ActionCancel  = "cancel"
	ActionDismiss = "dismiss"
)

// frame is the chrome around a panel body: border, title and hint line.
type frame struct {
	title   string
	variant Variant
	width   int
	hint    string
}

// size returns the outer and inner widths of the frame on a screen screenW
// columns wide.
func (f frame) size(screenW int) (modalWidth, contentWidth int) {
	maxWidth := screenW - 4
	if maxWidth < 1 {
		maxWidth = 1
	}
	minWidth := MinModalWidth
	if maxWidth < minWidth {
		minWidth = maxWidth
	}
	modalWidth = clamp(f.width, minWidth, maxWidth)
	contentWidth = modalWidth - ModalPadding
	if contentWidth < 1 {
		contentWidth = 1
	}
	return modalWidth, contentWidth
}

// render wraps body in the frame.
func (f frame) render(body string, screenW int) string {
	modalWidth, _ := f.size(screenW)

	var inner strings.Builder
	if f.title != "" {
		inner.WriteString(renderTitleLine(f.title, f.variant))
		inner.WriteString("\n")
	}
	inner.WriteString(body)
	if f.hint != "" {
		inner.WriteString("\n\n")
		inner.WriteString(styles.Muted.Render(f.hint))
	}
	return modalStyle(f.variant, modalWidth).Render(inner.String())
}

// renderScrollbar renders a single-column vertical scrollbar.
func renderScrollbar(totalItems, scrollOffset, viewportHeight int) string {
	if viewportHeight < 1 || totalItems < 1 {
		return ""
	}

	// Thumb size: proportional to visible fraction, minimum 1
	thumbSize := (viewportHeight * viewportHeight) / totalItems
	if thumbSize < 1 {
		thumbSize = 1
	}
	if thumbSize > viewportHeight {
		thumbSize = viewportHeight
	}

	// Thumb position
	maxOffset := totalItems - viewportHeight
	if maxOffset < 1 {
		maxOffset = 1
	}
	thumbPos := (scrollOffset * (viewportHeight - thumbSize)) / maxOffset
	thumbPos = clamp(thumbPos, 0, viewportHeight-thumbSize)

	trackStyle := lipgloss.NewStyle().Foreground(styles.TextSubtle)
	thumbStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	trackChar := trackStyle.Render("│")
	thumbChar := thumbStyle.Render("┃")

	lines := make([]string, viewportHeight)
	for i := 0; i < viewportHeight; i++ {
		if i >= thumbPos && i < thumbPos+thumbSize {
			lines[i] = thumbChar
		} else {
			lines[i] = trackChar
		}
	}

	return strings.Join(lines, "\n")
}

// modalStyle returns the lipgloss style for the panel box based on variant.
func modalStyle(variant Variant, width int) lipgloss.Style {
	borderColor := styles.Primary
	switch variant {
	case VariantDanger:
		borderColor = styles.Error
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(styles.BgSecondary).
		Padding(1, 2).
		Width(width)
}

// renderTitleLine renders the panel title.
func renderTitleLine(title string, variant Variant) string {
	titleStyle := styles.ModalTitle
	switch variant {
	case VariantDanger:
		titleStyle = titleStyle.Foreground(styles.Error)
	}
	return titleStyle.Render(title)
}

// desiredModalInnerHeight calculates the max inner height based on screen size.
func desiredModalInnerHeight(screenH int) int {
	// Leave room for the border and some margin
	maxH := screenH - 6
	if maxH < 1 {
		maxH = 1
	}
	return maxH
}

// clamp constrains a value between min and max.
func clamp(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
