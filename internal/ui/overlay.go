// Package ui composites panels over the home screen.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// dimStyle greys out the background behind a panel. Existing colours are
// stripped first since faint does not combine with them in most terminals.
var dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// Anchor is where a panel is placed over the background.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTop           // horizontally centred, near the top edge
)

// topMargin is the number of background rows kept above a top-anchored panel.
const topMargin = 1

// OverlayPanel composites panel over a dimmed background of the given
// size. The panel is centred horizontally and placed vertically per anchor,
// clamped so it stays on screen.
func OverlayPanel(background, panel string, width, height int, anchor Anchor) string {
	bgLines := strings.Split(background, "\n")
	panelLines := strings.Split(panel, "\n")

	panelWidth := widest(panelLines)
	panelHeight := len(panelLines)

	x := max(0, (width-panelWidth)/2)
	y := (height - panelHeight) / 2
	if anchor == AnchorTop {
		y = topMargin
	}
	y = max(0, min(y, height-panelHeight))

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	out := make([]string, height)
	for row := 0; row < height; row++ {
		if i := row - y; i >= 0 && i < panelHeight {
			out[row] = splice(bgLines[row], panelLines[i], x, panelWidth, width)
		} else {
			out[row] = dim(bgLines[row])
		}
	}
	return strings.Join(out, "\n")
}

// widest returns the largest display width among lines.
func widest(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}

func dim(s string) string {
	return dimStyle.Render(ansi.Strip(s))
}

// splice places panelLine at column x of a dimmed bgLine, padding the
// background when it is shorter than x.
func splice(bgLine, panelLine string, x, panelWidth, width int) string {
	plain := ansi.Strip(bgLine)
	plainWidth := ansi.StringWidth(plain)

	var b strings.Builder
	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		b.WriteString(dimStyle.Render(left))
		if lw := ansi.StringWidth(left); lw < x {
			b.WriteString(strings.Repeat(" ", x-lw))
		}
	}
	b.WriteString(panelLine)

	if right := x + panelWidth; right < width && plainWidth > right {
		b.WriteString(dimStyle.Render(ansi.Cut(plain, right, plainWidth)))
	}
	return b.String()
}
