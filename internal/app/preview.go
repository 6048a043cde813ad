package app

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/bookleaf/internal/storage"
	"github.com/marcus/bookleaf/internal/styles"
)

// minPreviewHeight is the fewest rows worth drawing a preview pane in,
// title included.
const minPreviewHeight = 4

// filePreview caches the rendered preview of one recent file. It is reused
// while the file's path, modification time and the pane width are unchanged.
type filePreview struct {
	path    string
	modTime time.Time
	width   int
	lines   []string
}

func (p *filePreview) matches(e storage.Entry, width int) bool {
	return p != nil && p.path == e.Path && p.modTime.Equal(e.ModTime) && p.width == width
}

// previewLines returns the rendered preview of e wrapped to width.
func (m *Model) previewLines(e storage.Entry, width int) []string {
	if !m.preview.matches(e, width) {
		m.preview = &filePreview{
			path:    e.Path,
			modTime: e.ModTime,
			width:   width,
			lines:   m.renderPreview(e.Path, width),
		}
	}
	return m.preview.lines
}

func (m *Model) renderPreview(path string, width int) []string {
	content, err := storage.ReadContent(path)
	if err != nil {
		m.logger.Debug("preview unreadable", "path", path, "err", err)
		return []string{styles.Unreadable.Render(storage.Preview{Status: storage.PreviewUnreadable}.String())}
	}
	if strings.TrimSpace(content) == "" {
		return []string{styles.Muted.Render(storage.Preview{Status: storage.PreviewEmpty}.String())}
	}

	text := content
	if isMarkdown(path) {
		if out, err := renderMarkdown(content, width); err != nil {
			m.logger.Debug("markdown render failed", "path", path, "err", err)
		} else {
			text = strings.Trim(out, "\n")
		}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return lines
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// renderMarkdown renders content for the terminal. The style is fixed so
// output does not depend on querying the terminal background.
func renderMarkdown(content string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// renderPreviewPane renders the selected file's preview in at most height
// rows, or nothing when there is no room or no selection.
func (m *Model) renderPreviewPane(width, height int) string {
	if !m.cfg.ShowFilePreview || height < minPreviewHeight {
		return ""
	}
	e, ok := m.selectedRecent()
	if !ok {
		return ""
	}

	lines := m.previewLines(e, max(1, width-2))
	if n := height - 2; len(lines) > n {
		lines = lines[:n]
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(" Preview: " + e.Name))
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString("\n ")
		b.WriteString(line)
	}
	return b.String()
}
