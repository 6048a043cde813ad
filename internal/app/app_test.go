package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/bookleaf/internal/bookleaf"
	"github.com/marcus/bookleaf/internal/msg"
	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
)

func newTestModel(t *testing.T, base string) *Model {
	t.Helper()
	loc := storage.NewLocator(base)
	env := bookleaf.NewEnv(loc, bookleaf.DefaultSettings())
	reg := plugin.NewRegistry()
	if err := bookleaf.Register(reg, env); err != nil {
		t.Fatal(err)
	}

	m := New(Options{Registry: reg, Locator: loc})
	m.getenv = func(string) string { return "" }
	m.refreshRecent()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func storageDir(t *testing.T, m *Model) string {
	t.Helper()
	dir, err := m.locator.Path()
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one by one and returns every message the resulting
// commands produce. Commands that block (timers) are skipped.
func press(m *Model, keys ...string) []tea.Msg {
	var out []tea.Msg
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		out = append(out, collectMsgs(cmd)...)
	}
	return out
}

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(keyMsg(string(r)))
	}
}

func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case m := <-ch:
		if batch, ok := m.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collectMsgs(c)...)
			}
			return out
		}
		if m == nil {
			return nil
		}
		return []tea.Msg{m}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func findOpenFile(msgs []tea.Msg) (plugin.OpenFileMsg, bool) {
	for _, m := range msgs {
		if o, ok := m.(plugin.OpenFileMsg); ok {
			return o, true
		}
	}
	return plugin.OpenFileMsg{}, false
}

func TestListThenCreateFile(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	dir := storageDir(t, m)
	writeFile(t, dir, "a.md", "alpha")

	press(m, "l")
	if m.quickPanel == nil {
		t.Fatal("list panel not shown")
	}
	view := ansi.Strip(m.View())
	for _, want := range []string{"+ New File", "a.md", "alpha"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	press(m, "enter")
	if m.quickPanel != nil {
		t.Error("list panel should close before the new-file prompt")
	}
	if m.inputPanel == nil {
		t.Fatal("new-file prompt not shown")
	}
	if m.inputPanel.panel.Value() == "" {
		t.Error("prompt should be prefilled with a dated name")
	}

	press(m, "ctrl+u")
	typeString(m, "todo")
	msgs := press(m, "enter")

	want := filepath.Join(dir, "todo.md")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("todo.md not created: %v", err)
	}
	open, ok := findOpenFile(msgs)
	if !ok {
		t.Fatal("no OpenFileMsg emitted")
	}
	if open.Path != want || open.Editor != defaultEditor {
		t.Errorf("open = %+v", open)
	}
	if m.inputPanel != nil {
		t.Error("prompt should be closed")
	}
}

func TestListSelectFileOpensIt(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	path := writeFile(t, storageDir(t, m), "a.md", "")

	press(m, "l", "down")
	open, ok := findOpenFile(press(m, "enter"))
	if !ok || open.Path != path {
		t.Errorf("open = %+v, %v; want %s", open, ok, path)
	}
}

func TestEscCancelsPanel(t *testing.T) {
	m := newTestModel(t, t.TempDir())

	press(m, "l", "esc")
	if m.quickPanel != nil || m.inputPanel != nil {
		t.Error("panel still open after esc")
	}

	press(m, "n")
	if m.inputPanel == nil {
		t.Fatal("new-file prompt not shown")
	}
	press(m, "esc")
	if m.inputPanel != nil {
		t.Error("prompt still open after esc")
	}
	entries, _ := storage.List(storageDir(t, m))
	if len(entries) != 0 {
		t.Errorf("cancelled prompt created %d files", len(entries))
	}
}

func TestDeleteFlowShowsStatus(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	path := writeFile(t, storageDir(t, m), "a.md", "a")

	press(m, "d", "enter", "enter")

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("a.md still exists")
	}
	if m.statusMsg != "BookLeaf: Deleted a.md" || m.statusIsError {
		t.Errorf("status = %q (error=%v)", m.statusMsg, m.statusIsError)
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "BookLeaf: Deleted a.md") {
		t.Error("status not shown in footer")
	}

	// An older timer does not clear a newer toast.
	m.Update(msg.ToastExpiredMsg{Seq: m.toastSeq - 1})
	if m.statusMsg == "" {
		t.Error("stale expiry cleared the toast")
	}
	m.Update(msg.ToastExpiredMsg{Seq: m.toastSeq})
	if m.statusMsg != "" {
		t.Errorf("toast not cleared: %q", m.statusMsg)
	}
}

func TestBlurCancelsOnlyTransientPanels(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	path := writeFile(t, storageDir(t, m), "a.md", "a")

	press(m, "l")
	m.Update(tea.BlurMsg{})
	if m.quickPanel == nil {
		t.Fatal("keep-open list panel closed on blur")
	}
	press(m, "esc")

	// The delete confirmation is not keep-open.
	press(m, "d", "enter")
	if m.quickPanel == nil {
		t.Fatal("confirmation not shown")
	}
	m.Update(tea.BlurMsg{})
	if m.quickPanel != nil {
		t.Error("confirmation should close on blur")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file removed: %v", err)
	}
}

func TestNewPanelReplacesOpenOne(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	writeFile(t, storageDir(t, m), "a.md", "a")

	press(m, "l")
	m.RunCommand(bookleaf.CommandSearch)
	if m.quickPanel == nil {
		t.Fatal("search panel not shown")
	}
	if got := m.quickPanel.panel.Options().Placeholder; got != "Search file contents..." {
		t.Errorf("placeholder = %q", got)
	}
}

func TestSearchWithoutFilesShowsStatus(t *testing.T) {
	m := newTestModel(t, t.TempDir())

	press(m, "s")
	if m.quickPanel != nil {
		t.Error("no panel expected")
	}
	if m.statusMsg != "BookLeaf: No files found" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestErrorDialogBlocksInput(t *testing.T) {
	m := newTestModel(t, t.TempDir())

	m.ErrorMessage("Failed to delete file: boom")
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Failed to delete file: boom") {
		t.Errorf("error not rendered:\n%s", view)
	}

	press(m, "l")
	if m.quickPanel != nil {
		t.Error("keys should not reach the home screen while the dialog is open")
	}
	press(m, "enter")
	if m.errorDialog != nil {
		t.Error("dialog not dismissed")
	}
}

func TestOpenFolder(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	dir := storageDir(t, m)

	var got plugin.OpenDirMsg
	for _, msg := range press(m, "o") {
		if d, ok := msg.(plugin.OpenDirMsg); ok {
			got = d
		}
	}
	if got.Path != dir {
		t.Errorf("OpenDirMsg = %+v, want %s", got, dir)
	}
}

func TestOpenRecent(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	dir := storageDir(t, m)
	old := writeFile(t, dir, "old.md", "")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "new.md", "")
	m.refreshRecent()

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Recent files") || !strings.Contains(view, "new.md") {
		t.Errorf("home view:\n%s", view)
	}

	open, ok := findOpenFile(press(m, "j", "enter"))
	if !ok || open.Path != old {
		t.Errorf("open = %+v, %v; want %s", open, ok, old)
	}
}

func TestStorageEventRefreshesRecent(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	if len(m.recent) != 0 {
		t.Fatalf("recent = %v", m.recent)
	}

	writeFile(t, storageDir(t, m), "b.md", "")
	m.Update(storageEventMsg{Name: "b.md"})
	if len(m.recent) != 1 || m.recent[0].Name != "b.md" {
		t.Errorf("recent = %v", m.recent)
	}
}

func TestCommandErrorShowsToast(t *testing.T) {
	base := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(base, nil, 0644); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, base)

	press(m, "l")
	if m.quickPanel != nil {
		t.Error("no panel expected")
	}
	if !m.statusIsError || !strings.HasPrefix(m.statusMsg, "Error: ") {
		t.Errorf("status = %q (error=%v)", m.statusMsg, m.statusIsError)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, t.TempDir())

	for _, msg := range press(m, "q") {
		if _, ok := msg.(tea.QuitMsg); ok {
			return
		}
	}
	t.Error("q did not quit")
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, t.TempDir())

	press(m, "?")
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Keyboard Shortcuts") || !strings.Contains(view, "open folder") {
		t.Errorf("help view:\n%s", view)
	}
	press(m, "esc")
	if m.showHelp {
		t.Error("help still open")
	}
}

func TestResolveEditor(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	tests := []struct {
		name       string
		configured string
		vars       map[string]string
		want       string
	}{
		{"config wins", "code -w", map[string]string{"EDITOR": "nano"}, "code -w"},
		{"EDITOR", "", map[string]string{"EDITOR": "nano", "VISUAL": "emacs"}, "nano"},
		{"VISUAL", "", map[string]string{"VISUAL": "emacs"}, "emacs"},
		{"fallback", "  ", nil, defaultEditor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveEditor(tt.configured, env(tt.vars)); got != tt.want {
				t.Errorf("resolveEditor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEditorCommand(t *testing.T) {
	c, err := editorCommand("code -w", "/tmp/a.md")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(c.Args, " "); got != "code -w /tmp/a.md" {
		t.Errorf("args = %q", got)
	}
	if _, err := editorCommand("   ", "/tmp/a.md"); !errors.Is(err, errNoEditor) {
		t.Errorf("err = %v, want errNoEditor", err)
	}
}

func TestRevealCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"windows", "explorer"},
		{"linux", "xdg-open"},
	}
	for _, tt := range tests {
		c, err := revealCommand(tt.goos, "/notes")
		if err != nil {
			t.Fatalf("%s: %v", tt.goos, err)
		}
		if c.Args[0] != tt.want || c.Args[1] != "/notes" {
			t.Errorf("%s: args = %v", tt.goos, c.Args)
		}
	}
	if _, err := revealCommand("plan9", "/notes"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestToastMsgShowsStatus(t *testing.T) {
	m := newTestModel(t, t.TempDir())

	m.Update(msg.ToastMsg{Message: "saved", Duration: time.Second})
	if m.statusMsg != "saved" || m.statusIsError {
		t.Errorf("status = %q (error=%v)", m.statusMsg, m.statusIsError)
	}
}

func TestWatcherFailureReportsToast(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	m.storageDir = filepath.Join(t.TempDir(), "missing")

	msgs := collectMsgs(m.startWatcher())
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	toast, ok := msgs[0].(msg.ToastMsg)
	if !ok || !toast.IsError || !strings.HasPrefix(toast.Message, "File watching unavailable") {
		t.Errorf("msg = %#v", msgs[0])
	}
	if m.stopWatcher != nil {
		t.Error("watcher should not be running")
	}
}

func TestWatcherLifecycle(t *testing.T) {
	m := newTestModel(t, t.TempDir())

	if cmd := m.startWatcher(); cmd == nil {
		t.Fatal("expected a wait command")
	}
	if m.events == nil || m.stopWatcher == nil {
		t.Fatal("watcher not started")
	}
	m.Close()
	if m.stopWatcher != nil {
		t.Error("Close should stop the watcher")
	}
}

func findToast(msgs []tea.Msg) (msg.ToastMsg, bool) {
	for _, m := range msgs {
		if t, ok := m.(msg.ToastMsg); ok {
			return t, true
		}
	}
	return msg.ToastMsg{}, false
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestYankSelectedFile(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	path := writeFile(t, storageDir(t, m), "a.md", "alpha\r\nbeta")
	m.refreshRecent()

	var copied string
	m.clipboardWrite = func(s string) error {
		copied = s
		return nil
	}

	toast, ok := findToast(press(m, "y"))
	if !ok || toast.IsError || toast.Message != "Copied path: a.md" {
		t.Errorf("y toast = %+v, %v", toast, ok)
	}
	if copied != path {
		t.Errorf("y copied %q, want %q", copied, path)
	}

	toast, ok = findToast(press(m, "Y"))
	if !ok || toast.IsError || toast.Message != "Copied content of a.md" {
		t.Errorf("Y toast = %+v, %v", toast, ok)
	}
	if copied != "alpha\nbeta" {
		t.Errorf("Y copied %q", copied)
	}
}

func TestYankFailures(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	m.clipboardWrite = func(string) error { return errors.New("no clipboard") }

	toast, ok := findToast(press(m, "y"))
	if !ok || toast.Message != "No file selected" {
		t.Errorf("empty home toast = %+v, %v", toast, ok)
	}

	writeFile(t, storageDir(t, m), "a.md", "a")
	m.refreshRecent()
	toast, ok = findToast(press(m, "y"))
	if !ok || !toast.IsError || toast.Message != "Copy failed: no clipboard" {
		t.Errorf("clipboard error toast = %+v, %v", toast, ok)
	}

	writeFile(t, storageDir(t, m), "a.md", "\xff")
	toast, ok = findToast(press(m, "Y"))
	if !ok || !toast.IsError || !strings.HasPrefix(toast.Message, "Copy failed: ") {
		t.Errorf("unreadable content toast = %+v, %v", toast, ok)
	}
}

func TestPreviewPane(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	dir := storageDir(t, m)
	now := time.Now()
	touch(t, writeFile(t, dir, "notes.md", "# Shopping\n\nbuy milk\n"), now)
	touch(t, writeFile(t, dir, "plain.txt", "plain *text*\n"), now.Add(-time.Minute))
	touch(t, writeFile(t, dir, "bin.md", "\xff\xfe"), now.Add(-2*time.Minute))
	touch(t, writeFile(t, dir, "blank.md", ""), now.Add(-3*time.Minute))
	m.refreshRecent()

	view := ansi.Strip(m.View())
	for _, want := range []string{"Preview: notes.md", "Shopping", "milk"} {
		if !strings.Contains(view, want) {
			t.Errorf("markdown preview missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "# Shopping") {
		t.Error("markdown heading should be rendered, not shown raw")
	}

	press(m, "j")
	view = ansi.Strip(m.View())
	if !strings.Contains(view, "Preview: plain.txt") || !strings.Contains(view, "plain *text*") {
		t.Errorf("plain text preview:\n%s", view)
	}

	press(m, "j")
	if view = ansi.Strip(m.View()); !strings.Contains(view, "(unable to read)") {
		t.Errorf("unreadable preview:\n%s", view)
	}

	press(m, "j")
	if view = ansi.Strip(m.View()); !strings.Contains(view, "(empty file)") {
		t.Errorf("empty preview:\n%s", view)
	}

	m.cfg.ShowFilePreview = false
	if view = ansi.Strip(m.View()); strings.Contains(view, "Preview:") {
		t.Error("preview shown while disabled")
	}
}

func TestPreviewFollowsFileChanges(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	path := writeFile(t, storageDir(t, m), "a.txt", "before")
	touch(t, path, time.Now().Add(-time.Hour))
	m.refreshRecent()

	if view := ansi.Strip(m.View()); !strings.Contains(view, "before") {
		t.Fatalf("preview:\n%s", view)
	}

	writeFile(t, storageDir(t, m), "a.txt", "after")
	touch(t, path, time.Now())
	m.Update(storageEventMsg{Name: "a.txt"})
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "after") || strings.Contains(view, "before") {
		t.Errorf("stale preview:\n%s", view)
	}
}

func TestToggleFooter(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	before := m.showFooter

	press(m, "F")
	if m.showFooter == before {
		t.Error("F did not toggle the footer")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	if m.showFooter == before {
		t.Error("ctrl+h should not toggle the footer")
	}
}
