package bookleaf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
)

// panelCall records one ShowQuickPanel invocation.
type panelCall struct {
	items    []plugin.QuickPanelItem
	onSelect func(plugin.Selection)
	opts     plugin.PanelOptions
}

// inputCall records one ShowInputPanel invocation.
type inputCall struct {
	caption, initial string
	onDone           func(string)
	onCancel         func()
}

// fakeWindow records every host call. RunCommand dispatches through a
// registry so chained commands behave like they do in the app.
type fakeWindow struct {
	t        *testing.T
	registry *plugin.Registry

	panels   []panelCall
	inputs   []inputCall
	opened   []string
	dirs     []string
	ran      []string
	statuses []string
	errors   []string
}

func newFakeWindow(t *testing.T, reg *plugin.Registry) *fakeWindow {
	return &fakeWindow{t: t, registry: reg}
}

func (w *fakeWindow) ShowQuickPanel(items []plugin.QuickPanelItem, onSelect func(plugin.Selection), opts ...plugin.PanelOption) {
	w.panels = append(w.panels, panelCall{items: items, onSelect: onSelect, opts: plugin.ResolvePanelOptions(opts...)})
}

func (w *fakeWindow) ShowInputPanel(caption, initial string, onDone func(string), onCancel func()) {
	w.inputs = append(w.inputs, inputCall{caption: caption, initial: initial, onDone: onDone, onCancel: onCancel})
}

func (w *fakeWindow) OpenFile(path string)      { w.opened = append(w.opened, path) }
func (w *fakeWindow) OpenDir(path string)       { w.dirs = append(w.dirs, path) }
func (w *fakeWindow) StatusMessage(text string) { w.statuses = append(w.statuses, text) }
func (w *fakeWindow) ErrorMessage(text string)  { w.errors = append(w.errors, text) }

func (w *fakeWindow) RunCommand(name string) {
	w.ran = append(w.ran, name)
	cmd, ok := w.registry.Lookup(name)
	if !ok {
		w.t.Fatalf("RunCommand(%q): not registered", name)
	}
	if err := cmd.Run(w); err != nil {
		w.t.Fatalf("RunCommand(%q): %v", name, err)
	}
}

// lastPanel returns the most recent quick panel.
func (w *fakeWindow) lastPanel() panelCall {
	w.t.Helper()
	if len(w.panels) == 0 {
		w.t.Fatal("no quick panel shown")
	}
	return w.panels[len(w.panels)-1]
}

// lastInput returns the most recent input panel.
func (w *fakeWindow) lastInput() inputCall {
	w.t.Helper()
	if len(w.inputs) == 0 {
		w.t.Fatal("no input panel shown")
	}
	return w.inputs[len(w.inputs)-1]
}

// fixture is a storage folder with all commands registered against it.
type fixture struct {
	env      *Env
	registry *plugin.Registry
	dir      string
	window   *fakeWindow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc := storage.NewLocator(t.TempDir())
	dir, err := loc.Path()
	if err != nil {
		t.Fatal(err)
	}

	env := NewEnv(loc, DefaultSettings())
	env.Now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 15, 0, time.Local) }

	reg := plugin.NewRegistry()
	if err := Register(reg, env); err != nil {
		t.Fatal(err)
	}
	return &fixture{env: env, registry: reg, dir: dir, window: newFakeWindow(t, reg)}
}

// file writes name with content and the given modification time.
func (f *fixture) file(t *testing.T, name, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

// run executes a registered command against the fake window.
func (f *fixture) run(t *testing.T, name string) {
	t.Helper()
	cmd, ok := f.registry.Lookup(name)
	if !ok {
		t.Fatalf("command %q not registered", name)
	}
	if err := cmd.Run(f.window); err != nil {
		t.Fatalf("%s: %v", name, err)
	}
}

func triggers(items []plugin.QuickPanelItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Trigger
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
