package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/bookleaf/internal/config"
	"github.com/marcus/bookleaf/internal/keymap"
	"github.com/marcus/bookleaf/internal/modal"
	"github.com/marcus/bookleaf/internal/msg"
	"github.com/marcus/bookleaf/internal/plugin"
	"github.com/marcus/bookleaf/internal/storage"
)

// watcherToastDuration keeps the watcher failure visible a little longer.
const watcherToastDuration = 5 * time.Second

// ModalKind identifies an app-level overlay with explicit priority ordering.
// Lower values = higher priority (checked first for rendering and input routing).
type ModalKind int

const (
	ModalNone        ModalKind = iota // No overlay open
	ModalError                        // Blocking error dialog (highest priority)
	ModalInputPanel                   // Text prompt
	ModalQuickPanel                   // Filterable item list
	ModalHelp                         // Help overlay (lowest priority)
)

// activeModal returns the highest-priority open overlay.
func (m *Model) activeModal() ModalKind {
	switch {
	case m.errorDialog != nil:
		return ModalError
	case m.inputPanel != nil:
		return ModalInputPanel
	case m.quickPanel != nil:
		return ModalQuickPanel
	case m.showHelp:
		return ModalHelp
	default:
		return ModalNone
	}
}

// hasModal returns true if any overlay is open.
func (m *Model) hasModal() bool {
	return m.activeModal() != ModalNone
}

// openQuickPanel is a quick panel together with the callback it reports to.
type openQuickPanel struct {
	panel    *modal.QuickPanel
	onSelect func(plugin.Selection)
}

// openInputPanel is an input panel together with its callbacks.
type openInputPanel struct {
	panel    *modal.InputPanel
	onDone   func(string)
	onCancel func()
}

// Options configures a Model.
type Options struct {
	Config   *config.Config
	Registry *plugin.Registry
	Keymap   *keymap.Registry
	Locator  *storage.Locator
	Logger   *slog.Logger
	Version  string

	// InitialCommand runs once the program starts (e.g. "list").
	InitialCommand string
}

// Model is the root Bubble Tea model. It is the host window the BookLeaf
// commands draw their panels in.
type Model struct {
	// Configuration
	cfg      *config.Config
	registry *plugin.Registry
	keymap   *keymap.Registry
	locator  *storage.Locator
	logger   *slog.Logger
	version  string
	initial  string

	// UI state
	width, height int
	ready         bool
	showHelp      bool
	showFooter    bool

	// Overlays
	quickPanel  *openQuickPanel
	inputPanel  *openInputPanel
	errorDialog *modal.ErrorDialog

	// Home screen
	storageDir   string
	recent       []storage.Entry
	recentCursor int
	preview      *filePreview

	// Status/toast messages
	statusMsg     string
	statusIsError bool
	toastSeq      int

	// Storage watcher
	events      <-chan storage.Event
	stopWatcher context.CancelFunc

	// Commands queued by Window calls during an update
	pending []tea.Cmd

	getenv         func(string) string
	goos           string
	clipboardWrite func(string) error
}

// New creates a new application model.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	km := opts.Keymap
	if km == nil {
		km = keymap.NewRegistry()
		keymap.RegisterDefaults(km)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reg := opts.Registry
	if reg == nil {
		reg = plugin.NewRegistry()
	}

	return &Model{
		cfg:            cfg,
		registry:       reg,
		keymap:         km,
		locator:        opts.Locator,
		logger:         logger,
		version:        opts.Version,
		initial:        opts.InitialCommand,
		showFooter:     cfg.UI.ShowFooter,
		getenv:         os.Getenv,
		goos:           runtime.GOOS,
		clipboardWrite: clipboard.WriteAll,
	}
}

// Init loads the home screen, starts the storage watcher and runs the
// initial command.
func (m *Model) Init() tea.Cmd {
	m.refreshRecent()

	cmds := []tea.Cmd{m.startWatcher()}
	if m.initial != "" {
		cmds = append(cmds, RunCommand(m.initial))
	}
	return tea.Batch(cmds...)
}

// Close stops the storage watcher.
func (m *Model) Close() {
	if m.stopWatcher != nil {
		m.stopWatcher()
		m.stopWatcher = nil
	}
}

func (m *Model) startWatcher() tea.Cmd {
	if m.storageDir == "" {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	events, err := storage.Watch(ctx, m.storageDir)
	if err != nil {
		cancel()
		m.logger.Warn("storage watcher unavailable", "dir", m.storageDir, "err", err)
		return msg.ShowErrorToast("File watching unavailable: "+err.Error(), watcherToastDuration)
	}
	m.events = events
	m.stopWatcher = cancel
	return waitForStorageEvent(events)
}

// refreshRecent reloads the recent files shown on the home screen.
func (m *Model) refreshRecent() {
	if m.locator == nil {
		return
	}
	dir, err := m.locator.Path()
	if err != nil {
		m.logger.Error("storage folder unavailable", "err", err)
		m.toast(err.Error(), true)
		return
	}
	m.storageDir = dir

	entries, err := storage.List(dir)
	if err != nil {
		m.logger.Error("list storage folder", "err", err)
		return
	}
	if n := m.cfg.UI.RecentFiles; len(entries) > n {
		entries = entries[:n]
	}
	m.recent = entries
	if m.recentCursor >= len(m.recent) {
		m.recentCursor = max(0, len(m.recent)-1)
	}
}

// toast shows a transient footer message.
func (m *Model) toast(text string, isError bool) {
	m.toastFor(text, isError, msg.DefaultToastDuration)
}

func (m *Model) toastFor(text string, isError bool, d time.Duration) {
	if d <= 0 {
		d = msg.DefaultToastDuration
	}
	m.toastSeq++
	m.statusMsg = text
	m.statusIsError = isError
	m.queue(msg.ExpireToast(m.toastSeq, d))
}

// queue schedules cmd to be returned from the current update.
func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

// flush returns the queued commands batched with extra.
func (m *Model) flush(extra ...tea.Cmd) tea.Cmd {
	cmds := append(m.pending, extra...)
	m.pending = nil
	return tea.Batch(cmds...)
}

// runCommand runs a registered command against this window.
func (m *Model) runCommand(name string) {
	cmd, ok := m.registry.Lookup(name)
	if !ok {
		m.logger.Warn("unknown command", "name", name)
		return
	}
	m.logger.Debug("run command", "name", name)
	if err := cmd.Run(m); err != nil {
		m.logger.Error("command failed", "name", name, "err", err)
		m.toast("Error: "+err.Error(), true)
	}
}

// dismissPanels cancels any open panel so a new one can take its place.
func (m *Model) dismissPanels() {
	if qp := m.quickPanel; qp != nil {
		m.quickPanel = nil
		qp.onSelect(plugin.Cancelled())
	}
	if ip := m.inputPanel; ip != nil {
		m.inputPanel = nil
		if ip.onCancel != nil {
			ip.onCancel()
		}
	}
}

// ShowQuickPanel implements plugin.Window.
func (m *Model) ShowQuickPanel(items []plugin.QuickPanelItem, onSelect func(plugin.Selection), opts ...plugin.PanelOption) {
	m.dismissPanels()
	panel := modal.NewQuickPanel(items, plugin.ResolvePanelOptions(opts...))
	m.quickPanel = &openQuickPanel{panel: panel, onSelect: onSelect}
	m.showHelp = false
	m.queue(panel.Init())
}

// ShowInputPanel implements plugin.Window.
func (m *Model) ShowInputPanel(caption, initial string, onDone func(string), onCancel func()) {
	m.dismissPanels()
	panel := modal.NewInputPanel(caption, initial)
	m.inputPanel = &openInputPanel{panel: panel, onDone: onDone, onCancel: onCancel}
	m.showHelp = false
	m.queue(panel.Init())
}

// OpenFile implements plugin.Window.
func (m *Model) OpenFile(path string) {
	editor := resolveEditor(m.cfg.Editor, m.getenv)
	m.logger.Debug("open file", "path", path, "editor", editor)
	m.queue(func() tea.Msg {
		return plugin.OpenFileMsg{Editor: editor, Path: path}
	})
}

// OpenDir implements plugin.Window.
func (m *Model) OpenDir(path string) {
	m.queue(func() tea.Msg {
		return plugin.OpenDirMsg{Path: path}
	})
}

// RunCommand implements plugin.Window.
func (m *Model) RunCommand(name string) {
	m.runCommand(name)
}

// StatusMessage implements plugin.Window.
func (m *Model) StatusMessage(text string) {
	m.toast(text, false)
}

// ErrorMessage implements plugin.Window.
func (m *Model) ErrorMessage(text string) {
	m.logger.Warn("error shown", "message", text)
	m.errorDialog = modal.NewErrorDialog(text)
}

var _ plugin.Window = (*Model)(nil)
