// Package plugin defines the host window API that BookLeaf commands are
// written against, and the registry the host uses to run them by name.
package plugin

// Window is the set of host primitives a command may use. All methods are
// called from the host's update loop; callbacks are invoked there too.
type Window interface {
	// ShowQuickPanel presents items and calls onSelect exactly once with the
	// chosen item's index into items, or with a cancelled Selection.
	ShowQuickPanel(items []QuickPanelItem, onSelect func(Selection), opts ...PanelOption)
	// ShowInputPanel prompts for a line of text prefilled with initial.
	// onCancel may be nil.
	ShowInputPanel(caption, initial string, onDone func(string), onCancel func())
	// OpenFile opens path in the user's editor.
	OpenFile(path string)
	// OpenDir reveals a directory in the system file browser.
	OpenDir(path string)
	// RunCommand runs another registered command by name.
	RunCommand(name string)
	// StatusMessage shows a transient notice.
	StatusMessage(text string)
	// ErrorMessage shows a blocking error.
	ErrorMessage(text string)
}

// Command is a named entry point the host can invoke.
type Command interface {
	Name() string
	Description() string
	Run(w Window) error
}

// KindColor is the badge colour of a quick panel item.
type KindColor int

const (
	KindColorLight KindColor = iota
	KindColorGreenish
	KindColorRedish
)

// Kind is the category marker shown beside a quick panel item.
type Kind struct {
	Color  KindColor
	Letter string
}

// QuickPanelItem is one row of a quick panel.
type QuickPanelItem struct {
	Trigger    string // Primary text, matched by the panel filter
	Details    string // Secondary line
	Annotation string // Right-aligned hint (e.g. modification time)
	Kind       Kind

	// DetailsUnavailable marks Details as a placeholder for content that
	// could not be read.
	DetailsUnavailable bool
}

// Selection is the result of a quick panel: either an index into the items
// that were shown, or a cancellation.
type Selection struct {
	index    int
	selected bool
}

// Selected returns a Selection for item i.
func Selected(i int) Selection { return Selection{index: i, selected: true} }

// Cancelled returns a Selection for a dismissed panel.
func Cancelled() Selection { return Selection{} }

// Index returns the chosen index and whether an item was chosen at all.
func (s Selection) Index() (int, bool) { return s.index, s.selected }

// Cancelled reports whether the panel was dismissed without a choice.
func (s Selection) Cancelled() bool { return !s.selected }

// PanelOptions holds quick panel presentation flags.
type PanelOptions struct {
	KeepOpenOnFocusLost bool
	Placeholder         string
}

// PanelOption configures a quick panel.
type PanelOption func(*PanelOptions)

// KeepOpenOnFocusLost keeps the panel open when the terminal loses focus.
func KeepOpenOnFocusLost() PanelOption {
	return func(o *PanelOptions) { o.KeepOpenOnFocusLost = true }
}

// WithPlaceholder sets the hint shown in the empty filter input.
func WithPlaceholder(text string) PanelOption {
	return func(o *PanelOptions) { o.Placeholder = text }
}

// ResolvePanelOptions applies opts over the zero PanelOptions.
func ResolvePanelOptions(opts ...PanelOption) PanelOptions {
	var o PanelOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// OpenFileMsg requests opening a file in an external editor.
// Sent by the window, handled by the app to exec the editor process.
type OpenFileMsg struct {
	Editor string // Editor command (e.g., "vim", "code -w")
	Path   string // File path to open
}

// OpenDirMsg requests revealing a directory in the system file browser.
type OpenDirMsg struct {
	Path string
}
