package keymap

// Command IDs handled by the app. BookLeaf command IDs match the names the
// commands are registered under.
const (
	CmdQuit         = "quit"
	CmdHelp         = "toggle-help"
	CmdToggleFooter = "toggle-footer"
	CmdRefresh      = "refresh"
	CmdCursorDown   = "cursor-down"
	CmdCursorUp     = "cursor-up"
	CmdOpenRecent   = "open-recent"
	CmdYankPath     = "yank-path"
	CmdYankContent  = "yank-content"

	CmdList       = "list"
	CmdNew        = "new"
	CmdSearch     = "search"
	CmdDelete     = "delete"
	CmdOpenFolder = "open-folder"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "q", Command: CmdQuit, Context: ContextGlobal},
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal},
		{Key: "?", Command: CmdHelp, Context: ContextGlobal},
		{Key: "F", Command: CmdToggleFooter, Context: ContextGlobal},
		{Key: "r", Command: CmdRefresh, Context: ContextGlobal},

		// Home screen
		{Key: "l", Command: CmdList, Context: ContextHome},
		{Key: "n", Command: CmdNew, Context: ContextHome},
		{Key: "s", Command: CmdSearch, Context: ContextHome},
		{Key: "/", Command: CmdSearch, Context: ContextHome},
		{Key: "d", Command: CmdDelete, Context: ContextHome},
		{Key: "o", Command: CmdOpenFolder, Context: ContextHome},
		{Key: "j", Command: CmdCursorDown, Context: ContextHome},
		{Key: "down", Command: CmdCursorDown, Context: ContextHome},
		{Key: "k", Command: CmdCursorUp, Context: ContextHome},
		{Key: "up", Command: CmdCursorUp, Context: ContextHome},
		{Key: "enter", Command: CmdOpenRecent, Context: ContextHome},
		{Key: "y", Command: CmdYankPath, Context: ContextHome},
		{Key: "Y", Command: CmdYankContent, Context: ContextHome},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
