package keymap

import "sort"

// Contexts bindings can belong to. Global bindings apply everywhere a more
// specific binding does not.
const (
	ContextGlobal = "global"
	ContextHome   = "home"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string // Key string as reported by tea.KeyMsg.String()
	Command string // Command ID
	Context string // Context the binding is active in
}

// Registry resolves keys to command IDs per context.
type Registry struct {
	bindings  map[string][]Binding // context -> bindings in registration order
	overrides map[string]string    // key -> command, from user config
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:  make(map[string][]Binding),
		overrides: make(map[string]string),
	}
}

// RegisterBinding adds a binding. A later binding for the same key and
// context replaces the earlier one.
func (r *Registry) RegisterBinding(b Binding) {
	list := r.bindings[b.Context]
	for i := range list {
		if list[i].Key == b.Key {
			list[i] = b
			return
		}
	}
	r.bindings[b.Context] = append(list, b)
}

// SetUserOverride binds key to command in every context. An empty command
// removes the override.
func (r *Registry) SetUserOverride(key, command string) {
	if command == "" {
		delete(r.overrides, key)
		return
	}
	r.overrides[key] = command
}

// ApplyOverrides installs user overrides from config.
func (r *Registry) ApplyOverrides(overrides map[string]string) {
	for k, c := range overrides {
		r.SetUserOverride(k, c)
	}
}

// Handle resolves key in context: user overrides first, then the context's
// bindings, then global bindings.
func (r *Registry) Handle(key, context string) (string, bool) {
	if cmd, ok := r.overrides[key]; ok {
		return cmd, true
	}
	if cmd, ok := r.lookup(key, context); ok {
		return cmd, true
	}
	if context != ContextGlobal {
		return r.lookup(key, ContextGlobal)
	}
	return "", false
}

func (r *Registry) lookup(key, context string) (string, bool) {
	for _, b := range r.bindings[context] {
		if b.Key == key {
			return b.Command, true
		}
	}
	return "", false
}

// BindingsFor returns the effective bindings of a context, overrides
// included, in registration order.
func (r *Registry) BindingsFor(context string) []Binding {
	base := r.bindings[context]
	out := make([]Binding, 0, len(base)+len(r.overrides))
	for _, b := range base {
		if _, overridden := r.overrides[b.Key]; overridden {
			continue
		}
		out = append(out, b)
	}

	keys := make([]string, 0, len(r.overrides))
	for k := range r.overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if r.hasCommand(context, r.overrides[k]) {
			out = append(out, Binding{Key: k, Command: r.overrides[k], Context: context})
		}
	}
	return out
}

// KeysFor returns the keys bound to command in context, overrides first.
func (r *Registry) KeysFor(command, context string) []string {
	var keys []string
	for _, b := range r.BindingsFor(context) {
		if b.Command == command {
			keys = append(keys, b.Key)
		}
	}
	return keys
}

// hasCommand reports whether any default binding of context targets command.
func (r *Registry) hasCommand(context, command string) bool {
	for _, b := range r.bindings[context] {
		if b.Command == command {
			return true
		}
	}
	return false
}
