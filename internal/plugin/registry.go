package plugin

import (
	"errors"
	"fmt"
)

// ErrDuplicateCommand is returned when two commands share a name.
var ErrDuplicateCommand = errors.New("command already registered")

// Registry holds commands in registration order.
type Registry struct {
	commands []Command
	byName   map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds a command.
func (r *Registry) Register(c Command) error {
	if _, ok := r.byName[c.Name()]; ok {
		return fmt.Errorf("%s: %w", c.Name(), ErrDuplicateCommand)
	}
	r.byName[c.Name()] = c
	r.commands = append(r.commands, c)
	return nil
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Commands returns all commands in registration order.
func (r *Registry) Commands() []Command {
	return r.commands
}
