package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Registry resolves command words to Commands. A word matches a canonical
// name, an alias, or an unambiguous prefix of a canonical name.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
	names    []string
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: every collision is reported in the returned error.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}
	var errs []error
	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			errs = append(errs, fmt.Errorf("duplicate command %q", cmd.Name))
			continue
		}
		if owner, exists := r.aliases[cmd.Name]; exists {
			errs = append(errs, fmt.Errorf("command %q is already an alias of %q", cmd.Name, owner))
			continue
		}
		r.commands[cmd.Name] = cmd
		r.names = append(r.names, cmd.Name)
		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				errs = append(errs, fmt.Errorf("alias %q of %q is a command name", alias, cmd.Name))
			} else if owner, exists := r.aliases[alias]; exists {
				errs = append(errs, fmt.Errorf("alias %q used by %q and %q", alias, owner, cmd.Name))
			} else {
				r.aliases[alias] = cmd.Name
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	slices.Sort(r.names)
	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("command: building default registry: %v", err))
	}
	return r
}

// Resolve looks up word as a name, then an alias, then a unique name prefix.
//
// Postcondition: Returns (command, true) if found, or (nil, false) when
// nothing or more than one name matches.
func (r *Registry) Resolve(word string) (*Command, bool) {
	word = strings.ToLower(word)
	if cmd, ok := r.commands[word]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[word]; ok {
		return r.commands[canonical], true
	}
	if word == "" {
		return nil, false
	}
	var match *Command
	for _, name := range r.names {
		if !strings.HasPrefix(name, word) {
			continue
		}
		if match != nil {
			return nil, false
		}
		match = r.commands[name]
	}
	return match, match != nil
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.commands[name])
	}
	return out
}

// CommandsByCategory groups commands by category, each group sorted by name.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}
