// Package condition defines combatant status values and the party-wide aura.
package condition

import "fmt"

// Status is the state of a single combatant.
type Status int

const (
	// Good is the normal, able state.
	Good Status = iota
	Poisoned
	Asleep
	// Disabled covers paralysis and similar effects that cost every turn.
	Disabled
	Dead
	// Fled marks a combatant that left the arena.
	Fled
)

var statusNames = [...]string{"good", "poisoned", "asleep", "disabled", "dead", "fled"}

// String returns the lowercase status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// Incapacitated reports whether a combatant in this status cannot act.
func (s Status) Incapacitated() bool {
	return s == Asleep || s == Disabled || s == Dead || s == Fled
}

// ParseStatus maps a lowercase status name to its Status.
//
// Postcondition: Returns an error when name is unknown.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return Good, fmt.Errorf("unknown status %q", name)
}
