package condition

import "fmt"

// AuraKind is a party-wide magical effect.
type AuraKind int

const (
	AuraNone AuraKind = iota
	AuraQuickness
	AuraProtection
	AuraNegate
	AuraJinx
)

// String returns the aura name.
func (k AuraKind) String() string {
	switch k {
	case AuraNone:
		return "none"
	case AuraQuickness:
		return "quickness"
	case AuraProtection:
		return "protection"
	case AuraNegate:
		return "negate"
	case AuraJinx:
		return "jinx"
	default:
		return fmt.Sprintf("aura(%d)", int(k))
	}
}

// Aura is the active party-wide effect with a countdown in rounds.
//
// Invariant: Kind == AuraNone iff Duration == 0.
type Aura struct {
	Kind     AuraKind
	Duration int
}

// Set activates kind for duration rounds. A non-positive duration clears the aura.
//
// Postcondition: Is(kind) is true iff duration > 0.
func (a *Aura) Set(kind AuraKind, duration int) {
	if duration <= 0 || kind == AuraNone {
		a.Kind, a.Duration = AuraNone, 0
		return
	}
	a.Kind, a.Duration = kind, duration
}

// Is reports whether kind is currently active.
func (a *Aura) Is(kind AuraKind) bool {
	return a.Kind == kind && a.Duration > 0
}

// PassTurn counts the aura down by one round, clearing it at zero.
func (a *Aura) PassTurn() {
	if a.Duration <= 0 {
		return
	}
	a.Duration--
	if a.Duration == 0 {
		a.Kind = AuraNone
	}
}
