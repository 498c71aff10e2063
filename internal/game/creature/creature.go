package creature

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Creature is a live combatant created from a Template for one encounter.
type Creature struct {
	ID       string
	Template *Template
	HP       int
	MaxHP    int
	status   condition.Status
}

// New creates a creature with starting hit points rand[0,base) | base/2.
//
// Precondition: tmpl has passed Validate; src must be non-nil.
// Postcondition: 1 <= HP == MaxHP < 2*BaseHP; Status() == condition.Good.
func New(tmpl *Template, src dice.Source) *Creature {
	hp := src.Intn(tmpl.BaseHP) | (tmpl.BaseHP / 2)
	if hp < 1 {
		hp = 1
	}
	return &Creature{
		ID:       uuid.New().String(),
		Template: tmpl,
		HP:       hp,
		MaxHP:    hp,
	}
}

// Name returns the template name.
func (c *Creature) Name() string { return c.Template.Name }

// Status returns the current status.
func (c *Creature) Status() condition.Status { return c.status }

// SetStatus replaces the current status.
func (c *Creature) SetStatus(s condition.Status) { c.status = s }

// Alive reports whether the creature can still fight or move.
func (c *Creature) Alive() bool { return c.status != condition.Dead && c.status != condition.Fled }

// ApplyDamage subtracts n hit points and reports whether the creature survived.
//
// Postcondition: HP >= 0; Status() == condition.Dead iff the result is false.
func (c *Creature) ApplyDamage(n int) bool {
	if n < 0 {
		n = 0
	}
	c.HP -= n
	if c.HP <= 0 {
		c.HP = 0
		c.status = condition.Dead
		return false
	}
	return true
}

// PutToSleep sends a living creature to sleep.
func (c *Creature) PutToSleep() {
	if c.Alive() {
		c.status = condition.Asleep
	}
}

// WakeUp returns a sleeping creature to its normal state.
func (c *Creature) WakeUp() {
	if c.status == condition.Asleep {
		c.status = condition.Good
	}
}

// Wounded reports whether the creature is below a quarter of its starting hit points.
func (c *Creature) Wounded() bool {
	return c.HP*4 < c.MaxHP
}

// ShouldFlee reports whether the creature breaks off the fight this round.
func (c *Creature) ShouldFlee() bool {
	return c.Alive() && !c.Template.Stationary && c.Wounded()
}
