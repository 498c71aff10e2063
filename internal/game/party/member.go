package party

import (
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// MaxDamage caps a single party attack.
const MaxDamage = 255

// Member is one persistent party member. Combat changes only its hit points,
// status, experience, and equipped weapon.
type Member struct {
	Name  string
	Class string
	Str   int
	Dex   int
	HP    int
	MaxHP int
	XP    int
	// Moves is the movement allowance left this round.
	Moves int

	status   condition.Status
	// poisoned survives sleep so waking restores the poison.
	poisoned bool
	weapon   *inventory.WeaponDef
	armor    *inventory.ArmorDef
}

// Status returns the current status.
func (m *Member) Status() condition.Status { return m.status }

// SetStatus replaces the current status.
func (m *Member) SetStatus(s condition.Status) { m.status, m.poisoned = s, false }

// IsPoisoned reports whether the member carries poison, asleep or not.
func (m *Member) IsPoisoned() bool {
	return m.status == condition.Poisoned || (m.status == condition.Asleep && m.poisoned)
}

// IsDisabled reports whether the member cannot take a turn.
func (m *Member) IsDisabled() bool { return m.status.Incapacitated() }

// Alive reports whether the member has not died.
func (m *Member) Alive() bool { return m.status != condition.Dead }

// Weapon returns the equipped weapon.
func (m *Member) Weapon() *inventory.WeaponDef { return m.weapon }

// Equip replaces the equipped weapon.
//
// Precondition: w must be non-nil.
func (m *Member) Equip(w *inventory.WeaponDef) { m.weapon = w }

// Defense returns the armour defense, zero when unarmoured.
func (m *Member) Defense() int {
	if m.armor == nil {
		return 0
	}
	return m.armor.Defense
}

// ApplyDamage subtracts n hit points and reports whether the member survived.
//
// Postcondition: HP >= 0; Status() == condition.Dead iff the result is false.
func (m *Member) ApplyDamage(n int) bool {
	if !m.Alive() {
		return false
	}
	if n > 0 {
		m.HP -= n
	}
	if m.HP <= 0 {
		m.HP = 0
		m.status = condition.Dead
		return false
	}
	return true
}

// Poison marks a healthy member poisoned and reports whether anything changed.
func (m *Member) Poison() bool {
	if m.status != condition.Good {
		return false
	}
	m.status = condition.Poisoned
	return true
}

// PutToSleep sends a living member to sleep. A poisoned sleeper stays
// poisoned underneath.
func (m *Member) PutToSleep() {
	if !m.Alive() || m.status == condition.Fled || m.status == condition.Asleep {
		return
	}
	m.poisoned = m.status == condition.Poisoned
	m.status = condition.Asleep
}

// WakeUp returns a sleeping member to the state it fell asleep in.
//
// Postcondition: a member poisoned before sleeping is poisoned again.
func (m *Member) WakeUp() {
	if m.status != condition.Asleep {
		return
	}
	m.status = condition.Good
	if m.poisoned {
		m.status = condition.Poisoned
	}
	m.poisoned = false
}

// AttackDamage returns the damage cap for one blow: weapon roll plus strength.
func (m *Member) AttackDamage(roll int) int {
	return min(roll+m.Str, MaxDamage)
}

// AwardXP adds experience for a kill.
func (m *Member) AwardXP(n int) {
	if n > 0 {
		m.XP += n
	}
}
