// Package party holds the persistent party roster that combat reads and mutates.
package party

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// MaxMembers is the largest party the arena has start positions for.
const MaxMembers = 8

// MovesPerRound is the movement allowance restored by EndTurn.
const MovesPerRound = 1

// KarmaCap bounds every virtue.
const KarmaCap = 99

// Virtue is one reputation axis.
type Virtue int

const (
	Honesty Virtue = iota
	Compassion
	Valor
	Justice
	Sacrifice
	Honor
	Spirituality
	Humility
	virtueCount
)

var virtueNames = [...]string{"honesty", "compassion", "valor", "justice", "sacrifice", "honor", "spirituality", "humility"}

// String returns the lowercase virtue name.
func (v Virtue) String() string {
	if v < 0 || v >= virtueCount {
		return fmt.Sprintf("virtue(%d)", int(v))
	}
	return virtueNames[v]
}

// ParseVirtue maps a lowercase name to its Virtue.
func ParseVirtue(name string) (Virtue, error) {
	for i, n := range virtueNames {
		if n == name {
			return Virtue(i), nil
		}
	}
	return 0, fmt.Errorf("unknown virtue %q", name)
}

// KarmaAction is a deed with reputation consequences.
type KarmaAction int

const (
	KilledEvil KarmaAction = iota
	FledEvil
	FledGood
)

// String returns the action name.
func (a KarmaAction) String() string {
	switch a {
	case KilledEvil:
		return "killed_evil"
	case FledEvil:
		return "fled_evil"
	case FledGood:
		return "fled_good"
	default:
		return fmt.Sprintf("karma_action(%d)", int(a))
	}
}

// Party is the roster plus shared resources.
//
// Invariant: 0 < len(members) <= MaxMembers; -1 <= active < len(members).
type Party struct {
	members []*Member
	food    int
	gold    int
	karma   [virtueCount]int
	stock   map[string]int
	aura    condition.Aura
	active  int
	gear    *inventory.Registry
	logger  *zap.Logger
}

// Size returns the number of members, living or not.
func (p *Party) Size() int { return len(p.members) }

// Member returns the member in slot i.
//
// Precondition: 0 <= i < Size().
func (p *Party) Member(i int) *Member { return p.members[i] }

// LivingCount returns the number of members that have not died.
func (p *Party) LivingCount() int {
	n := 0
	for _, m := range p.members {
		if m.Alive() {
			n++
		}
	}
	return n
}

// IsDead reports whether every member has died.
func (p *Party) IsDead() bool { return p.LivingCount() == 0 }

// Food returns the remaining rations.
func (p *Party) Food() int { return p.food }

// AdjustFood adds delta rations, flooring at zero.
func (p *Party) AdjustFood(delta int) {
	p.food = max(p.food+delta, 0)
}

// Gold returns the party's gold.
func (p *Party) Gold() int { return p.gold }

// AddGold adds n gold pieces.
func (p *Party) AddGold(n int) {
	if n > 0 {
		p.gold += n
	}
}

// Karma returns the value of one virtue.
func (p *Party) Karma(v Virtue) int { return p.karma[v] }

// AdjustKarma applies the reputation consequence of a deed.
//
// Postcondition: every virtue stays within [0, KarmaCap].
func (p *Party) AdjustKarma(a KarmaAction) {
	switch a {
	case KilledEvil:
		p.shiftKarma(Valor, 1)
	case FledEvil:
		p.shiftKarma(Valor, -2)
	case FledGood:
		p.shiftKarma(Compassion, 1)
		p.shiftKarma(Justice, 1)
	default:
		panic(fmt.Sprintf("party: unknown karma action %d", int(a)))
	}
	p.logger.Debug("karma adjusted", zap.Stringer("action", a))
}

func (p *Party) shiftKarma(v Virtue, delta int) {
	p.karma[v] = min(max(p.karma[v]+delta, 0), KarmaCap)
}

// Aura returns the party-wide aura for inspection and countdown.
func (p *Party) Aura() *condition.Aura { return &p.aura }

// EndTurn restores every living member's movement allowance.
func (p *Party) EndTurn() {
	for _, m := range p.members {
		if m.Alive() {
			m.Moves = MovesPerRound
		}
	}
}

// ActivePlayer returns the forced focus slot, or -1 when none is set.
func (p *Party) ActivePlayer() int { return p.active }

// SetActivePlayer forces focus onto slot i; any out-of-range i clears it.
func (p *Party) SetActivePlayer(i int) {
	if i < 0 || i >= len(p.members) {
		p.active = -1
		return
	}
	p.active = i
}

// WeaponStock returns how many of a weapon the party carries.
func (p *Party) WeaponStock(id string) int { return p.stock[id] }

// LoseWeapon consumes one of member i's equipped weapon and reports whether
// any remain. When the last one goes, the member falls back to bare hands.
//
// Postcondition: WeaponStock decreases by exactly one unless the member
// already fights bare-handed.
func (p *Party) LoseWeapon(i int) bool {
	m := p.members[i]
	w := m.Weapon()
	if w == nil || w.ID == inventory.HandsID {
		return true
	}
	if p.stock[w.ID] > 0 {
		p.stock[w.ID]--
	}
	if p.stock[w.ID] > 0 {
		return true
	}
	m.Equip(p.gear.Hands())
	p.logger.Info("weapon exhausted", zap.String("member", m.Name), zap.String("weapon", w.ID))
	return false
}
