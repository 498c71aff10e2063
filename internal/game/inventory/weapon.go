// Package inventory provides weapon and armour definitions and their registry.
package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
)

// HandsID is the weapon every party member falls back to.
const HandsID = "hands"

// WeaponDef defines the static properties of a weapon loaded from YAML.
type WeaponDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Damage string `yaml:"damage"`
	// Range is the farthest cell the weapon reaches; 1 is melee.
	Range int `yaml:"range"`
	// AbsoluteRange weapons only connect at exactly Range cells.
	AbsoluteRange  bool `yaml:"absolute_range"`
	ChooseDistance bool `yaml:"choose_distance"`
	LoseWhenUsed   bool `yaml:"lose_when_used"`
	// LoseWhenRanged weapons are lost unless they hit an adjacent target.
	LoseWhenRanged bool `yaml:"lose_when_ranged"`
	// LeavesTile names a hazard tile left where the attack ends.
	LeavesTile string `yaml:"leaves_tile"`
	// LeavesTileTTL is the hazard lifetime in turns; zero means permanent.
	LeavesTileTTL        int    `yaml:"leaves_tile_ttl"`
	Returns              bool   `yaml:"returns"`
	ShowTravel           bool   `yaml:"show_travel"`
	Magic                bool   `yaml:"magic"`
	AttackThroughObjects bool   `yaml:"attack_through_objects"`
	AlwaysHits           bool   `yaml:"always_hits"`
	HitTile              string `yaml:"hit_tile"`
	MissTile             string `yaml:"miss_tile"`

	damage dice.Expression
}

// DamageExpr returns the parsed damage expression.
func (w *WeaponDef) DamageExpr() dice.Expression { return w.damage }

// IsMelee reports whether the weapon only reaches adjacent cells.
func (w *WeaponDef) IsMelee() bool { return w.Range <= 1 }

// Validate checks that the WeaponDef satisfies its invariants and fills defaults.
//
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid; on success Range >= 1
// and HitTile and MissTile are set.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.Range < 0 {
		errs = append(errs, fmt.Errorf("range must be >= 0, got %d", w.Range))
	}
	if w.LeavesTileTTL < 0 {
		errs = append(errs, errors.New("leaves_tile_ttl must not be negative"))
	}
	if w.AbsoluteRange && w.ChooseDistance {
		errs = append(errs, errors.New("absolute_range and choose_distance are exclusive"))
	}
	expr, err := dice.Parse(w.Damage)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q: %w", w.ID, errors.Join(errs...))
	}
	w.damage = expr
	if w.Range == 0 {
		w.Range = 1
	}
	if w.HitTile == "" {
		w.HitTile = tile.HitFlash
	}
	if w.MissTile == "" {
		w.MissTile = tile.MissFlash
	}
	return nil
}

// TileNames lists every tile the weapon refers to.
func (w *WeaponDef) TileNames() []string {
	return []string{w.HitTile, w.MissTile, w.LeavesTile}
}
