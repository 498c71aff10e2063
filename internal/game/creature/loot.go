package creature

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// ChestLoot describes what a chest left by a creature holds.
type ChestLoot struct {
	Gold string `yaml:"gold"`

	gold dice.Expression
}

// Validate parses the gold expression.
//
// Postcondition: Returns nil iff Gold is empty or a valid dice expression.
func (c *ChestLoot) Validate() error {
	if c.Gold == "" {
		c.Gold = "0"
	}
	expr, err := dice.Parse(c.Gold)
	if err != nil {
		return fmt.Errorf("chest gold: %w", err)
	}
	if expr.Min() < 0 {
		return fmt.Errorf("chest gold %q can roll below zero", c.Gold)
	}
	c.gold = expr
	return nil
}

// RollGold draws the chest's gold.
//
// Precondition: Validate has succeeded; src must be non-nil.
// Postcondition: result >= 0; a nil ChestLoot holds no gold.
func (c *ChestLoot) RollGold(src dice.Source) int {
	if c == nil {
		return 0
	}
	return c.gold.Roll(src).Total()
}
