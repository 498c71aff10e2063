// Package dice provides the randomness abstraction shared by every combat
// decision, plus dice-expression rolls for damage and loot.
package dice

import (
	"fmt"
	"strings"
)

// Source is the randomness provider for every combat draw.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// OneIn reports true with probability 1/n.
//
// Precondition: n > 0; src must be non-nil.
func OneIn(src Source, n int) bool {
	return src.Intn(n) == 0
}

// CoinFlip reports true with probability 1/2.
func CoinFlip(src Source) bool {
	return src.Intn(2) == 0
}

// RollResult records the dice drawn for one expression.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "2d6+3: 4+5+3 = 12".
func (r RollResult) String() string {
	parts := make([]string, 0, len(r.Dice)+1)
	for _, d := range r.Dice {
		parts = append(parts, fmt.Sprint(d))
	}
	if r.Modifier != 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprint(r.Modifier))
	}
	return fmt.Sprintf("%s: %s = %d", r.Expression, strings.Join(parts, "+"), r.Total())
}
