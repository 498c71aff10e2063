package combat_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

const band = `
food: 50
members:
  - name: Avatar
    str: 30
    dex: 30
    max_hp: 80
  - name: Iolo
    str: 10
    dex: 20
    max_hp: 60
    weapon: oil
  - name: Shamino
    str: 20
    dex: 45
    max_hp: 70
stock:
  oil: 4
`

func randomCommand(rt *rapid.T) combat.Command {
	dir := rapid.SampledFrom(grid.Cardinals[:]).Draw(rt, "dir")
	switch rapid.IntRange(0, 9).Draw(rt, "kind") {
	case 0, 1, 2:
		return combat.Command{Kind: combat.CommandMove, Dir: dir}
	case 3, 4, 5, 6:
		return combat.Command{Kind: combat.CommandAttack, Dir: dir, Distance: rapid.IntRange(1, 5).Draw(rt, "distance")}
	case 7:
		return combat.Command{Kind: combat.CommandSpeed, Delta: rapid.SampledFrom([]int{-1, 1}).Draw(rt, "delta")}
	default:
		return combat.Command{Kind: combat.CommandPass}
	}
}

// Every exit path leaves the overworld with its own controller on top and
// its own map current.
func TestSession_ExitPathsLeaveStackBalanced(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness(t, band, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		var creatureStarts, partyStarts []grid.Coords
		for i := range 16 {
			creatureStarts = append(creatureStarts, grid.Coords{X: i % 8, Y: i / 8})
		}
		for i := range 8 {
			partyStarts = append(partyStarts, grid.Coords{X: i, Y: 7})
		}
		id := rapid.SampledFrom([]int{10, 40, 41}).Draw(rt, "trigger")
		s, _ := h.begin(t, id, h.layout(openRows(8, 8), partyStarts, creatureStarts))

		for range 200 {
			if s.State() == combat.Terminated {
				break
			}
			s.Handle(randomCommand(rt))
		}
		if s.State() != combat.Terminated {
			s.End(false)
		}

		if s.Outcome() == combat.OutcomeNone {
			rt.Fatalf("terminated session reports no outcome")
		}
		if d := h.world.ControllerDepth(); d != 1 {
			rt.Fatalf("controller depth %d after %s", d, s.Outcome())
		}
		if id := h.world.Current().ID; id != "britannia" {
			rt.Fatalf("current map %q after %s", id, s.Outcome())
		}
		if !s.Released() {
			rt.Fatalf("session not released by the stack")
		}
		if (s.Outcome() == combat.Defeat) != h.world.Dead {
			rt.Fatalf("death sequence mismatch: outcome %s dead %v", s.Outcome(), h.world.Dead)
		}
	})
}
