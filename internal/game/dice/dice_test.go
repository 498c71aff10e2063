package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// TestRollResult_String verifies the audit rendering.
func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3: 4+5+3 = 12", r.String())
}

func TestParse_Forms(t *testing.T) {
	cases := map[string]dice.Expression{
		"d8":     {Raw: "d8", Count: 1, Sides: 8},
		"2d6":    {Raw: "2d6", Count: 2, Sides: 6},
		"3d4+2":  {Raw: "3d4+2", Count: 3, Sides: 4, Modifier: 2},
		"1D10-1": {Raw: "1D10-1", Count: 1, Sides: 10, Modifier: -1},
		"7":      {Raw: "7", Modifier: 7},
	}
	for in, want := range cases {
		got, err := dice.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "d", "0d6", "2d1", "2x6", "d6+", "kh"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestCryptoSource_PanicsOnNonPositive(t *testing.T) {
	assert.PanicsWithValue(t, "dice: Intn called with n <= 0", func() {
		dice.NewCryptoSource().Intn(0)
	})
}

// TestSeededSource_Deterministic verifies two equal seeds yield equal draws.
func TestSeededSource_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		a, b := dice.NewSeededSource(seed), dice.NewSeededSource(seed)
		for i := 0; i < 32; i++ {
			assert.Equal(rt, a.Intn(256), b.Intn(256))
		}
	})
}

// TestExpression_RollWithinBounds verifies Min <= Total <= Max for any expression.
func TestExpression_RollWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := dice.Expression{
			Raw:      "xdy",
			Count:    rapid.IntRange(1, 10).Draw(rt, "count"),
			Sides:    rapid.IntRange(2, 20).Draw(rt, "sides"),
			Modifier: rapid.IntRange(-5, 5).Draw(rt, "mod"),
		}
		total := e.Roll(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))).Total()
		assert.GreaterOrEqual(rt, total, e.Min())
		assert.LessOrEqual(rt, total, e.Max())
	})
}

func TestRoller_LogsRolls(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewRoller(dice.NewSeededSource(7), zap.New(core))

	res, err := r.RollExpr("2d6")
	require.NoError(t, err)
	require.Len(t, res.Dice, 2)

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "2d6", entries[0].ContextMap()["expression"])
}

func TestRoller_IsSource(t *testing.T) {
	var src dice.Source = dice.NewRoller(dice.NewSeededSource(1), zap.NewNop())
	for i := 0; i < 100; i++ {
		v := src.Intn(3)
		assert.True(t, v >= 0 && v < 3)
	}
}
