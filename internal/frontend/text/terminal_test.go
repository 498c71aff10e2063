package text_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/frontend/text"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/party"
)

const gear = `
weapons:
  - id: hands
    name: Hands
    damage: 1d8
`

const roster = `
food: 12
gold: 30
members:
  - name: Avatar
    class: fighter
    max_hp: 200
  - name: Iolo
    class: bard
    max_hp: 150
    hp: 75
    status: asleep
`

func newParty(t *testing.T) *party.Party {
	t.Helper()
	reg := inventory.NewRegistry()
	require.NoError(t, reg.LoadBytes([]byte(gear)))
	p, err := party.LoadFromBytes([]byte(roster), reg, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestTerminal_RenderWithoutSession(t *testing.T) {
	var buf bytes.Buffer
	term := text.NewTerminal(&buf, newParty(t))
	term.Render()

	out := text.StripANSI(buf.String())
	assert.Contains(t, out, "1 Avatar")
	assert.Contains(t, out, "2 Iolo")
	assert.Contains(t, out, "75/150")
	assert.Contains(t, out, "asleep")
	assert.Contains(t, out, "Food: 12  Gold: 30")
	assert.NotContains(t, out, ">")
}

func TestTerminal_ShowMessage(t *testing.T) {
	var buf bytes.Buffer
	term := text.NewTerminal(&buf, newParty(t))
	term.ShowMessage("Victory!")
	assert.Equal(t, "Victory!\n", text.StripANSI(buf.String()))
}

func TestColorize(t *testing.T) {
	assert.Equal(t, text.Red+"x"+text.Reset, text.Colorize(text.Red, "x"))
	assert.Equal(t, text.Cyan+"n=3"+text.Reset, text.Colorf(text.Cyan, "n=%d", 3))
}

// Property: StripANSI undoes Colorize for any plain text.
func TestStripANSI_Property(t *testing.T) {
	colors := []string{text.Red, text.Green, text.Bold, text.BrightYellow}
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[a-zA-Z0-9 !?.]{0,40}`).Draw(rt, "s")
		c := rapid.SampledFrom(colors).Draw(rt, "color")
		if got := text.StripANSI(text.Colorize(c, s)); got != s {
			rt.Fatalf("StripANSI(Colorize(%q)) = %q", s, got)
		}
	})
}

func TestLogAudio(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := text.LogAudio{Logger: zap.New(core)}
	a.PlaySound(combat.SoundFlee)
	a.PlayMusic(combat.MusicCombat)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "flee", entries[0].ContextMap()["cue"])
	assert.Equal(t, "combat", entries[1].ContextMap()["track"])
	assert.True(t, strings.HasPrefix(entries[0].Message, "sound"))
}
