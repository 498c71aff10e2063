package text

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/party"
)

// Terminal renders combat frames as colored text lines.
//
// Invariant: all writes to out are serialized.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	party   *party.Party
	session *combat.Session
}

// NewTerminal creates a Terminal writing to out.
//
// Precondition: out and p must be non-nil.
func NewTerminal(out io.Writer, p *party.Party) *Terminal {
	return &Terminal{out: out, party: p}
}

// Attach selects the session whose map Render draws. Passing nil detaches.
func (t *Terminal) Attach(s *combat.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = s
}

// Render draws the combat map, if a live session is attached, followed by
// the party roster.
func (t *Terminal) Render() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, t.frame())
}

// ShowMessage writes one message line.
func (t *Terminal) ShowMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.out, Colorize(BrightYellow, msg))
}

// WriteLine writes one plain line.
func (t *Terminal) WriteLine(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.out, line)
}

// Prompt writes the input prompt for label without a trailing newline.
func (t *Terminal) Prompt(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, Colorf(BrightCyan, "[%s]> ", label))
}

func (t *Terminal) frame() string {
	var b strings.Builder
	b.WriteString("\n")
	if s := t.session; s != nil && !s.Released() {
		for _, row := range s.Map().Rows() {
			b.WriteString(colorRow(row))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	focus := -1
	if t.session != nil && !t.session.Released() {
		focus = t.session.Focus()
	}
	for i := range t.party.Size() {
		b.WriteString(memberLine(i, t.party.Member(i), i == focus))
		b.WriteString("\n")
	}
	b.WriteString(Colorf(Dim, "Food: %d  Gold: %d", t.party.Food(), t.party.Gold()))
	b.WriteString("\n")
	return b.String()
}

func colorRow(row string) string {
	var b strings.Builder
	for _, r := range row {
		switch {
		case unicode.IsDigit(r):
			b.WriteString(Colorize(BrightGreen, string(r)))
		case unicode.IsUpper(r):
			b.WriteString(Colorize(BrightRed, string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func memberLine(slot int, m *party.Member, focused bool) string {
	marker := " "
	if focused {
		marker = Colorize(Bold, ">")
	}
	color := White
	switch m.Status() {
	case condition.Dead:
		color = Dim
	case condition.Poisoned:
		color = Green
	case condition.Asleep:
		color = Blue
	}
	return fmt.Sprintf("%s%d %s", marker, slot+1,
		Colorf(color, "%-12s HP %3d/%-3d %s", m.Name, m.HP, m.MaxHP, m.Status()))
}

var soundNames = map[combat.Sound]string{
	combat.SoundPCAttack:  "pc_attack",
	combat.SoundNPCAttack: "npc_attack",
	combat.SoundPCStruck:  "pc_struck",
	combat.SoundNPCStruck: "npc_struck",
	combat.SoundFlee:      "flee",
	combat.SoundBlocked:   "blocked",
	combat.SoundPoison:    "poison",
	combat.SoundSleep:     "sleep",
	combat.SoundMagic:     "magic",
}

// LogAudio stands in for a sound device by logging each cue at Debug.
type LogAudio struct {
	Logger *zap.Logger
}

// PlaySound logs the sound cue.
func (a LogAudio) PlaySound(s combat.Sound) {
	name, ok := soundNames[s]
	if !ok {
		name = fmt.Sprintf("sound_%d", int(s))
	}
	a.Logger.Debug("sound", zap.String("cue", name))
}

// PlayMusic logs the track change.
func (a LogAudio) PlayMusic(m combat.Music) {
	track := "ambient"
	if m == combat.MusicCombat {
		track = "combat"
	}
	a.Logger.Debug("music", zap.String("track", track))
}
