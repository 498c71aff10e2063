package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/journal"
	"github.com/cory-johannsen/skirmish/internal/game/party"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
	"github.com/cory-johannsen/skirmish/internal/game/world"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// Sound is a sound effect id.
type Sound int

const (
	SoundPCAttack Sound = iota
	SoundNPCAttack
	SoundPCStruck
	SoundNPCStruck
	SoundFlee
	SoundBlocked
	SoundPoison
	SoundSleep
	SoundMagic
)

// Music is a background track id.
type Music int

const (
	MusicCombat Music = iota
	MusicAmbient
)

// Renderer draws the current frame and the message log.
type Renderer interface {
	// Render redraws the current frame. It is idempotent.
	Render()
	// ShowMessage appends text to the message log.
	ShowMessage(text string)
}

// Audio plays fire-and-forget sounds and music.
type Audio interface {
	PlaySound(s Sound)
	PlayMusic(m Music)
}

// Overworld is the location stack a session sits on top of.
type Overworld interface {
	PushController(c world.Controller)
	PopController(c world.Controller)
	TopController() world.Controller
	EnterMap(m *world.Map)
	ExitToParentMap()
	FinishTurn()
	InDungeon() bool
	GroundAt(c grid.Coords) *tile.Tile
	AddObject(o *world.Object)
	RemoveObject(id string)
	SetFacing(d grid.Direction)
	Step(d grid.Direction)
	UsePortal(a world.PortalAction)
	StartDeath()
}

// GameContext carries every collaborator a session needs. It is passed to
// each session explicitly.
//
// Invariant: Party, World, Renderer, Audio, Catalog, Tiles, Dice, Settings,
// and Logger are non-nil. Planners, Scripts, Journal, and Sleep are optional.
type GameContext struct {
	Party    *party.Party
	World    Overworld
	Renderer Renderer
	Audio    Audio
	Catalog  *creature.Catalog
	Tiles    *tile.Tileset
	Dice     *dice.Roller
	Settings *config.CombatConfig
	Logger   *zap.Logger

	Planners *ai.Registry
	Scripts  *scripting.Manager
	Journal  journal.Journal
	// Sleep paces animation; nil uses time.Sleep.
	Sleep func(time.Duration)
	// Now stamps journal records; nil uses time.Now.
	Now func() time.Time
}

func (g *GameContext) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
