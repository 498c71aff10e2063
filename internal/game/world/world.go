package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
)

type overworldController struct{}

func (overworldController) Kind() ControllerKind { return ControllerOverworld }

// World is the overworld an encounter hands control back to.
//
// Invariant: len(maps) >= 1; the controller stack bottom is the overworld controller.
type World struct {
	maps     []*Map
	stack    Stack
	Position grid.Coords
	Facing   grid.Direction
	// Turns counts completed overworld turns.
	Turns  int
	Dead   bool
	Portal PortalAction
	logger *zap.Logger
}

// New creates a World standing on root at start.
//
// Precondition: root and logger must be non-nil.
func New(root *Map, start grid.Coords, logger *zap.Logger) *World {
	w := &World{maps: []*Map{root}, Position: start, Facing: grid.North, logger: logger}
	w.stack.Push(overworldController{})
	return w
}

// Current returns the map the party is on.
func (w *World) Current() *Map { return w.maps[len(w.maps)-1] }

// EnterMap pushes m as the current map.
func (w *World) EnterMap(m *Map) {
	w.maps = append(w.maps, m)
}

// ExitToParentMap returns to the previous map. The root map is never left.
func (w *World) ExitToParentMap() {
	if len(w.maps) > 1 {
		w.maps[len(w.maps)-1] = nil
		w.maps = w.maps[:len(w.maps)-1]
	}
}

// PushController places c on top of the controller stack.
func (w *World) PushController(c Controller) { w.stack.Push(c) }

// PopController removes c from the top of the controller stack.
func (w *World) PopController(c Controller) { w.stack.Pop(c) }

// TopController returns the controller receiving input.
func (w *World) TopController() Controller { return w.stack.Top() }

// ControllerDepth returns the controller stack depth.
func (w *World) ControllerDepth() int { return w.stack.Depth() }

// FinishTurn completes one overworld turn.
func (w *World) FinishTurn() {
	w.Turns++
	w.logger.Debug("overworld turn", zap.Int("turn", w.Turns))
}

// InDungeon reports whether the current map is a dungeon level.
func (w *World) InDungeon() bool { return w.Current().Kind == KindDungeon }

// GroundAt returns the current map's base tile at c, or nil off the map.
func (w *World) GroundAt(c grid.Coords) *tile.Tile { return w.Current().Grid.At(c) }

// AddObject places o on the current map.
func (w *World) AddObject(o *Object) {
	cur := w.Current()
	cur.Objects = append(cur.Objects, o)
	w.logger.Debug("object placed", zap.Stringer("kind", o.Kind), zap.Stringer("at", o.Coords))
}

// RemoveObject deletes the object with the given id from the current map.
// Unknown ids are ignored.
func (w *World) RemoveObject(id string) {
	cur := w.Current()
	for i, o := range cur.Objects {
		if o.ID == id {
			cur.Objects = append(cur.Objects[:i], cur.Objects[i+1:]...)
			return
		}
	}
}

// Object returns the object with the given id on the current map.
func (w *World) Object(id string) (*Object, bool) {
	for _, o := range w.Current().Objects {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// SetFacing turns the party.
func (w *World) SetFacing(d grid.Direction) { w.Facing = d }

// Step moves the party one cell, staying on the map.
func (w *World) Step(d grid.Direction) {
	next := w.Position.Step(d)
	if w.Current().Grid.InBounds(next) {
		w.Position = next
	}
}

// UsePortal triggers an altar exit.
func (w *World) UsePortal(a PortalAction) {
	w.Portal = a
	w.logger.Info("portal used", zap.Int("action", int(a)))
}

// StartDeath begins the party death sequence.
func (w *World) StartDeath() {
	w.Dead = true
	w.logger.Info("party has fallen")
}

// String summarises the world position for logs.
func (w *World) String() string {
	return fmt.Sprintf("%s%s facing %s", w.Current().ID, w.Position, w.Facing)
}
