package grid

import "github.com/cory-johannsen/skirmish/internal/game/tile"

// Permanent is the TTL of an annotation that never decays.
const Permanent = -1

// Annotation overlays a tile on one cell.
type Annotation struct {
	Coords Coords
	Tile   *tile.Tile
	// TTL counts remaining turns; Permanent never expires.
	TTL int
	// Visual annotations are flashes that never act as ground.
	Visual bool
}

// Annotations is the ordered overlay set of an arena. Later annotations sit
// on top of earlier ones.
type Annotations struct {
	list []*Annotation
}

// Add places an overlay and returns its handle for later removal.
//
// Precondition: t must be non-nil.
func (a *Annotations) Add(c Coords, t *tile.Tile, ttl int, visual bool) *Annotation {
	ann := &Annotation{Coords: c, Tile: t, TTL: ttl, Visual: visual}
	a.list = append(a.list, ann)
	return ann
}

// Remove deletes the given handle. Removing an unknown handle is a no-op.
func (a *Annotations) Remove(ann *Annotation) {
	for i, cur := range a.list {
		if cur == ann {
			a.list = append(a.list[:i], a.list[i+1:]...)
			return
		}
	}
}

// At returns the overlays on c, bottom first.
func (a *Annotations) At(c Coords) []*Annotation {
	var out []*Annotation
	for _, ann := range a.list {
		if ann.Coords == c {
			out = append(out, ann)
		}
	}
	return out
}

// Ground returns the topmost non-visual overlay tile on c, or nil.
func (a *Annotations) Ground(c Coords) *tile.Tile {
	for i := len(a.list) - 1; i >= 0; i-- {
		if ann := a.list[i]; ann.Coords == c && !ann.Visual {
			return ann.Tile
		}
	}
	return nil
}

// Top returns the topmost overlay tile on c, visual or not, or nil.
func (a *Annotations) Top(c Coords) *tile.Tile {
	for i := len(a.list) - 1; i >= 0; i-- {
		if a.list[i].Coords == c {
			return a.list[i].Tile
		}
	}
	return nil
}

// Len returns the number of live overlays.
func (a *Annotations) Len() int { return len(a.list) }

// PassTurn ages every decaying overlay by one turn and drops those that expire.
//
// Postcondition: no overlay with TTL == 0 remains; Permanent overlays are untouched.
func (a *Annotations) PassTurn() {
	kept := a.list[:0]
	for _, ann := range a.list {
		if ann.TTL != Permanent {
			ann.TTL--
			if ann.TTL <= 0 {
				continue
			}
		}
		kept = append(kept, ann)
	}
	clear(a.list[len(kept):])
	a.list = kept
}
