package grid

// TracePath lists the cells stepped through from origin along mask, from
// minRange to maxRange steps inclusive. Tracing stops before the first
// out-of-bounds cell and before the first cell for which passable reports
// false; a nil passable blocks nothing. Occupancy is not considered.
//
// Precondition: 1 <= minRange.
// Postcondition: len(result) <= maxRange-minRange+1 and result[i] equals
// origin + (minRange+i)*delta(mask). An invalid mask yields nil.
func (g *Grid) TracePath(origin Coords, mask Mask, minRange, maxRange int, passable func(Coords) bool) []Coords {
	dx, dy, ok := mask.Delta()
	if !ok || maxRange < minRange {
		return nil
	}
	var path []Coords
	for dist := minRange; dist <= maxRange; dist++ {
		c := Coords{X: origin.X + dist*dx, Y: origin.Y + dist*dy}
		if !g.InBounds(c) {
			break
		}
		if passable != nil && !passable(c) {
			break
		}
		path = append(path, c)
	}
	return path
}

// FirstStep returns the first direction of a shortest orthogonal route from
// start to goal through cells accepted by canEnter. The goal cell itself is
// always enterable so an occupied target can be approached.
//
// Postcondition: ok is false when no route exists or start == goal.
func (g *Grid) FirstStep(start, goal Coords, canEnter func(Coords) bool) (dir Direction, ok bool) {
	if start == goal || !g.InBounds(goal) {
		return None, false
	}
	first := make(map[Coords]Direction, g.Width*g.Height)
	first[start] = None
	queue := []Coords{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range Cardinals {
			next := cur.Step(d)
			if _, seen := first[next]; seen || !g.InBounds(next) {
				continue
			}
			step := first[cur]
			if cur == start {
				step = d
			}
			if next == goal {
				return step, true
			}
			if !canEnter(next) {
				continue
			}
			first[next] = step
			queue = append(queue, next)
		}
	}
	return None, false
}
