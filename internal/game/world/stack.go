package world

import "fmt"

// ControllerKind tags what sits on the controller stack.
type ControllerKind int

const (
	ControllerOverworld ControllerKind = iota
	ControllerCombat
)

// Controller receives input while it is on top of the stack.
type Controller interface {
	Kind() ControllerKind
}

// Releaser is implemented by controllers that hold resources until popped.
type Releaser interface {
	Release()
}

// Stack owns the controllers layered on top of each other. A popped
// controller is released and dropped; it never frees itself.
type Stack struct {
	frames []Controller
}

// Push places c on top.
//
// Precondition: c must be non-nil.
func (s *Stack) Push(c Controller) {
	s.frames = append(s.frames, c)
}

// Pop removes c from the top and releases it.
//
// Precondition: c is the current top. A mismatch is a logic error and panics.
func (s *Stack) Pop(c Controller) {
	n := len(s.frames)
	if n == 0 || s.frames[n-1] != c {
		panic(fmt.Sprintf("world: pop of controller that is not on top (depth %d)", n))
	}
	s.frames[n-1] = nil
	s.frames = s.frames[:n-1]
	if r, ok := c.(Releaser); ok {
		r.Release()
	}
}

// Top returns the current controller, or nil when the stack is empty.
func (s *Stack) Top() Controller {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of stacked controllers.
func (s *Stack) Depth() int { return len(s.frames) }
