package command

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

var (
	// ErrEmpty is returned for a blank input line.
	ErrEmpty = errors.New("empty command")
	// ErrUnknown is returned when no command or alias matches.
	ErrUnknown = errors.New("unknown command")
)

// Binding is an input line resolved against the registry.
type Binding struct {
	Command *Command
	// Action is the session command; valid when Session is true.
	Action  combat.Command
	Session bool
}

// Bind parses line and resolves it into a session command or a local handler.
//
// Postcondition: a nil error implies Command is non-nil; Session is true iff
// the handler drives the combat session.
func (r *Registry) Bind(line string) (Binding, error) {
	pr := Parse(line)
	if pr.Command == "" {
		return Binding{}, ErrEmpty
	}
	cmd, ok := r.Resolve(pr.Command)
	if !ok {
		return Binding{}, fmt.Errorf("%w: %q", ErrUnknown, pr.Command)
	}
	b := Binding{Command: cmd, Session: true}
	switch cmd.Handler {
	case HandlerMove:
		dir, err := grid.ParseDirection(cmd.Name)
		if err != nil {
			return Binding{}, fmt.Errorf("%s: %w", cmd.Name, err)
		}
		b.Action = combat.Command{Kind: combat.CommandMove, Dir: dir}
	case HandlerAttack:
		action, err := bindAttack(pr.Args)
		if err != nil {
			return Binding{}, err
		}
		b.Action = action
	case HandlerPass:
		b.Action = combat.Command{Kind: combat.CommandPass}
	case HandlerSpeed:
		action, err := bindSpeed(pr.Args)
		if err != nil {
			return Binding{}, err
		}
		b.Action = action
	case HandlerFocus:
		action, err := bindFocus(pr.Args)
		if err != nil {
			return Binding{}, err
		}
		b.Action = action
	case HandlerAbort:
		b.Action = combat.Command{Kind: combat.CommandAbort}
	case HandlerDestroy:
		b.Action = combat.Command{Kind: combat.CommandDestroyAll}
	default:
		b.Session = false
	}
	return b, nil
}

func bindAttack(args []string) (combat.Command, error) {
	if len(args) == 0 {
		return combat.Command{}, errors.New("attack: direction required")
	}
	dir, err := grid.ParseDirection(args[0])
	if err != nil || dir == grid.None {
		return combat.Command{}, fmt.Errorf("attack: bad direction %q", args[0])
	}
	action := combat.Command{Kind: combat.CommandAttack, Dir: dir}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return combat.Command{}, fmt.Errorf("attack: distance: %w", err)
		}
		action.Distance = n
	}
	return action, nil
}

func bindSpeed(args []string) (combat.Command, error) {
	action := combat.Command{Kind: combat.CommandSpeed}
	if len(args) == 0 {
		return combat.Command{}, errors.New("speed: expected +, - or reset")
	}
	switch args[0] {
	case "+", "up":
		action.Delta = 1
	case "-", "down":
		action.Delta = -1
	case "reset", "default":
		action.Reset = true
	default:
		return combat.Command{}, fmt.Errorf("speed: unknown argument %q", args[0])
	}
	return action, nil
}

// bindFocus maps a 1-based slot to a party index. "none" clears the focus.
func bindFocus(args []string) (combat.Command, error) {
	if len(args) == 0 || args[0] == "none" {
		return combat.Command{Kind: combat.CommandFocus, Slot: -1}, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return combat.Command{}, fmt.Errorf("focus: slot: %w", err)
	}
	return combat.Command{Kind: combat.CommandFocus, Slot: n - 1}, nil
}
