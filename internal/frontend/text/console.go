package text

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/command"
)

// Console reads command lines and drives an attached combat session.
type Console struct {
	in       *bufio.Scanner
	term     *Terminal
	registry *command.Registry
	session  *combat.Session
	logger   *zap.Logger
	stopped  atomic.Bool
}

// NewConsole creates a Console reading from in and drawing on term.
//
// Precondition: in, term, registry, and logger must be non-nil.
func NewConsole(in io.Reader, term *Terminal, registry *command.Registry, logger *zap.Logger) *Console {
	return &Console{
		in:       bufio.NewScanner(in),
		term:     term,
		registry: registry,
		logger:   logger,
	}
}

// Attach directs session commands at s and points the renderer at its map.
func (c *Console) Attach(s *combat.Session) {
	c.session = s
	c.term.Attach(s)
}

// Stop makes Run return after the line being read.
func (c *Console) Stop() { c.stopped.Store(true) }

// localHandlerFunc handles a command that does not drive the session. It
// reports whether the console should exit.
type localHandlerFunc func(c *Console, parsed command.ParseResult) bool

// LocalHandlers returns the handlers for commands answered by the console itself.
func LocalHandlers() map[string]localHandlerFunc {
	return localHandlerMap
}

var localHandlerMap = map[string]localHandlerFunc{
	command.HandlerLook:   consoleLook,
	command.HandlerStatus: consoleStatus,
	command.HandlerHelp:   consoleHelp,
	command.HandlerQuit:   consoleQuit,
}

// Run processes lines until input ends, quit is entered, the session
// terminates, or ctx is cancelled.
//
// Precondition: a session must be attached.
// Postcondition: Returns nil on a clean exit, ctx.Err() on cancellation, or a
// wrapped read error.
func (c *Console) Run(ctx context.Context) error {
	if c.session == nil {
		return errors.New("console: no session attached")
	}
	if c.session.State() == combat.Terminated {
		return nil
	}
	c.prompt()
	for c.in.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.stopped.Load() {
			return nil
		}
		if c.Execute(c.in.Text()) {
			return nil
		}
		c.prompt()
	}
	if err := c.in.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// Execute runs one input line and reports whether the console is done.
func (c *Console) Execute(line string) bool {
	b, err := c.registry.Bind(line)
	switch {
	case errors.Is(err, command.ErrEmpty):
		return false
	case err != nil:
		c.term.WriteLine(Colorize(Red, err.Error()))
		return false
	}
	if !b.Session {
		h, ok := localHandlerMap[b.Command.Handler]
		if !ok {
			c.term.WriteLine(Colorf(Dim, "You don't know how to '%s'.", b.Command.Name))
			return false
		}
		return h(c, command.Parse(line))
	}

	consumed := c.session.Handle(b.Action)
	c.logger.Debug("session command",
		zap.String("command", b.Command.Name),
		zap.Bool("consumed", consumed),
		zap.Stringer("state", c.session.State()),
	)
	if c.session.State() == combat.Terminated {
		c.term.WriteLine(Colorf(BrightYellow, "Battle over: %s after %d rounds.", c.session.Outcome(), c.session.Rounds()))
		c.term.Attach(nil)
		return true
	}
	return false
}

func (c *Console) prompt() {
	label := "none"
	if cur := c.session.Current(); cur != nil {
		label = cur.Name()
	}
	c.term.Prompt(label)
}

func consoleLook(c *Console, _ command.ParseResult) bool {
	c.term.Render()
	return false
}

func consoleStatus(c *Console, _ command.ParseResult) bool {
	c.term.Render()
	c.term.WriteLine(Colorf(Dim, "State: %s  Rounds: %d", c.session.State(), c.session.Rounds()))
	return false
}

func consoleHelp(c *Console, _ command.ParseResult) bool {
	c.term.WriteLine(Colorize(Bold, "Available commands:"))
	categories := []struct {
		name  string
		label string
	}{
		{command.CategoryMovement, "Movement"},
		{command.CategoryCombat, "Combat"},
		{command.CategorySystem, "System"},
		{command.CategoryDebug, "Debug"},
	}
	byCategory := c.registry.CommandsByCategory()
	for _, cat := range categories {
		cmds := byCategory[cat.name]
		if len(cmds) == 0 {
			continue
		}
		c.term.WriteLine(Colorf(BrightYellow, "  %s:", cat.label))
		for _, cmd := range cmds {
			aliases := ""
			if len(cmd.Aliases) > 0 {
				aliases = " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			c.term.WriteLine(Colorf(Green, "    %-10s", cmd.Name) + aliases + ": " + cmd.Help)
		}
	}
	c.term.WriteLine(Colorize(Dim, "  Shortcuts: + - = speed, . pass, 1-8 focus"))
	return false
}

func consoleQuit(c *Console, _ command.ParseResult) bool {
	c.term.WriteLine(Colorize(Cyan, "You leave the field."))
	return true
}
