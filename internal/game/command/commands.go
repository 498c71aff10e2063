// Package command provides the command registry, parser, and the built-in
// combat command vocabulary.
package command

// Categories for organizing commands.
const (
	CategoryMovement = "movement"
	CategoryCombat   = "combat"
	CategorySystem   = "system"
	CategoryDebug    = "debug"
)

// Handler identifiers mapping commands to session actions or local handlers.
const (
	HandlerMove    = "move"
	HandlerAttack  = "attack"
	HandlerPass    = "pass"
	HandlerSpeed   = "speed"
	HandlerFocus   = "focus"
	HandlerAbort   = "abort"
	HandlerDestroy = "destroy"
	HandlerLook    = "look"
	HandlerStatus  = "status"
	HandlerHelp    = "help"
	HandlerQuit    = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (movement, combat, system, debug).
	Category string
	// Handler maps to the session action or local handler.
	Handler string
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	return []Command{
		// Movement commands
		{Name: "north", Aliases: []string{"n"}, Help: "Move north", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west", Category: CategoryMovement, Handler: HandlerMove},

		// Combat commands
		{Name: "attack", Aliases: []string{"a", "att"}, Help: "Attack in a direction (attack <dir> [distance])", Category: CategoryCombat, Handler: HandlerAttack},
		{Name: "pass", Aliases: []string{"p", "z"}, Help: "Do nothing this turn", Category: CategoryCombat, Handler: HandlerPass},
		{Name: "speed", Aliases: []string{"sp"}, Help: "Change battle speed (speed +|-|reset)", Category: CategoryCombat, Handler: HandlerSpeed},
		{Name: "focus", Aliases: []string{"f"}, Help: "Force the active player (focus <slot>|none)", Category: CategoryCombat, Handler: HandlerFocus},

		// System commands
		{Name: "look", Aliases: []string{"l"}, Help: "Redraw the arena", Category: CategorySystem, Handler: HandlerLook},
		{Name: "status", Aliases: []string{"party"}, Help: "Show the party", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the game", Category: CategorySystem, Handler: HandlerQuit},

		// Debug commands
		{Name: "abort", Aliases: nil, Help: "End the battle without consequences (debug only)", Category: CategoryDebug, Handler: HandlerAbort},
		{Name: "destroy", Aliases: []string{"destroyall"}, Help: "Remove every creature (debug only)", Category: CategoryDebug, Handler: HandlerDestroy},
	}
}
