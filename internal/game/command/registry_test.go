package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r)
	assert.Greater(t, len(r.Commands()), 0)
}

func TestResolve_CanonicalName(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("north")
	assert.True(t, ok)
	assert.Equal(t, "north", cmd.Name)
	assert.Equal(t, HandlerMove, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("n")
	assert.True(t, ok)
	assert.Equal(t, "north", cmd.Name)
}

func TestResolve_NotFound(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Resolve("teleport")
	assert.False(t, ok)
}

func TestResolve_AllMovementDirections(t *testing.T) {
	r := DefaultRegistry()
	directions := []struct {
		name  string
		alias string
	}{
		{"north", "n"},
		{"south", "s"},
		{"east", "e"},
		{"west", "w"},
	}

	for _, d := range directions {
		cmd, ok := r.Resolve(d.name)
		require.True(t, ok, "canonical name %q not found", d.name)
		assert.Equal(t, d.name, cmd.Name)
		assert.Equal(t, HandlerMove, cmd.Handler)

		aliasCmd, ok := r.Resolve(d.alias)
		require.True(t, ok, "alias %q not found", d.alias)
		assert.Equal(t, d.name, aliasCmd.Name)
	}
}

func TestResolve_CombatAndSystemCommands(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		input   string
		handler string
	}{
		{"attack", HandlerAttack},
		{"a", HandlerAttack},
		{"pass", HandlerPass},
		{"z", HandlerPass},
		{"speed", HandlerSpeed},
		{"focus", HandlerFocus},
		{"look", HandlerLook},
		{"party", HandlerStatus},
		{"quit", HandlerQuit},
		{"exit", HandlerQuit},
		{"help", HandlerHelp},
		{"?", HandlerHelp},
		{"abort", HandlerAbort},
		{"destroyall", HandlerDestroy},
	}

	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "input %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "input %q wrong handler", tt.input)
	}
}

func TestResolve_Prefixes(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("stat")
	require.True(t, ok)
	assert.Equal(t, "status", cmd.Name)

	cmd, ok = r.Resolve("DESTR")
	require.True(t, ok)
	assert.Equal(t, "destroy", cmd.Name)

	cmd, ok = r.Resolve("sp")
	require.True(t, ok)
	assert.Equal(t, "speed", cmd.Name)
}

func TestResolve_AmbiguousPrefix(t *testing.T) {
	r, err := NewRegistry([]Command{{Name: "stab"}, {Name: "stand"}})
	require.NoError(t, err)
	_, ok := r.Resolve("st")
	assert.False(t, ok)
	cmd, ok := r.Resolve("sta")
	assert.False(t, ok)
	assert.Nil(t, cmd)
	cmd, ok = r.Resolve("stan")
	require.True(t, ok)
	assert.Equal(t, "stand", cmd.Name)
}

func TestNewRegistry_ReportsEveryCollision(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "test", Aliases: []string{"t"}},
		{Name: "test"},
		{Name: "other", Aliases: []string{"t", "test"}},
		{Name: "t"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate command "test"`)
	assert.Contains(t, err.Error(), `alias "t" used by "test" and "other"`)
	assert.Contains(t, err.Error(), `alias "test" of "other" is a command name`)
	assert.Contains(t, err.Error(), `command "t" is already an alias of "test"`)
}

func TestCommandsByCategory(t *testing.T) {
	r := DefaultRegistry()
	cats := r.CommandsByCategory()

	assert.Contains(t, cats, CategoryMovement)
	assert.Contains(t, cats, CategoryCombat)
	assert.Contains(t, cats, CategorySystem)
	assert.Contains(t, cats, CategoryDebug)
	assert.Len(t, cats[CategoryMovement], 4)
	for _, group := range cats {
		for i := 1; i < len(group); i++ {
			assert.Less(t, group[i-1].Name, group[i].Name)
		}
	}
}

func TestPropertyAllAliasesResolveToCanonical(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := DefaultRegistry()
		cmds := r.Commands()
		idx := rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd_idx")
		cmd := cmds[idx]

		// Canonical name should resolve
		resolved, ok := r.Resolve(cmd.Name)
		if !ok {
			t.Fatalf("canonical name %q did not resolve", cmd.Name)
		}
		if resolved.Name != cmd.Name {
			t.Fatalf("canonical name %q resolved to %q", cmd.Name, resolved.Name)
		}

		// All aliases should resolve to same command
		for _, alias := range cmd.Aliases {
			aliasResolved, ok := r.Resolve(alias)
			if !ok {
				t.Fatalf("alias %q did not resolve", alias)
			}
			if aliasResolved.Name != cmd.Name {
				t.Fatalf("alias %q resolved to %q, expected %q", alias, aliasResolved.Name, cmd.Name)
			}
		}
	})
}
