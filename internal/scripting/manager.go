package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// GlobalScope is the VM CallHook falls back to when a scope has none of its own.
const GlobalScope = "__global__"

// CombatantInfo is a snapshot of a combatant handed to Lua.
type CombatantInfo struct {
	ID     string
	Name   string
	Kind   string
	HP     int
	MaxHP  int
	Status string
	X, Y   int
}

// Manager owns one sandboxed LState per script scope and dispatches hooks.
//
// Manager is safe for concurrent CallHook after all loads complete; calls
// into the same scope are serialised by that scope's mutex.
type Manager struct {
	mu     sync.RWMutex
	scopes map[string]*scope
	limit  int
	roller *dice.Roller
	logger *zap.Logger

	// Injected by the combat session. nil disables the matching engine.* call.
	GetCombatant func(id string) *CombatantInfo
	NearestEnemy func(id string) (*CombatantInfo, int)
}

type scope struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel func()
}

// NewManager creates a Manager whose hook calls each run under instLimit opcodes.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	return &Manager{
		scopes: make(map[string]*scope),
		limit:  instLimit,
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a VM for name and runs every *.lua file in scriptDir in
// lexicographic order. Loading an existing scope replaces it.
//
// Precondition: name non-empty; scriptDir readable.
func (m *Manager) LoadScope(name, scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, name, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(files)

	L, cancel := NewSandboxedState(m.limit)
	m.RegisterModules(L)
	for _, path := range files {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, name, err)
		}
	}
	m.install(name, L, cancel)
	m.logger.Debug("scripts loaded", zap.String("scope", name), zap.Int("files", len(files)))
	return nil
}

// LoadGlobal loads scriptDir into the GlobalScope VM.
func (m *Manager) LoadGlobal(scriptDir string) error {
	return m.LoadScope(GlobalScope, scriptDir)
}

// LoadString runs src in a fresh VM for name.
func (m *Manager) LoadString(name, src string) error {
	L, cancel := NewSandboxedState(m.limit)
	m.RegisterModules(L)
	if err := L.DoString(src); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: loading string for %q: %w", name, err)
	}
	m.install(name, L, cancel)
	return nil
}

func (m *Manager) install(name string, L *lua.LState, cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.scopes[name]; ok {
		old.mu.Lock()
		old.cancel()
		old.L.Close()
		old.mu.Unlock()
	}
	m.scopes[name] = &scope{L: L, cancel: cancel}
}

// Close shuts every VM down.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, s := range m.scopes {
		s.mu.Lock()
		s.cancel()
		s.L.Close()
		s.mu.Unlock()
		delete(m.scopes, name)
	}
}

// CallHook calls the Lua global hook in name's VM, falling back to the
// GlobalScope VM. A missing VM or hook yields (LNil, nil). Lua runtime
// errors, including an exhausted instruction budget, are logged at Warn and
// never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(name, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	s, ok := m.scopes[name]
	if !ok {
		s = m.scopes[GlobalScope]
	}
	m.mu.RUnlock()

	if s == nil {
		m.logger.Info("scripting: no VM for scope", zap.String("scope", name), zap.String("hook", hook))
		return lua.LNil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fn := s.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	s.cancel()
	s.cancel = Budget(s.L, m.limit)
	if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)
	return ret, nil
}
