package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine table into L:
//
//	engine.combatant(id)     -> table or nil
//	engine.nearest_enemy(id) -> table or nil, squared distance
//	engine.roll(expr)        -> total, or nil and an error string
//	engine.log(msg)
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "combatant", L.NewFunction(m.luaCombatant))
	L.SetField(engine, "nearest_enemy", L.NewFunction(m.luaNearestEnemy))
	L.SetField(engine, "roll", L.NewFunction(m.luaRoll))
	L.SetField(engine, "log", L.NewFunction(m.luaLog))
	L.SetGlobal("engine", engine)
}

func combatantTable(L *lua.LState, c *CombatantInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(c.ID))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("kind", lua.LString(c.Kind))
	t.RawSetString("hp", lua.LNumber(c.HP))
	t.RawSetString("max_hp", lua.LNumber(c.MaxHP))
	t.RawSetString("status", lua.LString(c.Status))
	t.RawSetString("x", lua.LNumber(c.X))
	t.RawSetString("y", lua.LNumber(c.Y))
	return t
}

func (m *Manager) luaCombatant(L *lua.LState) int {
	id := L.CheckString(1)
	if m.GetCombatant == nil {
		L.Push(lua.LNil)
		return 1
	}
	c := m.GetCombatant(id)
	if c == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(combatantTable(L, c))
	return 1
}

func (m *Manager) luaNearestEnemy(L *lua.LState) int {
	id := L.CheckString(1)
	if m.NearestEnemy == nil {
		L.Push(lua.LNil)
		return 1
	}
	c, dist := m.NearestEnemy(id)
	if c == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(combatantTable(L, c))
	L.Push(lua.LNumber(dist))
	return 2
}

func (m *Manager) luaRoll(L *lua.LState) int {
	res, err := m.roller.RollExpr(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(res.Total()))
	return 1
}

func (m *Manager) luaLog(L *lua.LState) int {
	m.logger.Debug("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
