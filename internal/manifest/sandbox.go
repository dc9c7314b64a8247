package manifest

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxVM strips everything from a Lua VM that could execute commands,
// touch the filesystem, or load external code. Manifests are declarative;
// string, table, and math stay available.
func sandboxVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)
	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a Lua state with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxVM(L)
	return L
}
