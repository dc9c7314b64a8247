package manifest

import (
	"github.com/dotup-sh/dotup/internal/probe"
	lua "github.com/yuin/gopher-lua"
)

// injectHostTable exposes the probed capabilities to the manifest as a
// read-only global named "host". This must run before user code loads.
func injectHostTable(L *lua.LState, caps *probe.HostCapabilities) {
	hostTable := L.NewTable()

	L.SetField(hostTable, "package_manager", lua.LString(caps.PackageManager.String()))
	L.SetField(hostTable, "arch", lua.LString(caps.Arch.String()))
	L.SetField(hostTable, "is_root", lua.LBool(caps.IsRoot))

	if caps.DiskKnown {
		L.SetField(hostTable, "disk_gb", lua.LNumber(caps.AvailableDiskGB))
	} else {
		L.SetField(hostTable, "disk_gb", lua.LNil)
	}

	// Distro identity (nil when detection failed)
	if caps.Distro != "" {
		distroTable := L.NewTable()
		L.SetField(distroTable, "id", lua.LString(caps.Distro))
		L.SetField(distroTable, "family", lua.LString(caps.DistroFamily))
		L.SetField(distroTable, "version", lua.LString(caps.DistroVersion))
		L.SetField(hostTable, "distro", distroTable)
	} else {
		L.SetField(hostTable, "distro", lua.LNil)
	}

	// Family booleans
	L.SetField(hostTable, "is_debian_family", lua.LBool(caps.DistroFamily == probe.FamilyDebian))
	L.SetField(hostTable, "is_arch_family", lua.LBool(caps.DistroFamily == probe.FamilyArch))
	L.SetField(hostTable, "is_rhel_family", lua.LBool(caps.DistroFamily == probe.FamilyRHEL))
	L.SetField(hostTable, "is_fedora_family", lua.LBool(caps.DistroFamily == probe.FamilyFedora))
	L.SetField(hostTable, "is_suse_family", lua.LBool(caps.DistroFamily == probe.FamilySUSE))

	// Helper function: when(condition, value)
	// Returns value if condition is true, nil otherwise
	whenFunc := L.NewFunction(func(L *lua.LState) int {
		cond := L.CheckBool(1)
		value := L.Get(2)
		if cond {
			L.Push(value)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	})
	L.SetField(hostTable, "when", whenFunc)

	L.SetGlobal("host", makeReadOnly(L, hostTable))
}

// makeReadOnly wraps a table in a write-protected proxy. Reads pass
// through; every write raises a Lua error.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()

	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("host table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)

	return proxy
}
