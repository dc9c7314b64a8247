package manifest

import (
	"fmt"
	"os"

	"github.com/dotup-sh/dotup/internal/probe"
	lua "github.com/yuin/gopher-lua"
)

// ParseError represents a manifest parsing error with a friendly message.
type ParseError struct {
	Message string // user-friendly message
	Detail  string // technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// Parser evaluates Lua manifests against probed host capabilities.
type Parser struct {
	caps *probe.HostCapabilities
}

// NewParser creates a manifest parser. The capabilities feed the read-only
// host table visible to manifests.
func NewParser(caps *probe.HostCapabilities) *Parser {
	return &Parser{caps: caps}
}

// ParseFile loads a manifest from disk. A missing file returns the
// built-in defaults rather than an error.
func (p *Parser) ParseFile(path string) (*Manifest, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return p.ParseString(string(code))
}

// ParseString parses a Lua manifest from a string.
// This is the primary entry point for testing.
func (p *Parser) ParseString(luaCode string) (*Manifest, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.caps != nil {
		injectHostTable(L, p.caps)
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "manifest evaluation failed",
			Detail:  err.Error(),
		}
	}

	return extractManifest(L)
}

// extractManifest pulls the global "dotup" table out of the Lua state.
// Fields absent from the table keep their default values, so a manifest
// only has to state what it changes.
func extractManifest(L *lua.LState) (*Manifest, error) {
	root := L.GetGlobal("dotup")
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'dotup' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	m := Default()
	table := root.(*lua.LTable)

	if metaVal := table.RawGetString("meta"); metaVal.Type() == lua.LTTable {
		metaTable := metaVal.(*lua.LTable)
		if v := metaTable.RawGetString("name"); v.Type() == lua.LTString {
			m.Meta.Name = v.String()
		}
		if v := metaTable.RawGetString("description"); v.Type() == lua.LTString {
			m.Meta.Description = v.String()
		}
	}

	if pkgVal := table.RawGetString("packages"); pkgVal.Type() == lua.LTTable {
		pkgTable := pkgVal.(*lua.LTable)
		if coreVal := pkgTable.RawGetString("core"); coreVal.Type() == lua.LTTable {
			core, err := extractStrings(coreVal.(*lua.LTable))
			if err != nil {
				return nil, err
			}
			m.CorePackages = core
		}
		if v := pkgTable.RawGetString("colorizer"); v.Type() == lua.LTString {
			m.ColorizerPackage = v.String()
		}
	}

	if sysVal := table.RawGetString("sysinfo"); sysVal.Type() == lua.LTTable {
		tools, err := extractStrings(sysVal.(*lua.LTable))
		if err != nil {
			return nil, err
		}
		m.SysInfoTools = tools
	}

	if v := table.RawGetString("sysinfo_token"); v.Type() == lua.LTString {
		m.SysInfoToken = v.String()
	}

	if featVal := table.RawGetString("features"); featVal.Type() == lua.LTTable {
		featTable := featVal.(*lua.LTable)
		extractBool(featTable, "colorizer", &m.Features.Colorizer)
		extractBool(featTable, "fzf", &m.Features.Fzf)
		extractBool(featTable, "zoxide", &m.Features.Zoxide)
		extractBool(featTable, "lazyvim", &m.Features.LazyVim)
	}

	if nvimVal := table.RawGetString("neovim"); nvimVal.Type() == lua.LTTable {
		nvimTable := nvimVal.(*lua.LTable)
		if v := nvimTable.RawGetString("pin"); v.Type() == lua.LTString {
			m.Neovim.Pin = v.String()
		}
		if v := nvimTable.RawGetString("min_mb"); v.Type() == lua.LTNumber {
			m.Neovim.MinMB = int(v.(lua.LNumber))
		}
	}

	if v := table.RawGetString("min_disk_gb"); v.Type() == lua.LTNumber {
		m.MinDiskGB = int(v.(lua.LNumber))
	}

	if err := m.Validate(); err != nil {
		return nil, &ParseError{
			Message: "manifest validation failed",
			Detail:  err.Error(),
		}
	}

	return m, nil
}

// extractStrings reads an array-style Lua table into a string slice,
// skipping nil holes left by host.when conditionals.
func extractStrings(table *lua.LTable) ([]string, error) {
	var out []string
	var bad error

	table.ForEach(func(_, value lua.LValue) {
		switch value.Type() {
		case lua.LTString:
			out = append(out, value.String())
		case lua.LTNil:
			// holes from host.when(false, ...) are fine
		default:
			bad = &ParseError{
				Message: "invalid list entry",
				Detail:  fmt.Sprintf("expected string, got %s", value.Type()),
			}
		}
	})

	if bad != nil {
		return nil, bad
	}
	return out, nil
}

// extractBool overwrites dest only when the field is present and boolean.
func extractBool(table *lua.LTable, field string, dest *bool) {
	if v := table.RawGetString(field); v.Type() == lua.LTBool {
		*dest = bool(v.(lua.LBool))
	}
}
