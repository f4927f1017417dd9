package ssa

import (
	"github.com/you-not-fish/sug/internal/types"
)

// Module is one compilation unit: every declared function in declaration
// order, followed by the synthesized process entry.
type Module struct {
	// Funcs lists all functions, external ones included.
	Funcs []*Func

	// Entry is the source name of the user's entry function.
	Entry string

	byName map[string]*Func
}

// NewModule creates an empty module whose user entry function is named entry.
func NewModule(entry string) *Module {
	return &Module{Entry: entry, byName: make(map[string]*Func)}
}

// NewFunc adds a function to the module. Re-adding a name replaces the lookup
// entry but keeps both functions; callers reject duplicates first.
func (m *Module) NewFunc(name string, sig *types.Signature) *Func {
	f := NewFunc(name, sig)
	m.Funcs = append(m.Funcs, f)
	m.byName[name] = f
	return f
}

// Lookup returns the function with the given name, or nil.
func (m *Module) Lookup(name string) *Func {
	return m.byName[name]
}

// Defined returns the functions that have bodies, in module order.
func (m *Module) Defined() []*Func {
	var out []*Func
	for _, f := range m.Funcs {
		if !f.IsExternal() {
			out = append(out, f)
		}
	}
	return out
}
