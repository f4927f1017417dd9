// Package codegen serializes a verified SSA module as LLVM assembly.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/sug/internal/abi"
	"github.com/you-not-fish/sug/internal/ssa"
	"github.com/you-not-fish/sug/internal/types"
)

// Options controls the module header.
type Options struct {
	SourceName   string // recorded as source_filename; empty omits it
	TargetTriple string // empty leaves the target to llc
	DataLayout   string
}

// generator holds the state for one module.
type generator struct {
	e   emitter
	m   *ssa.Module
	err error // first lowering error
}

// Generate writes m to w as LLVM assembly. The module must have passed
// verification; Generate does not re-check it.
func Generate(w io.Writer, m *ssa.Module, opts Options) error {
	g := &generator{e: emitter{w: w}, m: m}

	if opts.SourceName != "" {
		g.e.emit("; ModuleID = '%s'", opts.SourceName)
		g.e.emit("source_filename = %q", opts.SourceName)
	}
	if opts.DataLayout != "" {
		g.e.emit("target datalayout = %q", opts.DataLayout)
	}
	if opts.TargetTriple != "" {
		g.e.emit("target triple = %q", opts.TargetTriple)
	}

	for _, fn := range m.Funcs {
		g.e.emitLine()
		if fn.IsExternal() {
			g.e.emit("%s", g.declaration(fn).Declaration())
			continue
		}
		g.lowerFunc(fn)
	}

	if g.err != nil {
		return g.err
	}
	return g.e.err
}

// Sprint returns the LLVM assembly for m.
func Sprint(m *ssa.Module, opts Options) (string, error) {
	var sb strings.Builder
	err := Generate(&sb, m, opts)
	return sb.String(), err
}

// symbol returns the emitted name of fn.
func (g *generator) symbol(fn *ssa.Func) string {
	return abi.SymbolName(fn.Name, g.m.Entry)
}

// isThunk reports whether fn is the synthesized process entry.
func isThunk(fn *ssa.Func) bool {
	return fn.Name == abi.EntryThunk
}

// declaration describes an external function.
func (g *generator) declaration(fn *ssa.Func) abi.FuncSignature {
	params := make([]string, fn.Sig.NumParams())
	for i := range params {
		params[i] = llvmType(fn.Sig.Param(i))
	}
	return abi.FuncSignature{
		Name:       g.symbol(fn),
		ReturnType: llvmType(fn.Sig.Result()),
		ParamTypes: params,
	}
}

// slotAlign is the alignment of every stack slot.
var slotAlign = types.Alignof(types.Typ[types.Byte])

// llvmType maps an IR type to its LLVM spelling. A nil type is void.
func llvmType(t types.Type) string {
	switch {
	case types.IsByte(t):
		return abi.LLVMTypeByte
	case types.IsBool(t):
		return abi.LLVMTypeBool
	}
	return abi.LLVMTypeVoid
}

// fail records the first lowering error.
func (g *generator) fail(format string, args ...interface{}) {
	if g.err == nil {
		g.err = fmt.Errorf("codegen: "+format, args...)
	}
}
