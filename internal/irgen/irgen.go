// Package irgen lowers a parsed Sug program into IR.
//
// Generation runs in two passes over the top-level forms. The first
// registers every declared signature, so calls may refer to functions
// defined later in the file. The second lowers each definition body.
// Afterwards a process entry that calls the user's entry function is
// synthesized and the module is verified.
//
// The generator is written against ir.Builder only and stops at the first
// error.
package irgen

import (
	"fmt"

	"github.com/you-not-fish/sug/internal/abi"
	"github.com/you-not-fish/sug/internal/ir"
	"github.com/you-not-fish/sug/internal/syntax"
	"github.com/you-not-fish/sug/internal/types"
)

// Config specifies the configuration for generation.
type Config struct {
	// Entry is the name of the user's entry function.
	// If empty, abi.DefaultEntry is used.
	Entry string

	// NoEntry skips the process entry, for modules that are linked into
	// another program or only inspected.
	NoEntry bool

	// Error is called for the error that aborts generation.
	// If nil, the error is only returned.
	Error ErrorHandler
}

// function is an entry of the function table.
type function struct {
	name   string
	sig    *types.Signature
	handle ir.Function
	decl   *syntax.Declare
	def    *syntax.Define
}

func (f *function) isVoid() bool {
	return types.IsVoid(f.sig.Result())
}

// generator holds the state of one generation run.
type generator struct {
	conf  *Config
	entry string
	b     ir.Builder

	funcs map[string]*function // function table

	// Current function context
	fn    *function
	scope *scope
	open  bool // the insertion block still accepts instructions

	first *Error
}

// Generate lowers prog into b. It returns the first diagnostic as an
// *Error, or a wrapped verification error if the finished module is
// malformed.
func Generate(prog *syntax.Program, b ir.Builder, conf *Config) (err error) {
	if conf == nil {
		conf = &Config{}
	}
	g := &generator{
		conf:  conf,
		entry: conf.Entry,
		b:     b,
		funcs: make(map[string]*function),
	}
	if g.entry == "" {
		g.entry = abi.DefaultEntry
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			err = g.first
		}
	}()

	// Pass 1: signatures.
	for _, s := range prog.Stmts {
		if d, ok := s.(*syntax.Declare); ok {
			g.declare(d)
		}
	}

	// Pass 2: bodies.
	for _, s := range prog.Stmts {
		switch s := s.(type) {
		case *syntax.Declare:
		case *syntax.Define:
			g.define(s)
		default:
			g.errorf(s.Pos(), InvalidAST, "unexpected %s at top level", syntax.String(s))
		}
	}

	if !conf.NoEntry {
		g.synthesizeEntry(prog)
	}

	if err := b.Verify(); err != nil {
		return fmt.Errorf("generated IR is malformed: %w", err)
	}
	return nil
}

// declare registers d in the function table.
func (g *generator) declare(d *syntax.Declare) {
	name := d.Name.Value
	if prev := g.funcs[name]; prev != nil {
		g.errorf(d.Name.Pos(), Duplicate, "%s redeclared (previous declaration at %s)", name, prev.decl.Pos())
	}
	if abi.IsReserved(name, g.entry) {
		g.errorf(d.Name.Pos(), Reserved, "%s is a reserved function name", name)
	}
	if len(d.Types) == 0 {
		g.errorf(d.Pos(), InvalidAST, "declaration of %s has no result type", name)
	}

	var params []types.Type
	last := len(d.Types) - 1
	for _, ref := range d.Types[:last] {
		t := g.resolve(ref)
		if types.IsVoid(t) {
			continue
		}
		params = append(params, t)
	}
	sig := types.NewSignature(params, g.resolve(d.Types[last]))

	g.funcs[name] = &function{
		name:   name,
		sig:    sig,
		handle: g.b.NewFunction(name, sig),
		decl:   d,
	}
}

// resolve maps a type spelling to its type.
func (g *generator) resolve(ref *syntax.TypeRef) types.Type {
	t, ok := types.Lookup(ref.Spelling())
	if !ok {
		g.errorf(ref.Pos(), UnknownType, "unknown type %s", ref.Spelling())
	}
	return t
}

// define lowers the body of d into its declared function.
func (g *generator) define(d *syntax.Define) {
	name := d.Name.Value
	f := g.funcs[name]
	switch {
	case f == nil:
		g.errorf(d.Name.Pos(), Undeclared, "definition of undeclared function %s", name)
	case f.def != nil:
		g.errorf(d.Name.Pos(), Duplicate, "%s redefined (previous definition at %s)", name, f.def.Pos())
	case len(d.Params) != f.sig.NumParams():
		g.errorf(d.Name.Pos(), Arity, "definition of %s has %d parameters, declaration has %d",
			name, len(d.Params), f.sig.NumParams())
	}
	f.def = d

	g.fn = f
	g.scope = newScope(nil)
	g.setBlock(g.b.NewBlock(f.handle, "entry"))
	g.setPos(d.Pos())

	mutated := mutatedNames(d.Body)
	for i, p := range d.Params {
		if g.scope.vars[p.Value] != nil {
			g.errorf(p.Pos(), Duplicate, "duplicate parameter %s", p.Value)
		}
		v := g.b.Param(f.handle, i, p.Value)
		if !mutated[p.Value] {
			g.scope.bind(p.Value, &binding{value: v})
			continue
		}
		slot := g.b.Alloca(p.Value)
		g.b.Store(slot, v)
		g.scope.bind(p.Value, &binding{slot: slot})
	}

	g.block(d.Body)

	if g.open {
		if !f.isVoid() {
			g.errorf(d.End(), MissingReturn, "missing return at end of %s", name)
		}
		g.b.Return(nil)
		g.open = false
	}
	g.fn, g.scope = nil, nil
}

// synthesizeEntry adds the process entry, which calls the user's entry
// function and returns its byte result, or 0 if it is void.
func (g *generator) synthesizeEntry(prog *syntax.Program) {
	f := g.funcs[g.entry]
	switch {
	case f == nil:
		g.errorf(prog.End(), Unbound, "entry function %s is not declared", g.entry)
	case f.def == nil:
		g.errorf(f.decl.Pos(), Unbound, "entry function %s is declared but not defined", g.entry)
	case f.sig.NumParams() != 0:
		g.errorf(f.decl.Pos(), Arity, "entry function %s must take no parameters", g.entry)
	}

	sig := types.NewSignature(nil, types.Typ[types.Byte])
	thunk := &function{name: abi.EntryThunk, sig: sig, handle: g.b.NewFunction(abi.EntryThunk, sig)}
	g.fn = thunk
	g.scope = newScope(nil)
	g.setBlock(g.b.NewBlock(thunk.handle, "entry"))
	g.setPos(prog.End())

	v := g.expr(&syntax.Call{Func: &syntax.Name{Value: g.entry}})
	if v == nil {
		v = g.b.ConstByte(0)
	}
	g.b.Return(v)
	g.open = false
	g.fn, g.scope = nil, nil
}

// setBlock moves the insertion cursor to the open block blk.
func (g *generator) setBlock(blk ir.Block) {
	g.b.SetInsertPoint(blk)
	g.open = true
}
