package irgen

import (
	"github.com/you-not-fish/sug/internal/ir"
	"github.com/you-not-fish/sug/internal/syntax"
)

// arithOps and compareOps map source operators to IR ops. Comparisons
// are unsigned.
var (
	arithOps = map[syntax.Operator]ir.Op{
		syntax.Add: ir.OpAdd,
		syntax.Sub: ir.OpSub,
		syntax.Mul: ir.OpMul,
		syntax.Div: ir.OpUDiv,
		syntax.Mod: ir.OpURem,
	}
	compareOps = map[syntax.Operator]ir.Op{
		syntax.Eq:  ir.OpEq,
		syntax.NEq: ir.OpNe,
		syntax.Gt:  ir.OpUGt,
		syntax.Lt:  ir.OpULt,
		syntax.GEq: ir.OpUGe,
		syntax.LEq: ir.OpULe,
	}
	logicOps = map[syntax.Operator]ir.Op{
		syntax.And: ir.OpAnd,
		syntax.Or:  ir.OpOr,
	}
)

// value lowers e, which must produce a byte. what names the use for the
// void-value diagnostic.
func (g *generator) value(e syntax.Expr, what string) ir.Value {
	v := g.expr(e)
	if v == nil {
		g.errorf(e.Pos(), VoidValue, "%s (no value) used as %s", syntax.String(e), what)
	}
	return v
}

// expr lowers e and returns its byte value, or nil for a void call.
// Expressions never terminate the current block.
func (g *generator) expr(e syntax.Expr) ir.Value {
	g.setPos(e.Pos())

	switch e := e.(type) {
	case *syntax.ByteLit:
		return g.b.ConstByte(e.Value)

	case *syntax.Name:
		bnd := g.scope.lookup(e.Value)
		if bnd == nil {
			g.errorf(e.Pos(), Unbound, "undefined variable %s", e.Value)
		}
		if bnd.slot == nil {
			return bnd.value
		}
		return g.b.Load(bnd.slot)

	case *syntax.Operation:
		return g.operation(e)

	case *syntax.Call:
		return g.call(e)
	}

	g.errorf(e.Pos(), InvalidAST, "%s is not an expression", syntax.String(e))
	return nil
}

// operation lowers a unary or binary operation. Comparison and boolean
// results are widened back to byte, so every expression is byte valued.
func (g *generator) operation(e *syntax.Operation) ir.Value {
	if e.Op == syntax.Not {
		x := g.value(e.X, "operand")
		return g.b.ZeroExt(g.b.Not(g.b.NonZero(x)))
	}

	if c, ok := e.X.(*syntax.Call); ok && e.Op == syntax.Sub {
		// f: -1 parses as (f:) - 1.
		if f := g.funcs[c.Func.Value]; f != nil && len(c.Args) < f.sig.NumParams() {
			g.errorf(c.Pos(), Arity, "wrong number of arguments in call to %s: got %d, want %d (parenthesize a negative argument: %s: (-%s))",
				c.Func.Value, len(c.Args), f.sig.NumParams(), c.Func.Value, syntax.String(e.Y))
		}
	}

	x := g.value(e.X, "operand")
	y := g.value(e.Y, "operand")

	if op, ok := arithOps[e.Op]; ok {
		return g.b.Binary(op, x, y)
	}
	if op, ok := compareOps[e.Op]; ok {
		return g.b.ZeroExt(g.b.Binary(op, x, y))
	}
	if op, ok := logicOps[e.Op]; ok {
		return g.b.ZeroExt(g.b.Binary(op, g.b.NonZero(x), g.b.NonZero(y)))
	}

	g.errorf(e.Pos(), InvalidAST, "unknown operator %s", e.Op)
	return nil
}

// call lowers a direct call. Arguments are evaluated left to right.
func (g *generator) call(e *syntax.Call) ir.Value {
	name := e.Func.Value
	f := g.funcs[name]
	if f == nil {
		g.errorf(e.Func.Pos(), Unbound, "call of undefined function %s", name)
	}
	if len(e.Args) != f.sig.NumParams() {
		g.errorf(e.Pos(), Arity, "wrong number of arguments in call to %s: got %d, want %d",
			name, len(e.Args), f.sig.NumParams())
	}

	args := make([]ir.Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = g.value(a, "argument")
	}

	g.setPos(e.Pos())
	v := g.b.Call(f.handle, args)
	if f.isVoid() {
		return nil
	}
	return v
}

// setPos attaches pos to subsequent instructions. Synthesized nodes carry
// no position and keep the current one.
func (g *generator) setPos(pos syntax.Pos) {
	if pos.IsValid() {
		g.b.SetPos(pos)
	}
}
