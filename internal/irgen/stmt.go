package irgen

import (
	"github.com/you-not-fish/sug/internal/syntax"
)

// block lowers a brace-delimited body in a fresh scope.
func (g *generator) block(list []syntax.Expr) {
	g.openScope()
	g.stmtList(list)
	g.closeScope()
}

// stmtList lowers statements in order. Statements after a terminator are
// unreachable and not lowered.
func (g *generator) stmtList(list []syntax.Expr) {
	for _, s := range list {
		if !g.open {
			return
		}
		g.stmt(s)
	}
}

func (g *generator) stmt(s syntax.Expr) {
	g.setPos(s.Pos())

	switch s := s.(type) {
	case *syntax.Pass:

	case *syntax.Assign:
		slot := g.b.Alloca(s.Name.Value)
		v := g.value(s.Value, "initializer")
		g.b.Store(slot, v)
		g.scope.bind(s.Name.Value, &binding{slot: slot})

	case *syntax.ReAssign:
		bnd := g.scope.lookup(s.Name.Value)
		if bnd == nil {
			g.errorf(s.Name.Pos(), Unbound, "mutate of undefined variable %s", s.Name.Value)
		}
		if bnd.slot == nil {
			panic("irgen: mutated parameter " + s.Name.Value + " has no stack slot")
		}
		v := g.value(s.Value, "assigned value")
		g.b.Store(bnd.slot, v)

	case *syntax.IfElse:
		g.ifElse(s)

	case *syntax.ForLoop:
		g.forLoop(s)

	case *syntax.Declare, *syntax.Define:
		g.errorf(s.Pos(), InvalidAST, "nested %s", syntax.String(s))

	default:
		g.returnStmt(s)
	}
}

// returnStmt lowers a value expression in statement position, which
// returns it from the function. A bare call of a void function is an
// ordinary call statement instead; written after return, it returns from a
// void function and is a void value anywhere else.
func (g *generator) returnStmt(e syntax.Expr) {
	if c, ok := e.(*syntax.Call); ok {
		if f := g.funcs[c.Func.Value]; f != nil && f.isVoid() {
			switch {
			case !c.Return:
				g.expr(c)
				return
			case g.fn.isVoid():
				g.expr(c)
				g.b.Return(nil)
				g.open = false
				return
			}
		}
	}
	if g.fn.isVoid() {
		g.errorf(e.Pos(), VoidReturn, "%s returns a value from void function %s", syntax.String(e), g.fn.name)
	}
	v := g.value(e, "return value")
	g.b.Return(v)
	g.open = false
}

// ifElse lowers
//
//	cond -> then | else
//	then -> end
//	else -> end
//
// The end block is dropped when neither arm reaches it.
func (g *generator) ifElse(s *syntax.IfElse) {
	cond := g.b.NonZero(g.value(s.Cond, "condition"))

	fn := g.fn.handle
	then := g.b.NewBlock(fn, "then")
	els := g.b.NewBlock(fn, "else")
	end := g.b.NewBlock(fn, "end")
	g.b.Branch(cond, then, els)

	reached := false

	g.setBlock(then)
	g.block(s.Then)
	if g.open {
		g.b.Jump(end)
		reached = true
	}

	g.setBlock(els)
	g.block(s.Else)
	if g.open {
		g.b.Jump(end)
		reached = true
	}

	if !reached {
		g.b.RemoveBlock(end)
		g.open = false
		return
	}
	g.setBlock(end)
}

// forLoop lowers
//
//	init; cond -> loop | end
//	loop: body; step; cond -> loop | end
//
// The condition is lowered twice, once per test site.
func (g *generator) forLoop(s *syntax.ForLoop) {
	g.openScope()
	defer g.closeScope()

	g.stmt(s.Init)
	cond := g.b.NonZero(g.value(s.Cond, "condition"))

	fn := g.fn.handle
	loop := g.b.NewBlock(fn, "loop")
	end := g.b.NewBlock(fn, "end")
	g.b.Branch(cond, loop, end)

	g.setBlock(loop)
	g.block(s.Body)
	if g.open {
		g.stmt(s.Step)
		g.setPos(s.Cond.Pos())
		cond := g.b.NonZero(g.value(s.Cond, "condition"))
		g.b.Branch(cond, loop, end)
	}

	g.setBlock(end)
}
