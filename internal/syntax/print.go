package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) list(label string, list []Expr) {
	p.printf("%s:\n", label)
	p.indent++
	for _, x := range list {
		p.print(x)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		p.printf("Program %s\n", n.Pos())
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *Declare:
		types := make([]string, len(n.Types))
		for i, t := range n.Types {
			types[i] = t.Spelling()
		}
		p.printf("Declare %s %s = %s\n", n.Pos(), n.Name.Value, strings.Join(types, " -> "))

	case *Define:
		params := make([]string, len(n.Params))
		for i, x := range n.Params {
			params[i] = x.Value
		}
		p.printf("Define %s %s(%s)\n", n.Pos(), n.Name.Value, strings.Join(params, ", "))
		p.indent++
		for _, s := range n.Body {
			p.print(s)
		}
		p.indent--

	case *Assign:
		p.printf("Assign %s %s\n", n.Pos(), n.Name.Value)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *ReAssign:
		p.printf("ReAssign %s %s\n", n.Pos(), n.Name.Value)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *IfElse:
		p.printf("IfElse %s\n", n.Pos())
		p.indent++
		p.printf("Cond:\n")
		p.indent++
		p.print(n.Cond)
		p.indent--
		p.list("Then", n.Then)
		p.list("Else", n.Else)
		p.indent--

	case *ForLoop:
		p.printf("ForLoop %s\n", n.Pos())
		p.indent++
		p.list("Init", []Expr{n.Init})
		p.list("Cond", []Expr{n.Cond})
		p.list("Step", []Expr{n.Step})
		p.list("Body", n.Body)
		p.indent--

	case *Pass:
		p.printf("Pass %s\n", n.Pos())

	case *Name:
		p.printf("Var %s %s\n", n.Pos(), n.Value)

	case *ByteLit:
		p.printf("Byte %s %d\n", n.Pos(), n.Value)

	case *Operation:
		p.printf("Operation %s %s\n", n.Pos(), n.Op)
		p.indent++
		p.print(n.X)
		if n.Y != nil {
			p.print(n.Y)
		}
		p.indent--

	case *Call:
		if n.Return {
			p.printf("Call %s %s return\n", n.Pos(), n.Func.Value)
		} else {
			p.printf("Call %s %s\n", n.Pos(), n.Func.Value)
		}
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

// String returns the source-like form of an expression, fully parenthesized.
// It is used in diagnostics.
func String(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch x := e.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Name:
		sb.WriteString(x.Value)
	case *ByteLit:
		fmt.Fprintf(sb, "%d", x.Value)
	case *Operation:
		sb.WriteByte('(')
		if x.Y == nil {
			sb.WriteString(x.Op.String())
			writeExpr(sb, x.X)
		} else {
			writeExpr(sb, x.X)
			sb.WriteString(" " + x.Op.String() + " ")
			writeExpr(sb, x.Y)
		}
		sb.WriteByte(')')
	case *Call:
		sb.WriteString(x.Func.Value + ":")
		for _, a := range x.Args {
			sb.WriteByte(' ')
			writeExpr(sb, a)
		}
	default:
		fmt.Fprintf(sb, "<%T>", e)
	}
}
