package syntax

import (
	"fmt"
	"io"
	"strconv"
)

// SyntaxError represents a syntax error.
// Found is the offending token ("EOF" at end of stream).
type SyntaxError struct {
	Pos   Pos
	Msg   string
	Found string
}

func (e *SyntaxError) Error() string {
	if e.Found == "" {
		return e.Pos.String() + ": " + e.Msg
	}
	return fmt.Sprintf("%s: %s, found %s", e.Pos, e.Msg, e.Found)
}

// TokenStream is the lazy token sequence consumed by the parser.
// Whitespace and comments are already elided. *Scanner implements it.
type TokenStream interface {
	Next()
	Token() Token
	Literal() string
	Span() Span
}

// bailout aborts parsing at the first error; Parse recovers it.
type bailout struct{}

// Parser builds a Program from a token stream. There is no error recovery:
// the first token that matches no production ends the parse.
type Parser struct {
	toks TokenStream

	// Current token info (cached from the stream)
	tok  Token
	lit  string
	span Span

	prev Span // span of the most recently consumed token

	errh  func(pos Pos, msg string)
	first *SyntaxError
}

// NewParser creates a Parser that tokenizes src.
// errh, if non-nil, is called once with the error that ends the parse.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	return NewTokenParser(NewScanner(filename, src, nil), errh)
}

// NewTokenParser creates a Parser over an existing token stream.
func NewTokenParser(toks TokenStream, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{toks: toks, errh: errh}
	p.next()
	return p
}

// Parse parses source text into a Program.
func Parse(filename string, src io.Reader) (*Program, error) {
	return NewParser(filename, src, nil).Parse()
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.prev = p.span
	p.toks.Next()
	p.tok = p.toks.Token()
	p.lit = p.toks.Literal()
	p.span = p.toks.Span()
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, parsing fails.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String())
	}
}

// name consumes an identifier.
func (p *Parser) name() *Name {
	if p.tok != _Name {
		p.syntaxError("expected name")
	}
	n := &Name{Value: p.lit}
	n.setSpan(p.span)
	p.next()
	return n
}

// from returns the span running from start to the last consumed token.
func (p *Parser) from(start Span) Span {
	return Join(start, p.prev)
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports a syntax error at the current token and aborts.
func (p *Parser) syntaxError(msg string) {
	found := p.tok.String()
	switch p.tok {
	case _Name, _Byte:
		found = strconv.Quote(p.lit)
	case _Error:
		// The scanner's message is more precise than ours.
		msg, found = p.lit, ""
	}
	p.first = &SyntaxError{Pos: p.span.Lo, Msg: msg, Found: found}
	if p.errh != nil {
		p.errh(p.first.Pos, p.first.Error())
	}
	panic(bailout{})
}

// ----------------------------------------------------------------------------
// Program

// Parse parses the whole token stream.
//
//	program    = { outer ";" } .
func (p *Parser) Parse() (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			prog, err = nil, p.first
		}
	}()

	start := p.span
	prog = new(Program)
	for p.tok != _EOF {
		prog.Stmts = append(prog.Stmts, p.outer())
		p.want(_Semi)
	}
	prog.setSpan(p.from(start))
	return prog, nil
}

// outer parses a top-level declaration or definition.
//
//	outer      = "declare" name "=" declareArgs
//	           | "define" name { name } "=" block .
func (p *Parser) outer() Expr {
	start := p.span
	switch p.tok {
	case _Declare:
		p.next()
		d := &Declare{Name: p.name()}
		p.want(_Assign)
		d.Types = p.declareArgs()
		d.setSpan(p.from(start))
		return d

	case _Define:
		p.next()
		d := &Define{Name: p.name()}
		for p.tok == _Name {
			d.Params = append(d.Params, p.name())
		}
		p.want(_Assign)
		d.Body = p.block()
		d.setSpan(p.from(start))
		return d
	}
	p.syntaxError("expected declare or define")
	return nil
}

// declareArgs parses a type chain.
//
//	declareArgs = typeRef { "->" typeRef } .
//	typeRef     = name | "!" .
func (p *Parser) declareArgs() []*TypeRef {
	var list []*TypeRef
	for {
		t := new(TypeRef)
		switch p.tok {
		case _Name:
			t.Name = p.name()
		case _Not:
			p.next()
		default:
			p.syntaxError("expected type name or !")
		}
		t.setSpan(p.prev)
		list = append(list, t)
		if !p.got(_Arrow) {
			return list
		}
	}
}

// block parses a function body.
//
//	block      = "{" stmtList "}" | term .
func (p *Parser) block() []Expr {
	if p.got(_Lbrace) {
		list := p.stmtList()
		p.want(_Rbrace)
		return list
	}
	return []Expr{p.term()}
}

// ----------------------------------------------------------------------------
// Statements

// stmtList parses statements up to the closing brace.
func (p *Parser) stmtList() []Expr {
	var list []Expr
	for p.tok != _Rbrace && p.tok != _EOF {
		list = append(list, p.stmt())
	}
	return list
}

// stmt parses one statement.
//
//	stmt       = simpleStmt
//	           | "return" term ";"
//	           | "if" term ";" "{" stmtList "}" ";" "else" ";" "{" stmtList "}" ";"
//	           | "for" simpleStmt term ";" simpleStmt "{" stmtList "}" ";"
//	           | term [ ";" ] .
//
// A trailing term may omit its semicolon when it closes the block.
func (p *Parser) stmt() Expr {
	start := p.span
	switch p.tok {
	case _Var, _Mutate, _Pass:
		return p.simpleStmt()

	case _Return:
		p.next()
		x := p.term()
		if c, ok := x.(*Call); ok {
			c.Return = true
		}
		p.want(_Semi)
		return x

	case _If:
		p.next()
		s := &IfElse{Cond: p.term()}
		p.want(_Semi)
		s.Then = p.braced()
		p.want(_Semi)
		p.want(_Else)
		p.want(_Semi)
		s.Else = p.braced()
		p.want(_Semi)
		s.setSpan(p.from(start))
		return s

	case _For:
		p.next()
		s := &ForLoop{Init: p.simpleStmt()}
		s.Cond = p.term()
		p.want(_Semi)
		s.Step = p.simpleStmt()
		s.Body = p.braced()
		p.want(_Semi)
		s.setSpan(p.from(start))
		return s
	}

	x := p.term()
	if !p.got(_Semi) && p.tok != _Rbrace {
		p.syntaxError("expected ;")
	}
	return x
}

// simpleStmt parses a binding, a mutation or pass, including its semicolon.
//
//	simpleStmt = "var" name "=" term ";"
//	           | "mutate" name "=" term ";"
//	           | "pass" ";" .
func (p *Parser) simpleStmt() Expr {
	start := p.span
	var s Expr
	switch p.tok {
	case _Var:
		p.next()
		a := &Assign{Name: p.name()}
		p.want(_Assign)
		a.Value = p.term()
		s = a
	case _Mutate:
		p.next()
		a := &ReAssign{Name: p.name()}
		p.want(_Assign)
		a.Value = p.term()
		s = a
	case _Pass:
		p.next()
		s = new(Pass)
	default:
		p.syntaxError("expected var, mutate or pass")
	}
	p.want(_Semi)
	s.(interface{ setSpan(Span) }).setSpan(p.from(start))
	return s
}

// braced parses "{" stmtList "}".
func (p *Parser) braced() []Expr {
	p.want(_Lbrace)
	list := p.stmtList()
	p.want(_Rbrace)
	return list
}

// ----------------------------------------------------------------------------
// Expressions

// term parses the lowest precedence tier, left-associative.
//
//	term       = fact { ( "+" | "-" | "==" | "!=" | ">" | "<" | ">=" | "<=" | "&&" | "||" ) fact } .
func (p *Parser) term() Expr {
	return p.binary(1)
}

// binary implements precedence climbing over Token.Precedence.
func (p *Parser) binary(prec int) Expr {
	if prec > 2 {
		return p.atom()
	}
	x := p.binary(prec + 1)
	for p.tok.Precedence() == prec {
		op := binaryOps[p.tok]
		p.next()
		y := p.binary(prec + 1)
		x = p.operation(op, x, y)
	}
	return x
}

var binaryOps = map[Token]Operator{
	_Add:    Add,
	_Sub:    Sub,
	_Mul:    Mul,
	_Div:    Div,
	_Rem:    Mod,
	_Eql:    Eq,
	_Neq:    NEq,
	_Gtr:    Gt,
	_Lss:    Lt,
	_Geq:    GEq,
	_Leq:    LEq,
	_AndAnd: And,
	_OrOr:   Or,
}

func (p *Parser) operation(op Operator, x, y Expr) *Operation {
	o := &Operation{Op: op, X: x, Y: y}
	hi := x.Span()
	if y != nil {
		hi = y.Span()
	}
	o.setSpan(Join(x.Span(), hi))
	return o
}

// atom parses an operand.
//
//	atom       = name [ ":" { arg } ] | byte | "(" term ")" | "-" atom | "!" atom .
//	arg        = primary | "!" atom .
//
// A "-" after a call is always binary: f: x - 1 is (f: x) - 1, and a
// negative argument needs parentheses, f: (-1).
func (p *Parser) atom() Expr {
	start := p.span
	switch p.tok {
	case _Name:
		n := p.name()
		if !p.got(_Colon) {
			return n
		}
		c := &Call{Func: n}
		for {
			switch p.tok {
			case _Name, _Byte, _Lparen:
				c.Args = append(c.Args, p.primary())
				continue
			case _Not:
				c.Args = append(c.Args, p.atom())
				continue
			}
			break
		}
		c.setSpan(p.from(start))
		return c

	case _Sub:
		// -x is 0 - x; there is no negation instruction.
		p.next()
		zero := &ByteLit{Value: 0}
		zero.setSpan(start)
		o := p.operation(Sub, zero, p.atom())
		o.setSpan(p.from(start))
		return o

	case _Not:
		p.next()
		o := &Operation{Op: Not, X: p.atom()}
		o.setSpan(p.from(start))
		return o
	}
	return p.primary()
}

// primary parses a call argument.
//
//	primary    = name | byte | "(" term ")" .
func (p *Parser) primary() Expr {
	switch p.tok {
	case _Name:
		return p.name()

	case _Byte:
		v, err := strconv.ParseUint(p.lit, 10, 8)
		if err != nil {
			p.syntaxError("byte literal out of range")
		}
		b := &ByteLit{Value: uint8(v)}
		b.setSpan(p.span)
		p.next()
		return b

	case _Lparen:
		p.next()
		x := p.term()
		p.want(_Rparen)
		return x
	}
	p.syntaxError("expected expression")
	return nil
}
