package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// Every node of a Sug program is an expression: top-level declarations and
// definitions, statements inside bodies, and operands all implement Expr.
// Each composite node exclusively owns its children; the tree is never
// mutated after parsing.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos   // position of first character belonging to the node
	End() Pos   // position of first character immediately after the node
	Span() Span // [Pos, End)
	aNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// node is the base struct embedded in all AST nodes.
type node struct {
	span Span
}

func (n *node) Pos() Pos       { return n.span.Lo }
func (n *node) End() Pos       { return n.span.Hi }
func (n *node) Span() Span     { return n.span }
func (n *node) aNode()         {}
func (n *node) setSpan(s Span) { n.span = s }

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// ----------------------------------------------------------------------------
// Program

// Program is an ordered sequence of top-level declarations and definitions.
type Program struct {
	node
	Stmts []Expr
}

// ----------------------------------------------------------------------------
// Operands

// Name is an identifier. As an expression it reads a variable.
type Name struct {
	expr
	Value string
}

// ByteLit is a byte literal.
type ByteLit struct {
	expr
	Value uint8
}

// Operator identifies the operation of an Operation node.
type Operator uint8

const (
	_ Operator = iota

	// arithmetic
	Add // +
	Sub // -
	Mul // *
	Div // /
	Mod // %

	// comparison
	Eq  // ==
	NEq // !=
	Gt  // >
	Lt  // <
	GEq // >=
	LEq // <=

	// boolean
	Not // ! (unary)
	And // &&
	Or  // ||
)

var operatorNames = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
	Eq:  "==",
	NEq: "!=",
	Gt:  ">",
	Lt:  "<",
	GEq: ">=",
	LEq: "<=",
	Not: "!",
	And: "&&",
	Or:  "||",
}

func (op Operator) String() string {
	if int(op) < len(operatorNames) && operatorNames[op] != "" {
		return operatorNames[op]
	}
	return "?"
}

// IsArith reports whether op is an arithmetic operator.
func (op Operator) IsArith() bool { return op >= Add && op <= Mod }

// IsCompare reports whether op is a comparison operator.
func (op Operator) IsCompare() bool { return op >= Eq && op <= LEq }

// IsBool reports whether op is a boolean operator.
func (op Operator) IsBool() bool { return op >= Not && op <= Or }

// Operation is a unary (Y == nil) or binary operation.
// Unary minus never appears here: the parser rewrites -x as 0 - x.
type Operation struct {
	expr
	Op   Operator
	X, Y Expr
}

// Call calls a declared function: name: arg arg ...
type Call struct {
	expr
	Func   *Name
	Args   []Expr
	Return bool // written as return f: ...; a void call still returns
}

// ----------------------------------------------------------------------------
// Top-level forms

// TypeRef is one element of a declaration's type chain.
// Name is nil for the void sentinel "!".
type TypeRef struct {
	node
	Name *Name
}

// Spelling returns the type name as written, "void" for the sentinel.
func (t *TypeRef) Spelling() string {
	if t.Name == nil {
		return "void"
	}
	return t.Name.Value
}

// Declare registers a function signature: declare name = t1 -> t2 -> ... -> result
type Declare struct {
	expr
	Name  *Name
	Types []*TypeRef // last element is the result type
}

// Define gives a declared function its body: define name p1 p2 = body
type Define struct {
	expr
	Name   *Name
	Params []*Name
	Body   []Expr
}

// ----------------------------------------------------------------------------
// Statements
//
// Any other expression in statement position returns its value from the
// enclosing function.

// Assign introduces a new binding: var name = value;
type Assign struct {
	expr
	Name  *Name
	Value Expr
}

// ReAssign mutates an existing binding: mutate name = value;
type ReAssign struct {
	expr
	Name  *Name
	Value Expr
}

// IfElse is a two-armed conditional.
type IfElse struct {
	expr
	Cond Expr
	Then []Expr
	Else []Expr
}

// ForLoop is a counting loop: for init; cond; step { body };
type ForLoop struct {
	expr
	Init Expr
	Cond Expr
	Step Expr
	Body []Expr
}

// Pass does nothing.
type Pass struct {
	expr
}

// IsValue reports whether e produces a value when used in statement position,
// i.e. whether it acts as a return.
func IsValue(e Expr) bool {
	switch e.(type) {
	case *Name, *ByteLit, *Operation, *Call:
		return true
	}
	return false
}
