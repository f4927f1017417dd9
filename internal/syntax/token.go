// Package syntax implements lexical and syntactic analysis for the Sug programming language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of file
	_Error              // lexical error; the literal holds the message

	// Literals
	_Name // identifier: x, add, byte
	_Byte // byte literal: 0..255

	// Assignment
	_Assign // =

	// Logical operators
	_OrOr   // ||
	_AndAnd // &&

	// Comparison operators
	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	// Additive
	_Add // +
	_Sub // -

	// Multiplicative
	_Mul // *
	_Div // /
	_Rem // %

	// Void sentinel and logical not
	_Not // !

	// Delimiters
	_Arrow  // ->
	_Lparen // (
	_Rparen // )
	_Lbrace // {
	_Rbrace // }
	_Semi   // ;
	_Colon  // :

	// Keywords
	_Declare
	_Define
	_Else
	_For
	_If
	_Mutate
	_Pass
	_Return
	_Var

	tokenCount
)

var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name: "NAME",
	_Byte: "BYTE",

	_Assign: "=",

	_OrOr:   "||",
	_AndAnd: "&&",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Add: "+",
	_Sub: "-",

	_Mul: "*",
	_Div: "/",
	_Rem: "%",

	_Not: "!",

	_Arrow:  "->",
	_Lparen: "(",
	_Rparen: ")",
	_Lbrace: "{",
	_Rbrace: "}",
	_Semi:   ";",
	_Colon:  ":",

	_Declare: "declare",
	_Define:  "define",
	_Else:    "else",
	_For:     "for",
	_If:      "if",
	_Mutate:  "mutate",
	_Pass:    "pass",
	_Return:  "return",
	_Var:     "var",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the binding power of a binary operator.
// Returns 0 for non-operators.
//
//	1: + - == != < <= > >= && ||
//	2: * / %
func (t Token) Precedence() int {
	switch t {
	case _Add, _Sub, _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq, _AndAnd, _OrOr:
		return 1
	case _Mul, _Div, _Rem:
		return 2
	}
	return 0
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Declare && t <= _Var
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Not
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// IsError reports whether t is a lexical error token.
func (t Token) IsError() bool {
	return t == _Error
}

var keywords = map[string]Token{
	"declare": _Declare,
	"define":  _Define,
	"else":    _Else,
	"for":     _For,
	"if":      _If,
	"mutate":  _Mutate,
	"pass":    _Pass,
	"return":  _Return,
	"var":     _Var,
}

// LookupKeyword returns the token for the given identifier string.
// Type spellings such as byte and void are not keywords; they scan as _Name
// and are resolved when a declaration is registered.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
