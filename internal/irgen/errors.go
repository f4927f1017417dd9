package irgen

import (
	"fmt"

	"github.com/you-not-fish/sug/internal/syntax"
)

// ErrorKind classifies generator diagnostics.
type ErrorKind int

const (
	_ ErrorKind = iota

	UnknownType   // type spelling other than byte or void
	Duplicate     // function declared or defined twice, repeated parameter
	Undeclared    // define without a matching declare
	Reserved      // function name collides with a compiler-owned symbol
	Arity         // parameter or argument count mismatch
	Unbound       // unknown variable, mutate target or call target
	VoidValue     // void call used where a byte is required
	VoidReturn    // value returned from a void function
	MissingReturn // control reaches the end of a byte function
	InvalidAST    // node the parser never produces in this position
)

var kindNames = [...]string{
	UnknownType:   "unknown type",
	Duplicate:     "duplicate",
	Undeclared:    "undeclared",
	Reserved:      "reserved name",
	Arity:         "arity",
	Unbound:       "unbound name",
	VoidValue:     "void value",
	VoidReturn:    "void return",
	MissingReturn: "missing return",
	InvalidAST:    "invalid AST",
}

func (k ErrorKind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a generator diagnostic.
type Error struct {
	Pos  syntax.Pos
	Kind ErrorKind
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorHandler is called for the diagnostic that aborts generation.
type ErrorHandler func(pos syntax.Pos, msg string)

// bailout is panicked after the first error and recovered by Generate.
type bailout struct{}

// errorf reports an error at pos and abandons generation.
func (g *generator) errorf(pos syntax.Pos, kind ErrorKind, format string, args ...interface{}) {
	err := &Error{Pos: pos, Kind: kind, Msg: fmt.Sprintf(format, args...)}
	g.first = err
	if g.conf.Error != nil {
		g.conf.Error(err.Pos, err.Msg)
	}
	panic(bailout{})
}
