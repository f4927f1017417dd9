// Package ir defines the minimal IR-builder capability the code generator is
// written against. A concrete backend (package ssa) implements Builder; tests
// substitute a recording mock.
//
// Handles are opaque. They print as their IR names, which is all the
// generator ever needs from them.
package ir

import (
	"fmt"

	"github.com/you-not-fish/sug/internal/syntax"
	"github.com/you-not-fish/sug/internal/types"
)

// Value is a handle to a parameter or instruction result.
type Value interface {
	fmt.Stringer
}

// Block is a handle to a basic block.
type Block interface {
	fmt.Stringer
}

// Function is a handle to a module-level function.
type Function interface {
	fmt.Stringer
}

// Op is a binary instruction of the byte machine.
type Op int

const (
	OpInvalid Op = iota

	// byte x byte -> byte, wrapping modulo 256
	OpAdd
	OpSub
	OpMul
	OpUDiv
	OpURem

	// byte x byte -> bool, unsigned
	OpEq
	OpNe
	OpUGt
	OpULt
	OpUGe
	OpULe

	// bool x bool -> bool
	OpAnd
	OpOr
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpUDiv:    "udiv",
	OpURem:    "urem",
	OpEq:      "eq",
	OpNe:      "ne",
	OpUGt:     "ugt",
	OpULt:     "ult",
	OpUGe:     "uge",
	OpULe:     "ule",
	OpAnd:     "and",
	OpOr:      "or",
}

func (op Op) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// IsArith reports whether op produces a byte.
func (op Op) IsArith() bool { return op >= OpAdd && op <= OpURem }

// IsCompare reports whether op compares two bytes.
func (op Op) IsCompare() bool { return op >= OpEq && op <= OpULe }

// IsLogic reports whether op combines two predicates.
func (op Op) IsLogic() bool { return op == OpAnd || op == OpOr }

// Builder creates functions and blocks and emits instructions at a single
// insertion cursor. Only one block is the insertion target at a time; every
// instruction and terminator goes to the block last passed to SetInsertPoint.
type Builder interface {
	// NewFunction registers a function. A function that never receives a
	// block is external.
	NewFunction(name string, sig *types.Signature) Function

	// NewBlock appends an open block to fn. The first block is the entry.
	// The hint names the block's role in dumps ("then", "loop", ...).
	NewBlock(fn Function, hint string) Block

	// RemoveBlock deletes an unreachable block that has no instructions.
	RemoveBlock(b Block)

	// SetInsertPoint moves the cursor to the end of b.
	SetInsertPoint(b Block)

	// SetPos sets the source position attached to subsequent instructions.
	SetPos(pos syntax.Pos)

	// Param returns fn's i-th incoming parameter.
	Param(fn Function, i int, name string) Value

	// ConstByte emits a byte constant.
	ConstByte(v uint8) Value

	// Alloca creates a named byte stack slot in the entry block of the
	// current function.
	Alloca(name string) Value

	Load(slot Value) Value
	Store(slot, v Value)

	// Binary emits an arithmetic, comparison or logic instruction.
	Binary(op Op, x, y Value) Value

	// NonZero converts a byte to a predicate (x != 0).
	NonZero(x Value) Value

	// Not negates a predicate.
	Not(x Value) Value

	// ZeroExt widens a predicate to a byte (0 or 1).
	ZeroExt(x Value) Value

	// Call emits a direct call. The result of a void callee must not be used.
	Call(fn Function, args []Value) Value

	// Terminators. Each closes the current block.
	Jump(target Block)
	Branch(cond Value, then, els Block)
	Return(v Value) // nil for void

	// Verify checks the finished module.
	Verify() error
}
