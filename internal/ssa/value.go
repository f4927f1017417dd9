package ssa

import (
	"fmt"

	"github.com/you-not-fish/sug/internal/syntax"
	"github.com/you-not-fish/sug/internal/types"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single SSA computation.
// Each Value has exactly one definition and may be used by other Values.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// Type is the result type of this value.
	// Nil for void operations (Store, calls of void functions).
	// For OpAlloca it is the type of the slot's contents.
	Type types.Type

	// Args are the input values to this operation.
	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	// AuxInt holds an auxiliary integer (constant value, param index).
	AuxInt int64

	// Aux holds arbitrary auxiliary data (variable name, callee *Func).
	Aux interface{}

	// Uses tracks the number of references to this value.
	Uses int32

	// Pos is the source position associated with this value.
	Pos syntax.Pos
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns a detailed string representation including op, type, and args.
func (v *Value) LongString() string {
	return formatValue(v)
}

// AddArg appends a value to the argument list and increments the arg's use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// ReplaceArg replaces the argument at index i, adjusting use counts.
func (v *Value) ReplaceArg(i int, new *Value) {
	old := v.Args[i]
	old.Uses--
	v.Args[i] = new
	new.Uses++
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}

// Callee returns the function called by an OpStaticCall value, or nil.
func (v *Value) Callee() *Func {
	if v.Op != OpStaticCall {
		return nil
	}
	fn, _ := v.Aux.(*Func)
	return fn
}
