package ssa

import (
	"github.com/you-not-fish/sug/internal/syntax"
	"github.com/you-not-fish/sug/internal/types"
)

// Func represents an SSA function.
// It contains a control flow graph of Blocks, each containing Values.
// A Func with no blocks is external: it is declared but defined elsewhere.
type Func struct {
	// Name is the source-level function name.
	Name string

	// Sig is the declared signature.
	Sig *types.Signature

	// Blocks is the list of basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block

	// Entry is the entry block (same as Blocks[0]), nil for external functions.
	Entry *Block

	// Params holds the OpArg value of each parameter that has been requested.
	Params []*Value

	// nextValueID is the next available value ID.
	nextValueID ID

	// nextBlockID is the next available block ID.
	nextBlockID ID
}

// NewFunc creates a new SSA function with the given name and signature.
// It has no blocks until NewBlock is called.
func NewFunc(name string, sig *types.Signature) *Func {
	return &Func{
		Name:   name,
		Sig:    sig,
		Params: make([]*Value, sig.NumParams()),
	}
}

// String returns the function name.
func (f *Func) String() string { return f.Name }

// IsExternal reports whether f has no body.
func (f *Func) IsExternal() bool { return len(f.Blocks) == 0 }

// NewBlock creates a new basic block with the given kind and appends it to the function.
// The first block becomes the entry.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	if f.Entry == nil {
		f.Entry = b
	}
	return b
}

// NewValue creates a new Value in the given block.
func (f *Func) NewValue(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.Values = append(b.Values, v)
	return v
}

// NewValuePos creates a new Value with source position in the given block.
func (f *Func) NewValuePos(b *Block, op Op, typ types.Type, pos syntax.Pos, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Pos = pos
	return v
}

// Param returns the OpArg value for parameter i, creating it in the entry
// block on first use.
func (f *Func) Param(i int, name string) *Value {
	if v := f.Params[i]; v != nil {
		return v
	}
	v := f.NewValue(f.Entry, OpArg, f.Sig.Param(i))
	v.AuxInt = int64(i)
	v.Aux = name
	f.Params[i] = v
	return v
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}

// removeBlock deletes b from the block list.
func (f *Func) removeBlock(b *Block) {
	for i, blk := range f.Blocks {
		if blk == b {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			return
		}
	}
}
