package ssa

import (
	"fmt"

	"github.com/you-not-fish/sug/internal/ir"
	"github.com/you-not-fish/sug/internal/syntax"
	"github.com/you-not-fish/sug/internal/types"
)

// Builder is the ir.Builder backed by an SSA Module.
//
// Misuse of the cursor (emitting into a terminated block, or with no block
// selected) is a generator bug and panics.
type Builder struct {
	m *Module

	fn  *Func      // function of the current block
	b   *Block     // current block (nil = no insertion point)
	pos syntax.Pos // position attached to new values
}

var _ ir.Builder = (*Builder)(nil)

// NewBuilder returns a Builder producing a fresh module whose user entry
// function is named entry.
func NewBuilder(entry string) *Builder {
	return &Builder{m: NewModule(entry)}
}

// Module returns the module under construction.
func (b *Builder) Module() *Module {
	return b.m
}

// NewFunction implements ir.Builder.
func (b *Builder) NewFunction(name string, sig *types.Signature) ir.Function {
	return b.m.NewFunc(name, sig)
}

// NewBlock implements ir.Builder.
func (b *Builder) NewBlock(fn ir.Function, hint string) ir.Block {
	blk := asFunc(fn).NewBlock(BlockInvalid)
	blk.Hint = hint
	return blk
}

// RemoveBlock implements ir.Builder.
func (b *Builder) RemoveBlock(blk ir.Block) {
	dead := asBlock(blk)
	if len(dead.Preds) != 0 || len(dead.Values) != 0 || dead.Terminated() {
		panic(fmt.Sprintf("ssa: RemoveBlock(%s): block is live", dead))
	}
	dead.Func.removeBlock(dead)
	if b.b == dead {
		b.b = nil
	}
}

// SetInsertPoint implements ir.Builder.
func (b *Builder) SetInsertPoint(blk ir.Block) {
	b.b = asBlock(blk)
	b.fn = b.b.Func
}

// SetPos implements ir.Builder.
func (b *Builder) SetPos(pos syntax.Pos) {
	b.pos = pos
}

// Param implements ir.Builder.
func (b *Builder) Param(fn ir.Function, i int, name string) ir.Value {
	f := asFunc(fn)
	if f.Entry == nil {
		panic(fmt.Sprintf("ssa: Param(%s, %d): function has no entry block", f.Name, i))
	}
	v := f.Param(i, name)
	v.Pos = b.pos
	return v
}

// ConstByte implements ir.Builder.
func (b *Builder) ConstByte(c uint8) ir.Value {
	v := b.emit(OpConst8, types.Typ[types.Byte])
	v.AuxInt = int64(c)
	return v
}

// Alloca implements ir.Builder.
// All allocas go into the entry block so every slot dominates its uses.
func (b *Builder) Alloca(name string) ir.Value {
	b.cursor()
	v := b.fn.NewValuePos(b.fn.Entry, OpAlloca, types.Typ[types.Byte], b.pos)
	v.Aux = name
	return v
}

// Load implements ir.Builder.
func (b *Builder) Load(slot ir.Value) ir.Value {
	s := asValue(slot)
	v := b.emit(OpLoad, s.Type, s)
	v.Aux = s.Aux
	return v
}

// Store implements ir.Builder.
func (b *Builder) Store(slot, val ir.Value) {
	b.emit(OpStore, nil, asValue(slot), asValue(val))
}

// binaryOps maps generator ops to SSA ops.
var binaryOps = map[ir.Op]Op{
	ir.OpAdd:  OpAdd8,
	ir.OpSub:  OpSub8,
	ir.OpMul:  OpMul8,
	ir.OpUDiv: OpDiv8U,
	ir.OpURem: OpMod8U,
	ir.OpEq:   OpEq8,
	ir.OpNe:   OpNeq8,
	ir.OpUGt:  OpGt8U,
	ir.OpULt:  OpLt8U,
	ir.OpUGe:  OpGeq8U,
	ir.OpULe:  OpLeq8U,
	ir.OpAnd:  OpAndBool,
	ir.OpOr:   OpOrBool,
}

// Binary implements ir.Builder.
func (b *Builder) Binary(op ir.Op, x, y ir.Value) ir.Value {
	sop, ok := binaryOps[op]
	if !ok {
		panic(fmt.Sprintf("ssa: Binary: unknown op %s", op))
	}
	typ := types.Typ[types.Byte]
	if !op.IsArith() {
		typ = types.Typ[types.Bool]
	}
	return b.emit(sop, typ, asValue(x), asValue(y))
}

// NonZero implements ir.Builder.
func (b *Builder) NonZero(x ir.Value) ir.Value {
	return b.emit(OpNonZero, types.Typ[types.Bool], asValue(x))
}

// Not implements ir.Builder.
func (b *Builder) Not(x ir.Value) ir.Value {
	return b.emit(OpNot, types.Typ[types.Bool], asValue(x))
}

// ZeroExt implements ir.Builder.
func (b *Builder) ZeroExt(x ir.Value) ir.Value {
	return b.emit(OpZeroExt, types.Typ[types.Byte], asValue(x))
}

// Call implements ir.Builder.
func (b *Builder) Call(fn ir.Function, args []ir.Value) ir.Value {
	callee := asFunc(fn)
	var typ types.Type
	if !types.IsVoid(callee.Sig.Result()) {
		typ = callee.Sig.Result()
	}
	v := b.emit(OpStaticCall, typ)
	for _, a := range args {
		v.AddArg(asValue(a))
	}
	v.Aux = callee
	return v
}

// Jump implements ir.Builder.
func (b *Builder) Jump(target ir.Block) {
	b.cursor()
	b.b.Kind = BlockPlain
	b.b.AddSucc(asBlock(target))
}

// Branch implements ir.Builder.
func (b *Builder) Branch(cond ir.Value, then, els ir.Block) {
	b.cursor()
	b.b.Kind = BlockIf
	b.b.SetControl(asValue(cond))
	b.b.AddSucc(asBlock(then))
	b.b.AddSucc(asBlock(els))
}

// Return implements ir.Builder.
func (b *Builder) Return(v ir.Value) {
	b.cursor()
	b.b.Kind = BlockReturn
	if v != nil {
		b.b.SetControl(asValue(v))
	}
}

// Verify implements ir.Builder.
func (b *Builder) Verify() error {
	return VerifyModule(b.m)
}

// cursor checks that there is an open insertion block.
func (b *Builder) cursor() {
	if b.b == nil {
		panic("ssa: no insertion point")
	}
	if b.b.Terminated() {
		panic(fmt.Sprintf("ssa: func %s, %s: emit after terminator", b.fn.Name, b.b))
	}
}

// emit appends a value to the current block.
func (b *Builder) emit(op Op, typ types.Type, args ...*Value) *Value {
	b.cursor()
	return b.fn.NewValuePos(b.b, op, typ, b.pos, args...)
}

func asFunc(h ir.Function) *Func {
	f, ok := h.(*Func)
	if !ok {
		panic(fmt.Sprintf("ssa: foreign function handle %T", h))
	}
	return f
}

func asBlock(h ir.Block) *Block {
	blk, ok := h.(*Block)
	if !ok {
		panic(fmt.Sprintf("ssa: foreign block handle %T", h))
	}
	return blk
}

func asValue(h ir.Value) *Value {
	v, ok := h.(*Value)
	if !ok {
		panic(fmt.Sprintf("ssa: foreign value handle %T", h))
	}
	return v
}
