package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you-not-fish/sug/internal/abi"
	"github.com/you-not-fish/sug/internal/ssa"
)

// lowerFunc emits the LLVM IR for a single SSA function.
func (g *generator) lowerFunc(fn *ssa.Func) {
	g.e.tmp = 0

	retType := llvmType(fn.Sig.Result())
	if isThunk(fn) {
		retType = abi.LLVMTypeEntry
		g.e.emitComment("process entry: runs %s and exits with its result", g.m.Entry)
	}

	params := make([]string, fn.Sig.NumParams())
	for i := range params {
		params[i] = fmt.Sprintf("%s %s", llvmType(fn.Sig.Param(i)), paramName(fn, i))
	}

	g.e.emit("define %s @%s(%s) {", retType, g.symbol(fn), strings.Join(params, ", "))
	for _, b := range fn.Blocks {
		g.lowerBlock(b)
	}
	g.e.emit("}")
}

// lowerBlock emits the LLVM IR for a single basic block.
func (g *generator) lowerBlock(b *ssa.Block) {
	g.e.emitLabel(b)
	for _, v := range b.Values {
		g.lowerValue(v)
	}
	g.lowerTerminator(b)
}

// binInsts maps two-operand SSA ops to LLVM instructions.
var binInsts = map[ssa.Op]string{
	ssa.OpAdd8:    "add i8",
	ssa.OpSub8:    "sub i8",
	ssa.OpMul8:    "mul i8",
	ssa.OpDiv8U:   "udiv i8",
	ssa.OpMod8U:   "urem i8",
	ssa.OpEq8:     "icmp eq i8",
	ssa.OpNeq8:    "icmp ne i8",
	ssa.OpLt8U:    "icmp ult i8",
	ssa.OpLeq8U:   "icmp ule i8",
	ssa.OpGt8U:    "icmp ugt i8",
	ssa.OpGeq8U:   "icmp uge i8",
	ssa.OpAndBool: "and i1",
	ssa.OpOrBool:  "or i1",
}

// lowerValue emits the LLVM IR for a single SSA value.
func (g *generator) lowerValue(v *ssa.Value) {
	if inst, ok := binInsts[v.Op]; ok {
		g.e.emitInst("%s = %s %s, %s", valueName(v), inst, g.operand(v.Args[0]), g.operand(v.Args[1]))
		return
	}

	switch v.Op {
	// Constants are inlined at use sites; parameters are named directly.
	case ssa.OpConst8, ssa.OpArg:
		return

	case ssa.OpNonZero:
		g.e.emitInst("%s = icmp ne i8 %s, 0", valueName(v), g.operand(v.Args[0]))
	case ssa.OpNot:
		g.e.emitInst("%s = xor i1 %s, true", valueName(v), g.operand(v.Args[0]))
	case ssa.OpZeroExt:
		g.e.emitInst("%s = zext i1 %s to i8", valueName(v), g.operand(v.Args[0]))

	case ssa.OpAlloca:
		g.e.emitInst("%s = alloca %s, align %d", valueName(v), abi.LLVMTypeByte, slotAlign)
	case ssa.OpLoad:
		g.e.emitInst("%s = load %s, %s %s, align %d", valueName(v), llvmType(v.Type),
			abi.LLVMTypePtr, g.operand(v.Args[0]), slotAlign)
	case ssa.OpStore:
		g.e.emitInst("store %s %s, %s %s, align %d", llvmType(v.Args[1].Type), g.operand(v.Args[1]),
			abi.LLVMTypePtr, g.operand(v.Args[0]), slotAlign)

	case ssa.OpStaticCall:
		g.lowerStaticCall(v)

	default:
		g.fail("func %s: unhandled op %s", v.Block.Func.Name, v.Op)
	}
}

// lowerStaticCall emits a direct function call.
func (g *generator) lowerStaticCall(v *ssa.Value) {
	callee := v.Callee()
	if callee == nil {
		g.fail("func %s: %s: call without callee", v.Block.Func.Name, v)
		return
	}

	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = fmt.Sprintf("%s %s", llvmType(a.Type), g.operand(a))
	}

	retType := llvmType(callee.Sig.Result())
	if retType == abi.LLVMTypeVoid {
		g.e.emitInst("call void @%s(%s)", g.symbol(callee), strings.Join(args, ", "))
		return
	}
	g.e.emitInst("%s = call %s @%s(%s)", valueName(v), retType, g.symbol(callee), strings.Join(args, ", "))
}

// lowerTerminator emits the block terminator instruction.
func (g *generator) lowerTerminator(b *ssa.Block) {
	switch b.Kind {
	case ssa.BlockPlain:
		g.e.emitInst("br label %%%s", blockName(b.Succs[0]))
	case ssa.BlockIf:
		g.e.emitInst("br i1 %s, label %%%s, label %%%s",
			g.operand(b.Controls[0]), blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ssa.BlockReturn:
		g.lowerReturn(b)
	default:
		g.fail("func %s, %s: block is not terminated", b.Func.Name, b)
	}
}

// lowerReturn emits a return. The entry thunk widens its byte result to the
// C exit status.
func (g *generator) lowerReturn(b *ssa.Block) {
	if len(b.Controls) == 0 {
		if isThunk(b.Func) {
			g.e.emitInst("ret %s 0", abi.LLVMTypeEntry)
			return
		}
		g.e.emitInst("ret void")
		return
	}

	rv := b.Controls[0]
	if isThunk(b.Func) {
		tmp := g.e.nextTmp()
		g.e.emitInst("%s = zext i8 %s to %s", tmp, g.operand(rv), abi.LLVMTypeEntry)
		g.e.emitInst("ret %s %s", abi.LLVMTypeEntry, tmp)
		return
	}
	g.e.emitInst("ret %s %s", llvmType(rv.Type), g.operand(rv))
}

// operand returns the LLVM IR operand string for an SSA value.
// Constants are inlined, parameters use their names, others use %vN.
func (g *generator) operand(v *ssa.Value) string {
	switch v.Op {
	case ssa.OpConst8:
		return strconv.FormatUint(uint64(uint8(v.AuxInt)), 10)
	case ssa.OpArg:
		return paramName(v.Block.Func, int(v.AuxInt))
	}
	return valueName(v)
}
