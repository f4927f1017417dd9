package codegen

import (
	"fmt"
	"io"

	"github.com/you-not-fish/sug/internal/ssa"
)

// emitter wraps an io.Writer with helpers for emitting LLVM IR text.
// The first write error sticks and silences all later output.
type emitter struct {
	w   io.Writer
	err error
	tmp int // counter for anonymous temporaries (%t0, %t1, ...)
}

// emit writes a formatted line with no indentation.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// emitComment writes a comment line.
func (e *emitter) emitComment(format string, args ...interface{}) {
	e.emit("; "+format, args...)
}

// emitLabel writes a basic block label.
func (e *emitter) emitLabel(b *ssa.Block) {
	e.emit("%s:", blockName(b))
}

// emitInst writes an indented instruction line.
func (e *emitter) emitInst(format string, args ...interface{}) {
	e.emit("  "+format, args...)
}

// nextTmp returns the next anonymous temporary name. Temporaries are
// numbered per function.
func (e *emitter) nextTmp() string {
	name := fmt.Sprintf("%%t%d", e.tmp)
	e.tmp++
	return name
}

// valueName returns the LLVM local name for an SSA value: %vN.
func valueName(v *ssa.Value) string {
	return fmt.Sprintf("%%v%d", v.ID)
}

// blockName returns the LLVM label for an SSA block.
// The entry block is "entry", others are "bN".
func blockName(b *ssa.Block) string {
	if b == b.Func.Entry {
		return "entry"
	}
	return fmt.Sprintf("b%d", b.ID)
}

// paramName returns the LLVM name of parameter i of fn. Source names get a
// "p." prefix so they never collide with %vN and %tN.
func paramName(fn *ssa.Func, i int) string {
	if v := fn.Params[i]; v != nil {
		if name, ok := v.Aux.(string); ok && name != "" {
			return "%p." + name
		}
	}
	return fmt.Sprintf("%%p%d", i)
}
