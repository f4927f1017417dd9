package irgen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/sug/internal/ir"
	"github.com/you-not-fish/sug/internal/syntax"
	"github.com/you-not-fish/sug/internal/types"
)

// handle is the mock's function, block and value handle.
type handle string

func (h handle) String() string { return string(h) }

// mockBuilder records every builder call as one line of text.
type mockBuilder struct {
	log       []string
	nval      int
	nblk      int
	verifyErr error
}

var _ ir.Builder = (*mockBuilder)(nil)

func (m *mockBuilder) logf(format string, args ...interface{}) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
}

// val logs an instruction that produces a value and returns its handle.
func (m *mockBuilder) val(format string, args ...interface{}) ir.Value {
	h := handle(fmt.Sprintf("%%%d", m.nval))
	m.nval++
	m.logf("%s = "+format, append([]interface{}{h}, args...)...)
	return h
}

func (m *mockBuilder) NewFunction(name string, sig *types.Signature) ir.Function {
	m.logf("func %s: %s", name, sig)
	return handle("@" + name)
}

func (m *mockBuilder) NewBlock(fn ir.Function, hint string) ir.Block {
	h := handle(fmt.Sprintf("b%d", m.nblk))
	m.nblk++
	m.logf("block %s %s %s", fn, h, hint)
	return h
}

func (m *mockBuilder) RemoveBlock(b ir.Block) { m.logf("remove %s", b) }
func (m *mockBuilder) SetInsertPoint(b ir.Block) { m.logf("insert %s", b) }
func (m *mockBuilder) SetPos(syntax.Pos) {}
func (m *mockBuilder) Store(slot, v ir.Value) { m.logf("store %s %s", slot, v) }
func (m *mockBuilder) Jump(target ir.Block) { m.logf("jump %s", target) }
func (m *mockBuilder) Alloca(name string) ir.Value { return m.val("alloca %s", name) }
func (m *mockBuilder) ConstByte(c uint8) ir.Value { return m.val("const %d", c) }
func (m *mockBuilder) Load(slot ir.Value) ir.Value { return m.val("load %s", slot) }
func (m *mockBuilder) NonZero(x ir.Value) ir.Value { return m.val("nonzero %s", x) }
func (m *mockBuilder) Not(x ir.Value) ir.Value { return m.val("not %s", x) }
func (m *mockBuilder) ZeroExt(x ir.Value) ir.Value { return m.val("zext %s", x) }

func (m *mockBuilder) Param(fn ir.Function, i int, name string) ir.Value {
	return m.val("param %s %d %s", fn, i, name)
}

func (m *mockBuilder) Binary(op ir.Op, x, y ir.Value) ir.Value {
	return m.val("%s %s %s", op, x, y)
}

func (m *mockBuilder) Call(fn ir.Function, args []ir.Value) ir.Value {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(" " + a.String())
	}
	return m.val("call %s%s", fn, sb.String())
}

func (m *mockBuilder) Branch(cond ir.Value, then, els ir.Block) {
	m.logf("branch %s %s %s", cond, then, els)
}

func (m *mockBuilder) Return(v ir.Value) {
	if v == nil {
		m.logf("return")
		return
	}
	m.logf("return %s", v)
}

func (m *mockBuilder) Verify() error {
	m.logf("verify")
	return m.verifyErr
}
