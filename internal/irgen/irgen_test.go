package irgen

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/you-not-fish/sug/internal/abi"
	"github.com/you-not-fish/sug/internal/ssa"
	"github.com/you-not-fish/sug/internal/syntax"
	"github.com/you-not-fish/sug/internal/types"
)

func parse(t *testing.T, src string) *syntax.Program {
	t.Helper()
	prog, err := syntax.Parse("test.sug", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return prog
}

// trace generates src against the recording builder and returns its log.
func trace(t *testing.T, src string) []string {
	t.Helper()
	m := &mockBuilder{}
	if err := Generate(parse(t, src), m, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return m.log
}

// build generates src into a fresh SSA module.
func build(t *testing.T, src string) *ssa.Module {
	t.Helper()
	b := ssa.NewBuilder(abi.DefaultEntry)
	if err := Generate(parse(t, src), b, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return b.Module()
}

// genError generates src and returns the diagnostic it must produce.
func genError(t *testing.T, src string, conf *Config) *Error {
	t.Helper()
	err := Generate(parse(t, src), ssa.NewBuilder(abi.DefaultEntry), conf)
	if err == nil {
		t.Fatalf("Generate succeeded, want error")
	}
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v (%T) is not an *Error", err, err)
	}
	return gerr
}

func assertLog(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("builder log mismatch:\ngot:\n  %s\nwant:\n  %s",
			strings.Join(got, "\n  "), strings.Join(want, "\n  "))
	}
}

const voidMain = " declare main = !; define main = { pass; };"

func TestGenerateAddScenario(t *testing.T) {
	got := trace(t, "declare add = byte -> byte -> byte; define add x y = { return x + y; };"+voidMain)
	assertLog(t, got, []string{
		"func add: byte -> byte -> byte",
		"func main: void",
		"block @add b0 entry",
		"insert b0",
		"%0 = param @add 0 x",
		"%1 = param @add 1 y",
		"%2 = add %0 %1",
		"return %2",
		"block @main b1 entry",
		"insert b1",
		"return",
		"func __sug_entry: byte",
		"block @__sug_entry b2 entry",
		"insert b2",
		"%3 = call @main",
		"%4 = const 0",
		"return %4",
		"verify",
	})
}

func TestGenerateAddModule(t *testing.T) {
	m := build(t, "declare add = byte -> byte -> byte; define add x y = { return x + y; };"+voidMain)

	add := m.Lookup("add")
	if add == nil {
		t.Fatal("module has no add")
	}
	if add.Sig.NumParams() != 2 || !types.IsByte(add.Sig.Param(0)) || !types.IsByte(add.Sig.Param(1)) {
		t.Errorf("add signature = %s, want byte -> byte -> byte", add.Sig)
	}
	if !types.IsByte(add.Sig.Result()) {
		t.Errorf("add result = %s, want byte", add.Sig.Result())
	}
	if add.NumBlocks() != 1 {
		t.Fatalf("add has %d blocks, want 1", add.NumBlocks())
	}
	adds := 0
	for _, v := range add.Entry.Values {
		if v.Op == ssa.OpAdd8 {
			adds++
		}
	}
	if adds != 1 || add.Entry.Kind != ssa.BlockReturn {
		t.Errorf("entry has %d adds and kind %s, want 1 add and a return", adds, add.Entry.Kind)
	}
}

func TestGeneratePrecedence(t *testing.T) {
	got := trace(t, "declare main = byte; define main = { return 1 + 2 * 3; };")
	assertLog(t, got[3:9], []string{
		"%0 = const 1",
		"%1 = const 2",
		"%2 = const 3",
		"%3 = mul %1 %2",
		"%4 = add %0 %3",
		"return %4",
	})
	// A byte entry's result is returned directly.
	assertLog(t, got[len(got)-3:], []string{"%5 = call @main", "return %5", "verify"})
}

func TestGenerateOperators(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"-5", []string{"%0 = const 0", "%1 = const 5", "%2 = sub %0 %1"}},
		{"!7", []string{"%0 = const 7", "%1 = nonzero %0", "%2 = not %1", "%3 = zext %2"}},
		{"9 / 2", []string{"%0 = const 9", "%1 = const 2", "%2 = udiv %0 %1"}},
		{"9 % 2", []string{"%0 = const 9", "%1 = const 2", "%2 = urem %0 %1"}},
		{"3 >= 2", []string{"%0 = const 3", "%1 = const 2", "%2 = uge %0 %1", "%3 = zext %2"}},
		{"3 != 2", []string{"%0 = const 3", "%1 = const 2", "%2 = ne %0 %1", "%3 = zext %2"}},
		{"1 && 0", []string{"%0 = const 1", "%1 = const 0", "%2 = nonzero %0", "%3 = nonzero %1", "%4 = and %2 %3", "%5 = zext %4"}},
		{"1 || 0", []string{"%0 = const 1", "%1 = const 0", "%2 = nonzero %0", "%3 = nonzero %1", "%4 = or %2 %3", "%5 = zext %4"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := trace(t, "declare main = byte; define main = { return "+tt.expr+"; };")
			assertLog(t, got[3:3+len(tt.want)], tt.want)
		})
	}
}

func TestGenerateBooleanWidth(t *testing.T) {
	m := build(t, "declare main = byte; define main = { return (3 > 2); };")
	main := m.Lookup("main")
	ret := main.Entry.Controls[0]
	if ret.Op != ssa.OpZeroExt || ret.Args[0].Op != ssa.OpGt8U {
		t.Fatalf("return value = %s, want ZeroExt of Gt8U", ret.LongString())
	}
	lit := build(t, "declare main = byte; define main = { return 3; };").Lookup("main").Entry.Controls[0]
	if !types.Identical(ret.Type, lit.Type) {
		t.Errorf("comparison type %v differs from literal type %v", ret.Type, lit.Type)
	}
}

func TestGenerateIfElseBlocks(t *testing.T) {
	m := build(t, "declare main = !; define main = { if 1 > 0 ; { var a = 1; } ; else ; { var a = 2; } ; };")
	main := m.Lookup("main")
	if main.NumBlocks() != 4 {
		t.Fatalf("main has %d blocks, want 4:\n%s", main.NumBlocks(), ssa.Sprint(main))
	}
	hints := []string{"entry", "then", "else", "end"}
	for i, b := range main.Blocks {
		if b.Hint != hints[i] {
			t.Errorf("block %d hint = %q, want %q", i, b.Hint, hints[i])
		}
		if !b.Terminated() {
			t.Errorf("block %s is not terminated", b)
		}
	}
}

func TestGenerateIfBothReturn(t *testing.T) {
	got := trace(t, "declare f = byte -> byte; define f x = { if x; { return 1; }; else; { return 2; }; };"+voidMain)
	assertLog(t, got[2:17], []string{
		"block @f b0 entry",
		"insert b0",
		"%0 = param @f 0 x",
		"%1 = nonzero %0",
		"block @f b1 then",
		"block @f b2 else",
		"block @f b3 end",
		"branch %1 b1 b2",
		"insert b1",
		"%2 = const 1",
		"return %2",
		"insert b2",
		"%3 = const 2",
		"return %3",
		"remove b3",
	})
	if got[17] != "block @main b4 entry" {
		t.Errorf("after f: %q, want main's entry block", got[17])
	}
}

func TestGenerateLoop(t *testing.T) {
	got := trace(t, "declare main = !; define main = { for var i = 0; i < 3; mutate i = i + 1; { pass; }; };")
	assertLog(t, got, []string{
		"func main: void",
		"block @main b0 entry",
		"insert b0",
		"%0 = alloca i",
		"%1 = const 0",
		"store %0 %1",
		"%2 = load %0",
		"%3 = const 3",
		"%4 = ult %2 %3",
		"%5 = zext %4",
		"%6 = nonzero %5",
		"block @main b1 loop",
		"block @main b2 end",
		"branch %6 b1 b2",
		"insert b1",
		"%7 = load %0",
		"%8 = const 1",
		"%9 = add %7 %8",
		"store %0 %9",
		"%10 = load %0",
		"%11 = const 3",
		"%12 = ult %10 %11",
		"%13 = zext %12",
		"%14 = nonzero %13",
		"branch %14 b1 b2",
		"insert b2",
		"return",
		"func __sug_entry: byte",
		"block @__sug_entry b3 entry",
		"insert b3",
		"%15 = call @main",
		"%16 = const 0",
		"return %16",
		"verify",
	})
}

func TestGenerateLoopConditionTwice(t *testing.T) {
	m := build(t, `declare main = byte;
define main = {
	var s = 0;
	for var i = 0; i < 10; mutate i = i + 1; {
		mutate s = s + i;
	};
	return s;
};`)
	main := m.Lookup("main")

	var cmps []*ssa.Value
	for _, b := range main.Blocks {
		for _, v := range b.Values {
			if v.Op.IsCompare() {
				cmps = append(cmps, v)
			}
		}
	}
	if len(cmps) != 2 {
		t.Fatalf("found %d comparisons, want 2:\n%s", len(cmps), ssa.Sprint(main))
	}
	a, b := cmps[0], cmps[1]
	if a.Block == b.Block {
		t.Error("both comparisons are in the same block")
	}
	if a.Op != b.Op || a.Args[0].Op != b.Args[0].Op || a.Args[1].AuxInt != b.Args[1].AuxInt {
		t.Errorf("comparisons differ: %s vs %s", a.LongString(), b.LongString())
	}
	if a.Args[0].Args[0] != b.Args[0].Args[0] {
		t.Error("comparisons load different slots")
	}
}

func TestGenerateMutatedParam(t *testing.T) {
	got := trace(t, "declare f = byte -> byte; define f n = { mutate n = n - 1; return n; };"+voidMain)
	assertLog(t, got[4:14], []string{
		"%0 = param @f 0 n",
		"%1 = alloca n",
		"store %1 %0",
		"%2 = load %1",
		"%3 = const 1",
		"%4 = sub %2 %3",
		"store %1 %4",
		"%5 = load %1",
		"return %5",
		"block @main b1 entry",
	})
}

func TestGenerateShadowing(t *testing.T) {
	got := trace(t, `declare main = byte;
define main = {
	var x = 1;
	if 1; { var x = 2; pass; }; else; { pass; };
	return x;
};`)
	want := []string{
		"%0 = alloca x",
		"%1 = const 1",
		"store %0 %1",
		"%2 = const 1",
		"%3 = nonzero %2",
		"block @main b1 then",
		"block @main b2 else",
		"block @main b3 end",
		"branch %3 b1 b2",
		"insert b1",
		"%4 = alloca x",
		"%5 = const 2",
		"store %4 %5",
		"jump b3",
		"insert b2",
		"jump b3",
		"insert b3",
		"%6 = load %0",
		"return %6",
	}
	assertLog(t, got[3:3+len(want)], want)
}

func TestGenerateAssignSeesOuterBinding(t *testing.T) {
	got := trace(t, "declare main = byte; define main = { var x = 1; if 1; { var x = x + 1; return x; }; else; { pass; }; return x; };")
	for _, want := range []string{"%4 = alloca x", "%5 = load %0", "%8 = load %4", "%9 = load %0"} {
		if !contains(got, want) {
			t.Errorf("log missing %q:\n  %s", want, strings.Join(got, "\n  "))
		}
	}
}

func TestGenerateVoidCallStatement(t *testing.T) {
	got := trace(t, "declare put = byte -> !; declare main = !; define main = { put: 65; pass; };")
	assertLog(t, got[4:8], []string{
		"%0 = const 65",
		"%1 = call @put %0",
		"return",
		"func __sug_entry: byte",
	})
}

func TestGenerateReturnVoidCall(t *testing.T) {
	m := build(t, "declare f = !; define f = { pass; }; declare g = !; define g = { return f:; f:; };"+voidMain)

	g := m.Lookup("g")
	if g.NumBlocks() != 1 {
		t.Fatalf("g has %d blocks, want 1", g.NumBlocks())
	}
	calls := 0
	for _, v := range g.Entry.Values {
		if v.Op == ssa.OpStaticCall {
			calls++
		}
	}
	if calls != 1 {
		t.Errorf("g makes %d calls, want 1:\n%s", calls, ssa.Sprint(g))
	}
	if g.Entry.Kind != ssa.BlockReturn || len(g.Entry.Controls) != 0 {
		t.Errorf("g entry is %s with %d controls, want a void return", g.Entry.Kind, len(g.Entry.Controls))
	}
}

func TestGenerateReturnVoidCallInBranch(t *testing.T) {
	got := trace(t, "declare f = !; declare main = !; define main = { if 1; { return f:; }; else; { pass; }; f:; };")
	assertLog(t, got[2:18], []string{
		"block @main b0 entry",
		"insert b0",
		"%0 = const 1",
		"%1 = nonzero %0",
		"block @main b1 then",
		"block @main b2 else",
		"block @main b3 end",
		"branch %1 b1 b2",
		"insert b1",
		"%2 = call @f",
		"return",
		"insert b2",
		"jump b3",
		"insert b3",
		"%3 = call @f",
		"return",
	})
}

func TestGenerateForwardCall(t *testing.T) {
	m := build(t, `declare main = byte;
define main = { return twice: 4; };
declare twice = byte -> byte;
define twice x = x + x;`)
	if m.Lookup("twice").IsExternal() {
		t.Error("twice should be defined")
	}
}

func TestGenerateExternal(t *testing.T) {
	m := build(t, "declare getc = byte; declare main = byte; define main = { return getc:; };")
	if !m.Lookup("getc").IsExternal() {
		t.Error("declared-only function should be external")
	}
	thunk := m.Lookup(abi.EntryThunk)
	if thunk == nil || thunk.IsExternal() {
		t.Fatal("entry thunk missing")
	}
	if callee := thunk.Entry.Controls[0].Callee(); callee == nil || callee.Name != "main" {
		t.Errorf("thunk returns %s, want the call of main", thunk.Entry.Controls[0].LongString())
	}
}

func TestGenerateCustomEntry(t *testing.T) {
	b := ssa.NewBuilder("start")
	prog := parse(t, "declare start = byte; define start = { return 3; };")
	if err := Generate(prog, b, &Config{Entry: "start"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if b.Module().Lookup(abi.EntryThunk) == nil {
		t.Error("entry thunk missing")
	}

	gerr := genError(t, "declare main = !; define main = { pass; };", &Config{Entry: "start"})
	if gerr.Kind != Reserved {
		t.Errorf("Kind = %s, want %s", gerr.Kind, Reserved)
	}
}

func TestGenerateNoEntry(t *testing.T) {
	m := &mockBuilder{}
	prog := parse(t, "declare inc = byte -> byte; define inc x = x + 1;")
	if err := Generate(prog, m, &Config{NoEntry: true}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, line := range m.log {
		if strings.Contains(line, abi.EntryThunk) {
			t.Errorf("entry synthesized without an entry function: %q", line)
		}
	}
	if last := m.log[len(m.log)-1]; last != "verify" {
		t.Errorf("last builder call = %q, want verify", last)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	prog := parse(t, `declare put = byte -> !;
declare sum = byte -> byte;
define sum n = {
	var s = 0;
	for pass; n > 0; mutate n = n - 1; {
		if n % 2 == 0 && !(n > 8); { mutate s = s + n; }; else; { pass; };
	};
	return s;
};
declare main = byte;
define main = { put: (sum: 10); return sum: 4; };`)

	var dumps []string
	for i := 0; i < 2; i++ {
		b := ssa.NewBuilder(abi.DefaultEntry)
		if err := Generate(prog, b, nil); err != nil {
			t.Fatalf("Generate #%d: %v", i, err)
		}
		dumps = append(dumps, ssa.SprintModule(b.Module()))
	}
	if dumps[0] != dumps[1] {
		t.Errorf("modules differ:\n%s\n---\n%s", dumps[0], dumps[1])
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	srcs := []string{
		"declare main = byte; define main = 0;",
		"declare main = byte; define main = { var x = 1; x };",
		"declare main = !; define main = { };",
		"declare main = byte; define main = { if 1; { pass; }; else; { return 2; }; return 3; };",
		"declare main = byte; define main = { for pass; 0; pass; { return 1; }; return 0; };",
		"declare main = byte; define main = { var i = 0; for pass; i < 5; pass; { if i == 3; { return i; }; else; { mutate i = i + 1; }; }; return 9; };",
		"declare f = ! -> byte -> !; define f x = { pass; }; declare main = !; define main = { f: 1; };",
	}
	for _, src := range srcs {
		build(t, src)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind ErrorKind
		msg  string
	}{
		{"unknown_type", "declare f = word;", UnknownType, "unknown type word"},
		{"redeclared", "declare f = !; declare f = !;", Duplicate, "f redeclared (previous declaration at test.sug:1:1)"},
		{"redefined", "declare main = !; define main = { pass; }; define main = { pass; };", Duplicate, "main redefined"},
		{"undeclared", "define g = { pass; };" + voidMain, Undeclared, "definition of undeclared function g"},
		{"reserved", "declare sug_main = !;", Reserved, "sug_main is a reserved function name"},
		{"define_arity", "declare f = byte -> byte; define f = { return 1; };", Arity, "definition of f has 0 parameters, declaration has 1"},
		{"duplicate_param", "declare f = byte -> byte -> byte; define f x x = { return x; };", Duplicate, "duplicate parameter x"},
		{"unbound_var", "declare main = byte; define main = { return y; };", Unbound, "undefined variable y"},
		{"unbound_call", "declare main = byte; define main = { return g: 1; };", Unbound, "call of undefined function g"},
		{"call_arity", "declare f = byte -> byte; define f x = { return x; }; declare main = byte; define main = { return f: 1 2; };", Arity, "wrong number of arguments in call to f: got 2, want 1"},
		{"negative_arg", "declare f = byte -> byte; define f x = x; declare main = byte; define main = { return f: -1; };", Arity, "got 0, want 1 (parenthesize a negative argument: f: (-1))"},
		{"void_init", "declare p = !; declare main = byte; define main = { var x = p:; return x; };", VoidValue, "p: (no value) used as initializer"},
		{"void_operand", "declare p = !; declare main = byte; define main = { return 1 + p:; };", VoidValue, "used as operand"},
		{"void_return", "declare main = !; define main = { return 1; };", VoidReturn, "1 returns a value from void function main"},
		{"return_void_call", "declare f = !; declare main = byte; define main = { return f:; };", VoidValue, "f: (no value) used as return value"},
		{"return_byte_call_from_void", "declare b = byte; declare main = !; define main = { return b:; };", VoidReturn, "b: returns a value from void function main"},
		{"missing_return", "declare main = byte; define main = { pass; };", MissingReturn, "missing return at end of main"},
		{"loop_missing_return", "declare main = byte; define main = { for pass; 1; pass; { pass; }; };", MissingReturn, "missing return"},
		{"no_entry", "declare f = !; define f = { pass; };", Unbound, "entry function main is not declared"},
		{"entry_undefined", "declare main = !;", Unbound, "entry function main is declared but not defined"},
		{"entry_params", "declare main = byte -> byte; define main x = { return x; };", Arity, "entry function main must take no parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := genError(t, tt.src, nil)
			if err.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s (%v)", err.Kind, tt.kind, err)
			}
			if !strings.Contains(err.Msg, tt.msg) {
				t.Errorf("Msg = %q, want substring %q", err.Msg, tt.msg)
			}
		})
	}
}

func TestGenerateUnboundMutate(t *testing.T) {
	var calls []string
	conf := &Config{Error: func(pos syntax.Pos, msg string) {
		calls = append(calls, pos.String()+": "+msg)
	}}
	err := genError(t, "declare main = !; define main = { mutate x = 1; };", conf)

	want := "test.sug:1:42: mutate of undefined variable x"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
	if len(calls) != 1 || calls[0] != want {
		t.Errorf("handler calls = %q, want [%q]", calls, want)
	}
}

func TestGenerateVerifyFailure(t *testing.T) {
	boom := errors.New("boom")
	m := &mockBuilder{verifyErr: boom}
	err := Generate(parse(t, voidMain), m, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Generate = %v, want wrapped verification error", err)
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		t.Errorf("verification failure reported as diagnostic %v", gerr)
	}
}

func TestErrorKindString(t *testing.T) {
	if got := Unbound.String(); got != "unbound name" {
		t.Errorf("Unbound.String() = %q", got)
	}
	if got := ErrorKind(99).String(); got != "kind(99)" {
		t.Errorf("ErrorKind(99).String() = %q", got)
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
