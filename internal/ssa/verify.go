package ssa

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/sug/internal/types"
)

// VerifyError reports every violation found in one function.
type VerifyError struct {
	Func     string
	Problems []string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("SSA verification failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// VerifyModule checks every defined function of m: structure, dominance,
// and operand and call typing. It computes dominators as a side effect.
func VerifyModule(m *Module) error {
	for _, f := range m.Defined() {
		if err := Verify(f); err != nil {
			return err
		}
		ComputeDom(f)
		if err := VerifyDom(f); err != nil {
			return err
		}
		if err := VerifyTypes(m, f); err != nil {
			return err
		}
	}
	return nil
}

// Verify checks the structural integrity of an SSA function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil || len(f.Blocks) == 0 {
		add("func %s: no blocks", f.Name)
		return combineErrors(f.Name, errs)
	}

	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}

	// 1. Entry block has no predecessors
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block %s has %d predecessors, want 0",
			f.Name, f.Entry, len(f.Entry.Preds))
	}

	// Build a set of all blocks for membership checks.
	blockSet := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}

	// Build a set of all values for reference checks.
	valueSet := make(map[*Value]bool)

	for _, b := range f.Blocks {
		// 2. Every block is terminated
		if b.Kind == BlockInvalid {
			add("func %s, %s: block is not terminated", f.Name, b)
		}

		// 3. Block's Func pointer matches
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		// Check values
		for _, v := range b.Values {
			valueSet[v] = true

			// 4. Every Value's Block pointer matches its containing block
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %s, want %s",
					f.Name, b, v, v.Block, b)
			}

			// 5. Non-void values must have non-nil Type
			// Exception: StaticCall has nil Type for void-returning callees.
			if !v.Op.IsVoid() && v.Type == nil && v.Op != OpStaticCall {
				add("func %s, %s, %s (%s): non-void value has nil Type",
					f.Name, b, v, v.Op)
			}

			// 6. Args are non-nil
			for i, arg := range v.Args {
				if arg == nil {
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
				}
			}

			// 7. Fixed-arity ops have the right number of args
			if n := v.Op.Info().NArgs; n >= 0 && len(v.Args) != n {
				add("func %s, %s, %s (%s): has %d args, want %d",
					f.Name, b, v, v.Op, len(v.Args), n)
			}
		}

		// 8. Terminator checks based on Kind
		switch b.Kind {
		case BlockPlain:
			if len(b.Succs) != 1 {
				add("func %s, %s: plain block has %d succs, want 1",
					f.Name, b, len(b.Succs))
			}
		case BlockIf:
			if len(b.Controls) != 1 {
				add("func %s, %s: if block has %d controls, want 1",
					f.Name, b, len(b.Controls))
			}
			if len(b.Succs) != 2 {
				add("func %s, %s: if block has %d succs, want 2",
					f.Name, b, len(b.Succs))
			}
		case BlockReturn:
			if len(b.Succs) != 0 {
				add("func %s, %s: return block has %d succs, want 0",
					f.Name, b, len(b.Succs))
			}
			if len(b.Controls) > 1 {
				add("func %s, %s: return block has %d controls, want at most 1",
					f.Name, b, len(b.Controls))
			}
		}

		// 9. Succs/Preds edge consistency
		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
				continue
			}
			if !containsBlock(succ.Preds, b) {
				add("func %s, %s: successor %s does not have %s as predecessor",
					f.Name, b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
				continue
			}
			if !containsBlock(pred.Succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor",
					f.Name, b, pred, b)
			}
		}

		// 10. Control values must reference existing values
		for i, c := range b.Controls {
			if c == nil {
				add("func %s, %s: control[%d] is nil", f.Name, b, i)
			}
		}
	}

	// 11. Verify all value args are in the function
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg != nil && !valueSet[arg] {
					add("func %s, %s, %s: arg[%d] (%s) not found in function",
						f.Name, b, v, i, arg)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && !valueSet[c] {
				add("func %s, %s: control[%d] (%s) not found in function",
					f.Name, b, i, c)
			}
		}
	}

	return combineErrors(f.Name, errs)
}

// containsBlock checks whether bs contains b.
func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// VerifyDom checks dominance properties of an SSA function.
// ComputeDom must have been called before this.
// It calls Verify first, then checks dominance invariants.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}

	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	// Build reachability set.
	reachable := make(map[*Block]bool)
	var walk func(b *Block)
	walk = func(b *Block) {
		if reachable[b] {
			return
		}
		reachable[b] = true
		for _, s := range b.Succs {
			walk(s)
		}
	}
	walk(f.Entry)

	// 1. Entry Idom must be nil.
	if f.Entry.Idom != nil {
		add("func %s: entry %s has non-nil Idom %s", f.Name, f.Entry, f.Entry.Idom)
	}

	// 2. All reachable non-entry blocks must have non-nil Idom != self.
	for _, b := range f.Blocks {
		if !reachable[b] || b == f.Entry {
			continue
		}
		if b.Idom == nil {
			add("func %s, %s: reachable block has nil Idom", f.Name, b)
		} else if b.Idom == b {
			add("func %s, %s: block is its own Idom", f.Name, b)
		}
	}

	// Build value-to-index maps for same-block ordering checks.
	valIdx := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			valIdx[v] = i
		}
	}

	// 3. Each arg's block must dominate the use block
	// (or if same block, arg must appear before use).
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg == nil {
					continue
				}
				defBlock := arg.Block
				if defBlock == b {
					// Same block: arg must appear before use.
					if valIdx[arg] >= valIdx[v] {
						add("func %s, %s, %s: arg[%d] %s defined at index %d, used at index %d (same block)",
							f.Name, b, v, i, arg, valIdx[arg], valIdx[v])
					}
				} else if !Dominates(defBlock, b) {
					add("func %s, %s, %s: arg[%d] %s defined in %s which does not dominate %s",
						f.Name, b, v, i, arg, defBlock, b)
				}
			}
		}
	}

	// 4. Control values must dominate their block.
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for i, c := range b.Controls {
			if c == nil {
				continue
			}
			defBlock := c.Block
			if defBlock != b && !Dominates(defBlock, b) {
				add("func %s, %s: control[%d] %s defined in %s which does not dominate %s",
					f.Name, b, i, c, defBlock, b)
			}
		}
	}

	return combineErrors(f.Name, errs)
}

// VerifyTypes checks operand types, terminator operands and calls of f
// against the declarations in m.
func VerifyTypes(m *Module, f *Func) error {
	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	want := func(b *Block, v *Value, i int, pred func(types.Type) bool, what string) {
		if i < len(v.Args) && v.Args[i] != nil && !pred(v.Args[i].Type) {
			add("func %s, %s, %s (%s): arg[%d] %s has type %v, want %s",
				f.Name, b, v, v.Op, i, v.Args[i], v.Args[i].Type, what)
		}
	}

	for _, b := range f.Blocks {
		for _, v := range b.Values {
			switch {
			case v.Op.IsArith(), v.Op.IsCompare():
				want(b, v, 0, types.IsByte, "byte")
				want(b, v, 1, types.IsByte, "byte")
			case v.Op == OpAndBool, v.Op == OpOrBool:
				want(b, v, 0, types.IsBool, "bool")
				want(b, v, 1, types.IsBool, "bool")
			case v.Op == OpNot, v.Op == OpZeroExt:
				want(b, v, 0, types.IsBool, "bool")
			case v.Op == OpNonZero:
				want(b, v, 0, types.IsByte, "byte")
			case v.Op == OpAlloca:
				if !types.IsByte(v.Type) {
					add("func %s, %s, %s (%s): slot of type %v, want byte",
						f.Name, b, v, v.Op, v.Type)
				}
			case v.Op == OpLoad, v.Op == OpStore:
				if len(v.Args) > 0 && v.Args[0] != nil && v.Args[0].Op != OpAlloca {
					add("func %s, %s, %s (%s): address %s is not a stack slot",
						f.Name, b, v, v.Op, v.Args[0])
				}
				if v.Op == OpStore {
					want(b, v, 1, types.IsByte, "byte")
				}
			case v.Op == OpArg:
				if int(v.AuxInt) >= f.Sig.NumParams() || !types.Identical(v.Type, f.Sig.Param(int(v.AuxInt))) {
					add("func %s, %s, %s: Arg [%d] does not match signature %s",
						f.Name, b, v, v.AuxInt, f.Sig)
				}
			case v.Op == OpStaticCall:
				verifyCall(m, f, b, v, add)
			}
		}

		switch b.Kind {
		case BlockIf:
			if len(b.Controls) == 1 && b.Controls[0] != nil && !types.IsBool(b.Controls[0].Type) {
				add("func %s, %s: branch condition %s has type %v, want bool",
					f.Name, b, b.Controls[0], b.Controls[0].Type)
			}
		case BlockReturn:
			result := f.Sig.Result()
			switch {
			case types.IsVoid(result) && len(b.Controls) != 0:
				add("func %s, %s: void function returns a value", f.Name, b)
			case !types.IsVoid(result) && len(b.Controls) == 0:
				add("func %s, %s: missing return value of type %s", f.Name, b, result)
			case !types.IsVoid(result) && b.Controls[0] != nil && !types.Identical(b.Controls[0].Type, result):
				add("func %s, %s: return value %s has type %v, want %s",
					f.Name, b, b.Controls[0], b.Controls[0].Type, result)
			}
		}
	}

	return combineErrors(f.Name, errs)
}

// verifyCall checks a call against its callee's declaration.
func verifyCall(m *Module, f *Func, b *Block, v *Value, add func(string, ...interface{})) {
	callee := v.Callee()
	if callee == nil {
		add("func %s, %s, %s: call has no callee", f.Name, b, v)
		return
	}
	if m.Lookup(callee.Name) != callee {
		add("func %s, %s, %s: callee %s is not in the module", f.Name, b, v, callee.Name)
		return
	}
	sig := callee.Sig
	if len(v.Args) != sig.NumParams() {
		add("func %s, %s, %s: call of %s has %d args, want %d",
			f.Name, b, v, callee.Name, len(v.Args), sig.NumParams())
		return
	}
	for i, arg := range v.Args {
		if arg != nil && !types.Identical(arg.Type, sig.Param(i)) {
			add("func %s, %s, %s: call of %s arg[%d] %s has type %v, want %s",
				f.Name, b, v, callee.Name, i, arg, arg.Type, sig.Param(i))
		}
	}
	var result types.Type
	if !types.IsVoid(sig.Result()) {
		result = sig.Result()
	}
	if !types.Identical(v.Type, result) {
		add("func %s, %s, %s: call of %s has type %v, want %v",
			f.Name, b, v, callee.Name, v.Type, sig.Result())
	}
}

// combineErrors creates a *VerifyError from a list of error strings, or returns nil.
func combineErrors(fn string, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return &VerifyError{Func: fn, Problems: errs}
}
