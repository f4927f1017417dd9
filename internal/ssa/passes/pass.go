package passes

import (
	"fmt"
	"io"
	"os"

	"github.com/you-not-fish/sug/internal/ssa"
)

// Pass describes a single SSA pass over one function of a module.
type Pass struct {
	Name string
	Fn   func(m *ssa.Module, f *ssa.Func) error
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump SSA before this pass ("*" for all)
	DumpAfter  string    // dump SSA after this pass ("*" for all)
	Verify     bool      // verify SSA before/after each pass
	DumpFunc   string    // restrict dumps to this function name
	Out        io.Writer // dump destination; nil means stderr
}

// Finalize is the pipeline every generated module goes through before it
// is serialized.
var Finalize = []Pass{
	{Name: "verify", Fn: verify},
	{Name: "dom", Fn: dom},
	{Name: "verifydom", Fn: verifyDom},
	{Name: "types", Fn: ssa.VerifyTypes},
}

func verify(_ *ssa.Module, f *ssa.Func) error {
	return ssa.Verify(f)
}

func dom(_ *ssa.Module, f *ssa.Func) error {
	ssa.ComputeDom(f)
	return nil
}

func verifyDom(_ *ssa.Module, f *ssa.Func) error {
	return ssa.VerifyDom(f)
}

// Run executes the given passes on f in order.
func Run(m *ssa.Module, f *ssa.Func, passes []Pass, cfg Config) error {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- before %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(out, f)
			fmt.Fprintln(out)
		}

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		if err := p.Fn(m, f); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- after %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(out, f)
			fmt.Fprintln(out)
		}
	}
	return nil
}

// RunModule runs the passes over every defined function of m, stopping at
// the first error.
func RunModule(m *ssa.Module, passes []Pass, cfg Config) error {
	for _, f := range m.Defined() {
		if err := Run(m, f, passes, cfg); err != nil {
			return fmt.Errorf("func %s: %w", f.Name, err)
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
