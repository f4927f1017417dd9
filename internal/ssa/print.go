package ssa

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Fprint writes the SSA representation of a function to w.
//
// Format:
//
//	func add(x byte, y byte) byte:
//	  b0: (entry)
//	    v0 = Arg <byte> {x}
//	    v1 = Arg <byte> [1] {y}
//	    v2 = Add8 <byte> v0 v1
//	    Return v2
//
// External functions print as a single "extern" line.
func Fprint(w io.Writer, f *Func) {
	if f.IsExternal() {
		fmt.Fprintf(w, "extern %s: %s\n", f.Name, f.Sig)
		return
	}

	// Function header
	fmt.Fprintf(w, "func %s(", f.Name)
	for i := 0; i < f.Sig.NumParams(); i++ {
		if i > 0 {
			fmt.Fprintf(w, ", ")
		}
		name := fmt.Sprintf("p%d", i)
		if v := f.Params[i]; v != nil {
			if s, ok := v.Aux.(string); ok {
				name = s
			}
		}
		fmt.Fprintf(w, "%s %s", name, f.Sig.Param(i))
	}
	fmt.Fprintf(w, ") %s:\n", f.Sig.Result())

	// Blocks
	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// FprintModule writes every function of m to w, separated by blank lines.
func FprintModule(w io.Writer, m *Module) {
	for i, f := range m.Funcs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		Fprint(w, f)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	// Block header
	label := ""
	if b == f.Entry {
		label = " (entry)"
	} else if b.Hint != "" {
		label = " (" + b.Hint + ")"
	}

	// Show predecessor list for non-entry blocks
	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)

	// Values
	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}

	// Terminator
	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	// For void ops, don't print "vN = "
	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s", v.ID, v.Op)
	}

	// Type
	if v.Type != nil {
		fmt.Fprintf(&sb, " <%s>", v.Type)
	}

	// AuxInt (always show for constants, otherwise only if non-zero)
	if v.Op == OpConst8 || v.AuxInt != 0 {
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	}

	// Aux
	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%s}", formatAux(v.Aux))
	}

	// Arguments
	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatTerminator formats a block terminator.
func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && len(b.Succs) >= 2 {
			return fmt.Sprintf("If v%d -> %s %s", b.Controls[0].ID, b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	default:
		return "Open"
	}
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// SprintModule returns the SSA representation of a module as a string.
func SprintModule(m *Module) string {
	var sb strings.Builder
	FprintModule(&sb, m)
	return sb.String()
}

// formatAux formats an Aux value for display.
func formatAux(aux interface{}) string {
	switch a := aux.(type) {
	case *Func:
		return a.Name
	case string:
		return a
	default:
		return fmt.Sprintf("%v", aux)
	}
}

// Print writes the SSA representation of a function to stdout.
func Print(f *Func) {
	Fprint(os.Stdout, f)
}
