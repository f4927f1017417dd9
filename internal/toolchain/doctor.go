package toolchain

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Tool is one entry of the doctor report.
type Tool struct {
	Name     string
	Required bool
	Version  string // first line of the version output, empty if missing
	OK       bool
}

// Check probes every tool of tc with --version. The strip tool is only
// required when stripping is enabled.
func (tc *Toolchain) Check(ctx context.Context) []Tool {
	tools := []Tool{
		{Name: tc.LLC, Required: true},
		{Name: tc.Linker, Required: true},
		{Name: tc.LLVMAs},
		{Name: tc.Strip, Required: tc.DoStrip},
	}
	run := tc.Run
	if run == nil {
		run = ExecRunner
	}
	for i := range tools {
		out, err := run(ctx, tools[i].Name, "--version")
		if err != nil {
			continue
		}
		tools[i].Version = firstLine(string(out))
		tools[i].OK = true
	}
	return tools
}

// Doctor writes a report of the toolchain to w and reports whether every
// required tool is available.
func (tc *Toolchain) Doctor(ctx context.Context, w io.Writer) bool {
	fmt.Fprintln(w, "Sug Toolchain Doctor")
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)

	allOk := true
	for _, t := range tc.Check(ctx) {
		fmt.Fprintf(w, "%-9s %s", t.Name+":", t.Version)
		switch {
		case t.OK:
			fmt.Fprintln(w, " ✓")
		case t.Required:
			fmt.Fprintln(w, " ✗ (not found)")
			allOk = false
		default:
			fmt.Fprintln(w, " (optional, not found)")
		}
	}

	fmt.Fprintln(w)
	if allOk {
		fmt.Fprintln(w, "All required tools available!")
	} else {
		fmt.Fprintln(w, "Some required tools are missing.")
	}
	return allOk
}

// firstLine returns the first line of s, truncated for display.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	line = strings.TrimSpace(line)
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line
}
