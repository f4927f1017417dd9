// Package toolchain drives the external LLVM and system tools that turn an
// emitted .ll file into a native executable.
//
// The pipeline is
//
//	out.ll --llvm-as--> out.bc
//	out.ll --llc -filetype=obj--> out.o
//	out.o  --linker [-O3] [-static]--> out
//	out    --strip--> out
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Default tool names.
const (
	DefaultLLVMAs = "llvm-as"
	DefaultLLC    = "llc"
	DefaultLinker = "cc"
	DefaultStrip  = "strip"
)

// Runner executes one command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Toolchain holds the tool names and build options.
type Toolchain struct {
	LLVMAs string
	LLC    string
	Linker string
	Strip  string

	Static  bool // link a static executable
	Release bool // pass -O3 to the linker
	DoStrip bool // strip the linked executable

	// Verbose, if non-nil, receives each command line before it runs.
	Verbose io.Writer

	// Run executes commands. If nil, ExecRunner is used.
	Run Runner
}

// New returns a toolchain using the default tool names.
func New() *Toolchain {
	return &Toolchain{
		LLVMAs: DefaultLLVMAs,
		LLC:    DefaultLLC,
		Linker: DefaultLinker,
		Strip:  DefaultStrip,
	}
}

// CommandError reports a failed tool invocation.
type CommandError struct {
	Args   []string // command line, tool name first
	Output []byte   // combined stdout and stderr
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Args, " "), e.Err)
	if out := bytes.TrimSpace(e.Output); len(out) > 0 {
		msg += "\n" + string(out)
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// run executes name with args, echoing the command line when verbose.
func (tc *Toolchain) run(ctx context.Context, name string, args ...string) error {
	if tc.Verbose != nil {
		fmt.Fprintf(tc.Verbose, "+ %s %s\n", name, strings.Join(args, " "))
	}
	run := tc.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, name, args...)
	if err != nil {
		return &CommandError{Args: append([]string{name}, args...), Output: out, Err: err}
	}
	return nil
}

// Assemble writes the binary bitcode form of ll to bc.
func (tc *Toolchain) Assemble(ctx context.Context, ll, bc string) error {
	return tc.run(ctx, tc.LLVMAs, ll, "-o", bc)
}

// Compile compiles ll to the native object file obj.
func (tc *Toolchain) Compile(ctx context.Context, ll, obj string) error {
	return tc.run(ctx, tc.LLC, "-filetype=obj", ll, "-o", obj)
}

// Link links obj into the executable exe.
func (tc *Toolchain) Link(ctx context.Context, obj, exe string) error {
	var args []string
	if tc.Release {
		args = append(args, "-O3")
	}
	if tc.Static {
		args = append(args, "-static")
	}
	args = append(args, obj, "-o", exe)
	return tc.run(ctx, tc.Linker, args...)
}

// StripBinary removes symbols from exe in place.
func (tc *Toolchain) StripBinary(ctx context.Context, exe string) error {
	return tc.run(ctx, tc.Strip, exe)
}

// Artifacts names the files of one build.
type Artifacts struct {
	LL  string // input LLVM assembly
	BC  string // bitcode
	Obj string // object file
	Exe string // executable; empty to stop after the object file
}

// Build runs the full pipeline over a.
func (tc *Toolchain) Build(ctx context.Context, a Artifacts) error {
	if err := tc.Assemble(ctx, a.LL, a.BC); err != nil {
		return err
	}
	if err := tc.Compile(ctx, a.LL, a.Obj); err != nil {
		return err
	}
	if a.Exe == "" {
		return nil
	}
	if err := tc.Link(ctx, a.Obj, a.Exe); err != nil {
		return err
	}
	if tc.DoStrip {
		return tc.StripBinary(ctx, a.Exe)
	}
	return nil
}
