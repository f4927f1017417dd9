// Command sugc compiles Sug programs to native executables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/you-not-fish/sug/internal/abi"
	"github.com/you-not-fish/sug/internal/codegen"
	"github.com/you-not-fish/sug/internal/config"
	"github.com/you-not-fish/sug/internal/irgen"
	"github.com/you-not-fish/sug/internal/ssa"
	"github.com/you-not-fish/sug/internal/ssa/passes"
	"github.com/you-not-fish/sug/internal/syntax"
	"github.com/you-not-fish/sug/internal/toolchain"
	"github.com/you-not-fish/sug/internal/watch"
)

// Environment defaults; flags override them.
var cfg = config.FromEnv()

var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	emitSSA    = flag.Bool("emit-ssa", false, "Output SSA")
	emitLL     = flag.Bool("emit-ll", false, "Output LLVM IR")
	output     = flag.String("o", abi.ArtifactBinary, "Output executable")
	buildDir   = flag.String("build-dir", cfg.BuildDir, "Directory for intermediate files")
	entry      = flag.String("entry", cfg.Entry, "Name of the entry function")
	static     = flag.Bool("static", false, "Link a static executable")
	release    = flag.Bool("release", false, "Link with -O3")
	strip      = flag.Bool("strip", false, "Strip the executable")
	noLink     = flag.Bool("no-link", false, "Stop after the object file")
	watchMode  = flag.Bool("watch", false, "Rebuild when the input file changes")
	replMode   = flag.Bool("repl", false, "Start an interactive session")
	doctor     = flag.Bool("doctor", false, "Check toolchain")
	version    = flag.Bool("version", false, "Print version")
	trace      = flag.Bool("trace", cfg.Trace, "Output timing trace")
	verbose    = flag.Bool("v", cfg.Verbose, "Print tool commands")
	dumpFunc   = flag.String("dump-func", "", "Only dump specific function")
	dumpBefore = flag.String("dump-before", "", "Dump SSA before pass (name or \"*\")")
	dumpAfter  = flag.String("dump-after", "", "Dump SSA after pass (name or \"*\")")
)

// Version information
const Version = "0.1.0-dev"

// DefaultInput is compiled when no file is named.
const DefaultInput = "main.sug"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Sug Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: sugc [options] [file.sug]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("sugc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *doctor {
		if !newToolchain().Doctor(context.Background(), os.Stdout) {
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *replMode {
		os.Exit(runRepl())
	}

	filename := DefaultInput
	switch args := flag.Args(); len(args) {
	case 0:
	case 1:
		filename = args[0]
	default:
		fmt.Fprintln(os.Stderr, "error: too many input files")
		fmt.Fprintln(os.Stderr, "usage: sugc [options] [file.sug]")
		os.Exit(1)
	}

	switch {
	case *emitTokens:
		os.Exit(runEmitTokens(filename))
	case *emitAST:
		os.Exit(runEmitAST(filename))
	case *emitSSA:
		os.Exit(runEmitSSA(filename))
	case *emitLL:
		os.Exit(runEmitLL(filename))
	case *watchMode:
		os.Exit(runWatch(filename))
	}
	os.Exit(runBuild(filename))
}

// tracer prints per-phase timings to stderr when -trace is set.
type tracer struct {
	start time.Time
}

func startTrace() *tracer { return &tracer{start: time.Now()} }

// done reports the phase that just finished and starts the next one.
func (t *tracer) done(phase string) {
	if *trace {
		fmt.Fprintf(os.Stderr, "trace: %-10s %v\n", phase, time.Since(t.start))
	}
	t.start = time.Now()
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}

	s := syntax.NewScanner(filename, f, errh)

	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	for {
		s.Next()
		tok := s.Token()
		fmt.Printf("%-20s %-12s %q\n", s.Pos(), tok, s.Literal())
		if tok.IsEOF() {
			break
		}
	}

	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
	if len(errs) > 0 {
		return 1
	}
	return 0
}

// parseFile parses filename, reporting the error on stderr.
func parseFile(filename string) (*syntax.Program, bool) {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, false
	}
	defer f.Close()

	prog, err := syntax.Parse(filename, f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, false
	}
	return prog, true
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string) int {
	prog, ok := parseFile(filename)
	if !ok {
		return 1
	}
	switch *astFormat {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, prog); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	case "text":
		syntax.Fprint(os.Stdout, prog)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown AST format %q\n", *astFormat)
		return 1
	}
	return 0
}

// compile runs the front end: parse, generate, finalize.
func compile(filename string, noEntry bool) (*ssa.Module, bool) {
	tr := startTrace()
	prog, ok := parseFile(filename)
	if !ok {
		return nil, false
	}
	tr.done("parse")

	b := ssa.NewBuilder(*entry)
	conf := &irgen.Config{Entry: *entry, NoEntry: noEntry}
	if err := irgen.Generate(prog, b, conf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, false
	}
	tr.done("generate")

	m := b.Module()
	passCfg := passes.Config{
		DumpBefore: *dumpBefore,
		DumpAfter:  *dumpAfter,
		DumpFunc:   *dumpFunc,
	}
	if err := passes.RunModule(m, passes.Finalize, passCfg); err != nil {
		fmt.Fprintf(os.Stderr, "SSA verification failed:\n%v\n", err)
		return nil, false
	}
	tr.done("verify")
	return m, true
}

// runEmitSSA compiles the input file and outputs its SSA.
func runEmitSSA(filename string) int {
	m, ok := compile(filename, false)
	if !ok {
		return 1
	}
	first := true
	for _, fn := range m.Funcs {
		if *dumpFunc != "" && fn.Name != *dumpFunc {
			continue
		}
		if !first {
			fmt.Println()
		}
		first = false
		ssa.Print(fn)
	}
	return 0
}

// runEmitLL compiles the input file and outputs LLVM assembly.
func runEmitLL(filename string) int {
	m, ok := compile(filename, false)
	if !ok {
		return 1
	}
	if err := codegen.Generate(os.Stdout, m, llOptions(filename)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func llOptions(filename string) codegen.Options {
	return codegen.Options{
		SourceName:   filepath.Base(filename),
		TargetTriple: abi.DefaultTargetTriple,
		DataLayout:   abi.DefaultDataLayout,
	}
}

func newToolchain() *toolchain.Toolchain {
	tc := cfg.Toolchain()
	tc.Static = *static
	tc.Release = *release
	tc.DoStrip = *strip
	if *verbose {
		tc.Verbose = os.Stderr
	}
	return tc
}

// runBuild compiles the input file to an executable.
func runBuild(filename string) int {
	m, ok := compile(filename, false)
	if !ok {
		return 1
	}
	tr := startTrace()

	dir := *buildDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	a := toolchain.Artifacts{
		LL:  filepath.Join(dir, abi.ArtifactLLVM),
		BC:  filepath.Join(dir, abi.ArtifactBitcode),
		Obj: filepath.Join(dir, abi.ArtifactObject),
	}
	if !*noLink {
		a.Exe = *output
	}

	err := writeFiles(
		artifact{filepath.Join(dir, abi.ArtifactSSA), func(w io.Writer) error {
			ssa.FprintModule(w, m)
			return nil
		}},
		artifact{a.LL, func(w io.Writer) error {
			return codegen.Generate(w, m, llOptions(filename))
		}},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	tr.done("emit")

	if err := newToolchain().Build(context.Background(), a); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	tr.done("toolchain")
	return 0
}

// artifact is one file of a build and the function that produces it.
type artifact struct {
	path  string
	write func(io.Writer) error
}

// writeFiles writes every artifact to a temporary file in its directory and
// renames them into place only after all of them were written, so a failed
// build never mixes new and stale files.
func writeFiles(files ...artifact) error {
	tmps := make([]string, 0, len(files))
	defer func() {
		for _, tmp := range tmps {
			os.Remove(tmp)
		}
	}()

	for _, file := range files {
		f, err := os.CreateTemp(filepath.Dir(file.path), "."+filepath.Base(file.path)+"-*")
		if err != nil {
			return err
		}
		tmps = append(tmps, f.Name())
		if err := file.write(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	for i, file := range files {
		if err := os.Rename(tmps[i], file.path); err != nil {
			return err
		}
	}
	tmps = nil
	return nil
}

// runWatch builds the input file, then rebuilds it on every change until
// interrupted.
func runWatch(filename string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rebuild := func() {
		if runBuild(filename) == 0 {
			fmt.Fprintf(os.Stderr, "sugc: built %s\n", filename)
		}
	}

	w, err := watch.New(func(string) { rebuild() })
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer w.Close()
	if err := w.Add(filename); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	rebuild()
	fmt.Fprintf(os.Stderr, "sugc: watching %s\n", filename)
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
