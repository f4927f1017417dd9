package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/you-not-fish/sug/internal/codegen"
	"github.com/you-not-fish/sug/internal/irgen"
	"github.com/you-not-fish/sug/internal/ssa"
	"github.com/you-not-fish/sug/internal/ssa/passes"
	"github.com/you-not-fish/sug/internal/syntax"
)

const (
	historyFile = ".sug_history"
	promptMain  = "sug> "
	promptCont  = "...> "
	replName    = "<repl>"
)

const replHelp = `Enter declarations and definitions; each accepted input prints its SSA.
  :ll     toggle LLVM output
  :src    show the accepted source
  :reset  forget all input
  :quit   leave`

// lineReader is the part of *liner.State the session loop uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// runRepl starts an interactive session on the terminal.
func runRepl() int {
	fmt.Printf("Sug %s interactive mode. Type :help for commands.\n", Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := &session{entry: *entry, out: os.Stdout, errOut: os.Stderr}
	s.loop(ln)
	return 0
}

// session accumulates accepted top-level forms. Every input is compiled
// together with all earlier ones, so later definitions may call earlier
// functions.
type session struct {
	entry    string
	accepted []string
	showLL   bool

	out    io.Writer
	errOut io.Writer
}

func (s *session) loop(ln lineReader) {
	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		cmd := strings.TrimSpace(input)
		if cmd == "" {
			continue
		}
		if strings.HasPrefix(cmd, ":") {
			if !s.command(cmd) {
				return
			}
			continue
		}
		if s.eval(input) {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}
	}
}

// command runs a colon command and reports whether the session goes on.
func (s *session) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	case ":ll":
		s.showLL = !s.showLL
		fmt.Fprintf(s.out, "LLVM output %s\n", onOff(s.showLL))
	case ":src":
		for _, src := range s.accepted {
			fmt.Fprintln(s.out, src)
		}
	case ":reset":
		s.accepted = nil
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// eval compiles input after the accepted forms and prints the result. It
// reports whether input was accepted.
func (s *session) eval(input string) bool {
	prog, err := syntax.Parse(replName, strings.NewReader(input))
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return false
	}

	src := strings.Join(append(append([]string(nil), s.accepted...), input), "\n")
	all, err := syntax.Parse(replName, strings.NewReader(src))
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return false
	}
	b := ssa.NewBuilder(s.entry)
	if err := irgen.Generate(all, b, &irgen.Config{Entry: s.entry, NoEntry: true}); err != nil {
		fmt.Fprintln(s.errOut, err)
		return false
	}
	m := b.Module()
	if err := passes.RunModule(m, passes.Finalize, passes.Config{}); err != nil {
		fmt.Fprintln(s.errOut, err)
		return false
	}
	s.accepted = append(s.accepted, input)

	if s.showLL {
		if err := codegen.Generate(s.out, m, codegen.Options{}); err != nil {
			fmt.Fprintln(s.errOut, err)
		}
		return true
	}
	for _, name := range topLevelNames(prog) {
		ssa.Fprint(s.out, m.Lookup(name))
	}
	return true
}

// topLevelNames returns the functions named by prog, without repeats.
func topLevelNames(prog *syntax.Program) []string {
	var names []string
	seen := make(map[string]bool)
	for _, s := range prog.Stmts {
		var name string
		switch s := s.(type) {
		case *syntax.Declare:
			name = s.Name.Value
		case *syntax.Define:
			name = s.Name.Value
		default:
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// readInput reads lines until they form a complete program or a syntax
// error that more input cannot fix.
func readInput(ln lineReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C abandons the current input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !incomplete(src) {
			return src, true
		}
	}
}

// incomplete reports whether src fails to parse only because it ends early.
func incomplete(src string) bool {
	_, err := syntax.Parse(replName, strings.NewReader(src))
	var serr *syntax.SyntaxError
	return errors.As(err, &serr) && serr.Found == "EOF"
}
