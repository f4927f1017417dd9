// Package config reads the compiler's defaults from the environment.
// Command-line flags override every value.
package config

import (
	"github.com/xyproto/env/v2"

	"github.com/you-not-fish/sug/internal/abi"
	"github.com/you-not-fish/sug/internal/toolchain"
)

// Environment variables.
const (
	EnvBuildDir = "SUG_BUILD_DIR"
	EnvEntry    = "SUG_ENTRY"
	EnvLLC      = "SUG_LLC"
	EnvLLVMAs   = "SUG_LLVM_AS"
	EnvLinker   = "SUG_LD"
	EnvStrip    = "SUG_STRIP"
	EnvVerbose  = "SUG_VERBOSE"
	EnvTrace    = "SUG_TRACE"
)

// DefaultBuildDir holds intermediate files when SUG_BUILD_DIR is unset.
const DefaultBuildDir = "build"

// Config holds the environment-derived settings of one compiler run.
type Config struct {
	BuildDir string
	Entry    string

	LLC    string
	LLVMAs string
	Linker string
	Strip  string

	Verbose bool
	Trace   bool
}

// FromEnv reads a Config from the environment, using defaults for unset
// variables.
func FromEnv() *Config {
	return &Config{
		BuildDir: env.Str(EnvBuildDir, DefaultBuildDir),
		Entry:    env.Str(EnvEntry, abi.DefaultEntry),
		LLC:      env.Str(EnvLLC, toolchain.DefaultLLC),
		LLVMAs:   env.Str(EnvLLVMAs, toolchain.DefaultLLVMAs),
		Linker:   env.Str(EnvLinker, toolchain.DefaultLinker),
		Strip:    env.Str(EnvStrip, toolchain.DefaultStrip),
		Verbose:  env.Bool(EnvVerbose),
		Trace:    env.Bool(EnvTrace),
	}
}

// Toolchain returns a toolchain using the configured tool names.
func (c *Config) Toolchain() *toolchain.Toolchain {
	tc := toolchain.New()
	tc.LLC = c.LLC
	tc.LLVMAs = c.LLVMAs
	tc.Linker = c.Linker
	tc.Strip = c.Strip
	return tc
}
