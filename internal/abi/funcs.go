package abi

import "strings"

// Entry point symbols
const (
	// SugMain is the symbol the user's entry function is emitted under,
	// so that it never collides with the C entry point.
	SugMain = "sug_main"

	// ProcessEntry is the synthesized C ABI entry point. It calls the
	// user's entry function and turns its byte result into the exit status.
	ProcessEntry = "main"

	// DefaultEntry is the source-level name of the user's entry function.
	DefaultEntry = "main"

	// EntryThunk names the synthesized process entry inside the IR module.
	// The emitter renames it to ProcessEntry and widens its result to i32.
	EntryThunk = "__sug_entry"
)

// Artifact file names, relative to the build directory.
const (
	ArtifactSSA     = "out.ssa"
	ArtifactLLVM    = "out.ll"
	ArtifactBitcode = "out.bc"
	ArtifactObject  = "out.o"
	ArtifactBinary  = "out"
)

// FuncSignature describes an external function's signature for code generation.
type FuncSignature struct {
	Name       string   // Function name
	ReturnType string   // LLVM return type ("void", "i8")
	ParamTypes []string // LLVM parameter types
}

// Declaration returns the LLVM declare line for the signature.
func (f FuncSignature) Declaration() string {
	return "declare " + f.ReturnType + " @" + f.Name + "(" + strings.Join(f.ParamTypes, ", ") + ")"
}

// SymbolName maps an IR function name to its emitted symbol.
// Only the user entry function and the entry thunk are renamed.
func SymbolName(name, entry string) string {
	switch name {
	case entry:
		return SugMain
	case EntryThunk:
		return ProcessEntry
	}
	return name
}

// IsReserved reports whether a source-level function name would collide
// with an emitted symbol the compiler owns.
func IsReserved(name, entry string) bool {
	switch name {
	case SugMain, EntryThunk:
		return true
	case ProcessEntry:
		return name != entry
	}
	return false
}
