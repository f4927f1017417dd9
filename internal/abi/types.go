// Package abi defines the ABI constants shared by the IR generator, the
// LLVM emitter and the native toolchain driver.
package abi

// Target configuration. An empty triple or layout leaves the choice to llc,
// which compiles for the host.
const (
	DefaultTargetTriple = ""
	DefaultDataLayout   = ""
)

// Basic type alignments in bytes
const (
	AlignByte = 1
	AlignBool = 1
	AlignPtr  = 8
)

// LLVM type names for code generation
const (
	LLVMTypeByte  = "i8"
	LLVMTypeBool  = "i1"
	LLVMTypeVoid  = "void"
	LLVMTypePtr   = "ptr" // opaque pointer (LLVM 15+)
	LLVMTypeEntry = "i32" // C main's return type
)
