// Package types implements the type system for the Sug programming language.
// This package provides type representations without AST dependencies.
//
// Sug has two source-level types, byte and void. A third basic type, bool,
// exists only inside the IR as the one-bit result of comparisons.
package types

// Type is the interface implemented by all types.
type Type interface {
	// Underlying returns the underlying type.
	// All Sug types are their own underlying type.
	Underlying() Type

	// String returns a human-readable representation of the type.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
