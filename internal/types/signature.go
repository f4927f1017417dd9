package types

import "strings"

// Signature is the type of a declared function.
// Params never contain void; Result is Typ[Void] for procedures.
type Signature struct {
	typ
	params []Type
	result Type
}

// NewSignature creates a function signature.
// A nil result means void.
func NewSignature(params []Type, result Type) *Signature {
	if result == nil {
		result = Typ[Void]
	}
	return &Signature{params: params, result: result}
}

// Params returns the parameter types.
func (s *Signature) Params() []Type {
	return s.params
}

// NumParams returns the number of parameters.
func (s *Signature) NumParams() int {
	return len(s.params)
}

// Param returns the parameter type at index i.
func (s *Signature) Param(i int) Type {
	return s.params[i]
}

// Result returns the result type.
func (s *Signature) Result() Type {
	return s.result
}

// Underlying implements Type.
func (s *Signature) Underlying() Type {
	return s
}

// String implements Type. It renders the declaration chain, e.g.
// "byte -> byte -> byte" or "void".
func (s *Signature) String() string {
	var buf strings.Builder
	for _, p := range s.params {
		buf.WriteString(p.String())
		buf.WriteString(" -> ")
	}
	buf.WriteString(s.result.String())
	return buf.String()
}
