package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type

	Byte // unsigned 8-bit integer
	Void // absence of a value
	Bool // 1-bit predicate, IR only
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	IsInteger BasicInfo = 1 << iota
	IsBoolean
	IsUnsigned
	IsSource // spellable in a declaration
)

// Basic represents a basic type.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// Underlying implements Type.
func (b *Basic) Underlying() Type {
	return b
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
// Typ[Invalid] is nil, representing an invalid type.
var Typ = []*Basic{
	Invalid: nil,
	Byte:    {kind: Byte, info: IsInteger | IsUnsigned | IsSource, name: "byte"},
	Void:    {kind: Void, info: IsSource, name: "void"},
	Bool:    {kind: Bool, info: IsBoolean, name: "bool"},
}
