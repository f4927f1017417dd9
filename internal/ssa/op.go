// Package ssa implements the basic-block intermediate representation for
// the Sug compiler, together with the concrete ir.Builder that produces it.
package ssa

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConst8 // byte constant; AuxInt = value

	// Byte arithmetic, wrapping modulo 256
	OpAdd8  // byte + byte
	OpSub8  // byte - byte
	OpMul8  // byte * byte
	OpDiv8U // byte / byte (unsigned)
	OpMod8U // byte % byte (unsigned)

	// Unsigned byte comparison, producing bool
	OpEq8   // byte == byte
	OpNeq8  // byte != byte
	OpLt8U  // byte < byte
	OpLeq8U // byte <= byte
	OpGt8U  // byte > byte
	OpGeq8U // byte >= byte

	// Predicates
	OpNonZero // byte != 0 -> bool
	OpNot     // !bool
	OpAndBool // bool & bool, both operands evaluated
	OpOrBool  // bool | bool, both operands evaluated

	// Conversion
	OpZeroExt // bool -> byte (0 or 1)

	// Memory
	OpAlloca // byte stack slot in the entry block; Aux = variable name
	OpLoad   // load from slot; Args[0] = alloca
	OpStore  // store to slot; Args[0] = alloca, Args[1] = val; void

	// Calls
	OpStaticCall // direct function call; Aux = *Func; Args = arguments

	// Function argument; AuxInt = param index; Aux = param name
	OpArg

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an SSA operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // true if the op has no side effects
	IsVoid bool   // true if the op produces no value
	NArgs  int    // fixed argument count, -1 for variadic
}

// opInfoTable maps each Op to its OpInfo.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst8: {Name: "Const8", IsPure: true},

	OpAdd8:  {Name: "Add8", IsPure: true, NArgs: 2},
	OpSub8:  {Name: "Sub8", IsPure: true, NArgs: 2},
	OpMul8:  {Name: "Mul8", IsPure: true, NArgs: 2},
	OpDiv8U: {Name: "Div8U", IsPure: true, NArgs: 2},
	OpMod8U: {Name: "Mod8U", IsPure: true, NArgs: 2},

	OpEq8:   {Name: "Eq8", IsPure: true, NArgs: 2},
	OpNeq8:  {Name: "Neq8", IsPure: true, NArgs: 2},
	OpLt8U:  {Name: "Lt8U", IsPure: true, NArgs: 2},
	OpLeq8U: {Name: "Leq8U", IsPure: true, NArgs: 2},
	OpGt8U:  {Name: "Gt8U", IsPure: true, NArgs: 2},
	OpGeq8U: {Name: "Geq8U", IsPure: true, NArgs: 2},

	OpNonZero: {Name: "NonZero", IsPure: true, NArgs: 1},
	OpNot:     {Name: "Not", IsPure: true, NArgs: 1},
	OpAndBool: {Name: "AndBool", IsPure: true, NArgs: 2},
	OpOrBool:  {Name: "OrBool", IsPure: true, NArgs: 2},

	OpZeroExt: {Name: "ZeroExt", IsPure: true, NArgs: 1},

	// Memory, not pure
	OpAlloca: {Name: "Alloca"},
	OpLoad:   {Name: "Load", NArgs: 1},
	OpStore:  {Name: "Store", IsVoid: true, NArgs: 2},

	OpStaticCall: {Name: "StaticCall", NArgs: -1},

	OpArg: {Name: "Arg", IsPure: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}

// IsCompare reports whether o is a byte comparison.
func (o Op) IsCompare() bool {
	return o >= OpEq8 && o <= OpGeq8U
}

// IsArith reports whether o is byte arithmetic.
func (o Op) IsArith() bool {
	return o >= OpAdd8 && o <= OpMod8U
}
