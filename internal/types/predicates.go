package types

// Identical reports whether x and y are identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Signature:
		if y, ok := y.(*Signature); ok {
			return identicalSigs(x, y)
		}
	}
	return false
}

func identicalSigs(x, y *Signature) bool {
	if len(x.params) != len(y.params) {
		return false
	}
	for i := range x.params {
		if !Identical(x.params[i], y.params[i]) {
			return false
		}
	}
	return Identical(x.result, y.result)
}

func isKind(t Type, k BasicKind) bool {
	b, ok := t.(*Basic)
	return ok && b.kind == k
}

// IsByte reports whether t is byte.
func IsByte(t Type) bool {
	return isKind(t, Byte)
}

// IsVoid reports whether t is void. A nil type counts as void.
func IsVoid(t Type) bool {
	return t == nil || isKind(t, Void)
}

// IsBool reports whether t is the IR predicate type.
func IsBool(t Type) bool {
	return isKind(t, Bool)
}
