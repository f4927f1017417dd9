package types

import "github.com/you-not-fish/sug/internal/abi"

// Alignof returns the alignment of T in bytes.
func Alignof(T Type) int64 {
	switch t := T.(type) {
	case *Basic:
		switch t.kind {
		case Byte:
			return abi.AlignByte
		case Bool:
			return abi.AlignBool
		}
	case *Signature:
		return abi.AlignPtr
	}
	return 1
}
