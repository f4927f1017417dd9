package types

// universe maps the type spellings accepted in declarations.
var universe = map[string]*Basic{}

func init() {
	for _, t := range Typ {
		if t != nil && t.info&IsSource != 0 {
			universe[t.name] = t
		}
	}
}

// Lookup resolves a type spelling from a declaration. Only byte and void
// are known; every other spelling (including bool) reports false.
func Lookup(spelling string) (Type, bool) {
	t, ok := universe[spelling]
	if !ok {
		return nil, false
	}
	return t, true
}
