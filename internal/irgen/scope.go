package irgen

import (
	"github.com/you-not-fish/sug/internal/ir"
	"github.com/you-not-fish/sug/internal/syntax"
)

// A binding is what a variable name refers to: a stack slot, or for a
// parameter that is never mutated, the incoming value itself.
type binding struct {
	slot  ir.Value
	value ir.Value
}

// scope is one level of the variable table. Each brace-delimited body
// opens a scope; the function's parameters live in the outermost one.
type scope struct {
	parent *scope
	vars   map[string]*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]*binding)}
}

// bind binds name in s, shadowing any binding in an enclosing scope.
func (s *scope) bind(name string, b *binding) {
	s.vars[name] = b
}

// lookup finds name in s or its parents.
func (s *scope) lookup(name string) *binding {
	for ; s != nil; s = s.parent {
		if b := s.vars[name]; b != nil {
			return b
		}
	}
	return nil
}

func (g *generator) openScope() {
	g.scope = newScope(g.scope)
}

func (g *generator) closeScope() {
	g.scope = g.scope.parent
}

// mutatedNames returns the names that some mutate statement in body
// targets. Parameters among them need a stack slot.
func mutatedNames(body []syntax.Expr) map[string]bool {
	names := make(map[string]bool)
	for _, s := range body {
		syntax.Walk(s, func(n syntax.Node) bool {
			if r, ok := n.(*syntax.ReAssign); ok {
				names[r.Name.Value] = true
			}
			return true
		})
	}
	return names
}
