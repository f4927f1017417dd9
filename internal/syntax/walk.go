package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkList(n.Stmts, v)

	case *Declare:
		Walk(n.Name, v)
		for _, t := range n.Types {
			Walk(t, v)
		}

	case *TypeRef:
		if n.Name != nil {
			Walk(n.Name, v)
		}

	case *Define:
		Walk(n.Name, v)
		for _, x := range n.Params {
			Walk(x, v)
		}
		walkList(n.Body, v)

	case *Assign:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *ReAssign:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *IfElse:
		Walk(n.Cond, v)
		walkList(n.Then, v)
		walkList(n.Else, v)

	case *ForLoop:
		Walk(n.Init, v)
		Walk(n.Cond, v)
		Walk(n.Step, v)
		walkList(n.Body, v)

	case *Operation:
		Walk(n.X, v)
		if n.Y != nil {
			Walk(n.Y, v)
		}

	case *Call:
		Walk(n.Func, v)
		walkList(n.Args, v)

	case *Name, *ByteLit, *Pass:
		// leaves
	}
}

func walkList(list []Expr, v Visitor) {
	for _, x := range list {
		Walk(x, v)
	}
}
