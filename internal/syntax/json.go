package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return map[string]interface{}{
			"type":  "Program",
			"pos":   n.Pos().String(),
			"stmts": mapSlice(n.Stmts, toJSONExpr),
		}

	case *Declare:
		return map[string]interface{}{
			"type":  "Declare",
			"pos":   n.Pos().String(),
			"name":  n.Name.Value,
			"types": mapSlice(n.Types, func(t *TypeRef) interface{} { return t.Spelling() }),
		}

	case *Define:
		return map[string]interface{}{
			"type":   "Define",
			"pos":    n.Pos().String(),
			"name":   n.Name.Value,
			"params": mapSlice(n.Params, func(x *Name) interface{} { return x.Value }),
			"body":   mapSlice(n.Body, toJSONExpr),
		}

	case *Assign:
		return map[string]interface{}{
			"type":  "Assign",
			"pos":   n.Pos().String(),
			"name":  n.Name.Value,
			"value": toJSON(n.Value),
		}

	case *ReAssign:
		return map[string]interface{}{
			"type":  "ReAssign",
			"pos":   n.Pos().String(),
			"name":  n.Name.Value,
			"value": toJSON(n.Value),
		}

	case *IfElse:
		return map[string]interface{}{
			"type": "IfElse",
			"pos":  n.Pos().String(),
			"cond": toJSON(n.Cond),
			"then": mapSlice(n.Then, toJSONExpr),
			"else": mapSlice(n.Else, toJSONExpr),
		}

	case *ForLoop:
		return map[string]interface{}{
			"type": "ForLoop",
			"pos":  n.Pos().String(),
			"init": toJSON(n.Init),
			"cond": toJSON(n.Cond),
			"step": toJSON(n.Step),
			"body": mapSlice(n.Body, toJSONExpr),
		}

	case *Pass:
		return map[string]interface{}{
			"type": "Pass",
			"pos":  n.Pos().String(),
		}

	case *Name:
		return map[string]interface{}{
			"type": "Var",
			"pos":  n.Pos().String(),
			"name": n.Value,
		}

	case *ByteLit:
		return map[string]interface{}{
			"type":  "Byte",
			"pos":   n.Pos().String(),
			"value": n.Value,
		}

	case *Operation:
		m := map[string]interface{}{
			"type": "Operation",
			"pos":  n.Pos().String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
		}
		if n.Y != nil {
			m["y"] = toJSON(n.Y)
		}
		return m

	case *Call:
		m := map[string]interface{}{
			"type": "Call",
			"pos":  n.Pos().String(),
			"func": n.Func.Value,
			"args": mapSlice(n.Args, toJSONExpr),
		}
		if n.Return {
			m["return"] = true
		}
		return m

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

func toJSONExpr(e Expr) interface{} { return toJSON(e) }

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
