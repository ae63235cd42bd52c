package ast

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the tree rooted at node to w.
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
	case *Number:
		return map[string]interface{}{
			"type":  "Number",
			"value": n.Value,
		}

	case *Var:
		m := map[string]interface{}{
			"type": "Var",
			"name": n.Name,
		}
		if n.Frame != nil {
			m["slot"] = n.Slot()
		}
		return m

	case *Binary:
		return map[string]interface{}{
			"type": "Binary",
			"op":   n.Op.Symbol,
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *Call:
		return map[string]interface{}{
			"type":   "Call",
			"name":   n.Name,
			"callee": n.Kind.String(),
			"args":   mapNodes(n.Args),
		}

	case *VarDecl:
		return map[string]interface{}{
			"type":  "VarDecl",
			"name":  n.Name,
			"slot":  n.Slot(),
			"value": toJSON(n.Value),
		}

	case *If:
		return map[string]interface{}{
			"type": "If",
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}

	case *While:
		return map[string]interface{}{
			"type": "While",
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}

	case *FuncDecl:
		return map[string]interface{}{
			"type":   "FuncDecl",
			"name":   n.Name,
			"params": n.Params,
			"slots":  n.ParamSlots(),
			"frame":  n.Frame.Size(),
			"body":   toJSON(n.Body),
		}

	case *Block:
		return map[string]interface{}{
			"type":  "Block",
			"kind":  n.Kind.String(),
			"lines": mapNodes(n.Lines),
		}
	}
	return nil
}

func mapNodes(nodes []Node) []interface{} {
	out := make([]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = toJSON(n)
	}
	return out
}
