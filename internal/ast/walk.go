package ast

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses a tree in depth-first order, children in source order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Binary:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *Call:
		for _, arg := range n.Args {
			Walk(arg, v)
		}

	case *VarDecl:
		Walk(n.Value, v)

	case *If:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *While:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *FuncDecl:
		Walk(n.Body, v)

	case *Block:
		for _, line := range n.Lines {
			Walk(line, v)
		}
	}
}
