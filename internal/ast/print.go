package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the tree rooted at node to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) field(name string, n Node) {
	p.printf("%s:\n", name)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Number:
		p.printf("Number %s\n", n.Value)

	case *Var:
		if n.Frame == nil {
			p.printf("Var %s\n", n.Name)
		} else {
			p.printf("Var %s [slot %d]\n", n.Name, n.Slot())
		}

	case *Binary:
		p.printf("Binary %s\n", n.Op.Symbol)
		p.indent++
		p.print(n.X)
		p.print(n.Y)
		p.indent--

	case *Call:
		p.printf("Call %s (%s)\n", n.Name, n.Kind)
		p.indent++
		for _, arg := range n.Args {
			p.print(arg)
		}
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s [slot %d]\n", n.Name, n.Slot())
		p.indent++
		p.print(n.Value)
		p.indent--

	case *If:
		p.printf("If\n")
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Body", n.Body)
		p.indent--

	case *While:
		p.printf("While\n")
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Body", n.Body)
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s(%s) [frame %d]\n", n.Name, strings.Join(n.Params, ", "), n.Frame.Size())
		p.indent++
		p.print(n.Body)
		p.indent--

	case *Block:
		p.printf("Block %s\n", n.Kind)
		p.indent++
		for _, line := range n.Lines {
			p.print(line)
		}
		p.indent--

	default:
		p.printf("%T\n", n)
	}
}
