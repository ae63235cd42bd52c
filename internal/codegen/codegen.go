// Package codegen emits assembly for a MIPS-like stack machine.
//
// Every node compiles to a self-contained fragment: expressions leave their
// value pushed on the operand stack, statements leave the stack as they
// found it. The conventions are described in mips.go.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/scope"
)

// DefaultStackWords is the operand stack size used when Options.StackWords
// is zero.
const DefaultStackWords = 1000

// Options controls the program preamble and postamble.
type Options struct {
	Entry      string // entry label; none if empty
	StackWords int    // operand stack size in words
	Exit       bool   // end the program with the exit syscall
}

// Generate writes the assembly for the program root, whose naming context
// is f.
func Generate(w io.Writer, root *ast.Block, f *scope.Frame, opts Options) error {
	if err := checkLabels(root, opts.Entry); err != nil {
		return err
	}
	if opts.StackWords == 0 {
		opts.StackWords = DefaultStackWords
	}

	g := &generator{e: emitter{w: w}}
	if opts.Entry != "" {
		g.e.emitInst(".text")
		g.e.emitInst(".globl %s", opts.Entry)
		g.e.emitLabel(opts.Entry)
	}
	g.e.emitInst("addi $sp, $sp, %d", -WordSize*opts.StackWords)
	g.e.emitInst("add %s, $sp, $zero", FramePointer)
	g.e.emitInst("addi $sp, $sp, %d", WordSize*f.Size())

	g.block(root)

	if opts.Exit {
		g.e.emitInst("li $v0, 10")
		g.e.emitInst("syscall")
	}
	return g.e.err
}

// Fragment returns the assembly of n alone, without preamble.
func Fragment(n ast.Node) string {
	var buf strings.Builder
	g := &generator{e: emitter{w: &buf}}
	g.node(n)
	return buf.String()
}

// funcLabel returns the label of a user function. The prefix keeps function
// names clear of instruction mnemonics and assembler directives.
func funcLabel(name string) string {
	return "fn_" + name
}

// checkLabels rejects programs whose labels would collide. Generated labels
// contain an underscore and source names cannot, so only function labels and
// the entry label need checking.
func checkLabels(root *ast.Block, entry string) error {
	seen := make(map[string]bool)
	if entry != "" {
		seen[entry] = true
	}
	var err error
	ast.Walk(root, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		d, ok := n.(*ast.FuncDecl)
		if !ok {
			return true
		}
		label := funcLabel(d.Name)
		if seen[label] {
			err = fmt.Errorf("function %s: label %s already defined", d.Name, label)
			return false
		}
		seen[label] = true
		return true
	})
	return err
}

type generator struct {
	e emitter
}

func (g *generator) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.Number:
		g.e.emitInst("li $t0, %s", n.Value)
		g.e.push()

	case *ast.Var:
		g.e.load(n.Slot())
		g.e.push()

	case *ast.Binary:
		g.node(n.X)
		g.node(n.Y)
		g.e.popTwo()
		g.e.emitAsm(n.Op.Asm)
		g.e.push()

	case *ast.VarDecl:
		g.node(n.Value)
		g.e.pop()
		g.e.store(n.Slot())

	case *ast.If:
		end := fmt.Sprintf("if_false%d", g.e.nextLabel())
		g.node(n.Cond)
		g.e.pop()
		g.e.emitInst("beqz $t0, %s", end)
		g.statement(n.Body)
		g.e.emitLabel(end)

	case *ast.While:
		id := g.e.nextLabel()
		start, end := fmt.Sprintf("while_start%d", id), fmt.Sprintf("while_end%d", id)
		g.e.emitLabel(start)
		g.node(n.Cond)
		g.e.pop()
		g.e.emitInst("beqz $t0, %s", end)
		g.statement(n.Body)
		g.e.emitInst("j %s", start)
		g.e.emitLabel(end)

	case *ast.FuncDecl:
		g.funcDecl(n)

	case *ast.Call:
		for _, arg := range n.Args {
			g.node(arg)
		}
		if n.Kind == ast.Builtin {
			g.e.emitAsm(n.Builtin.Asm)
		} else {
			g.e.emitInst("jal %s", funcLabel(n.Name))
		}

	case *ast.Block:
		g.block(n)

	default:
		panic(fmt.Sprintf("codegen: unexpected node %T", n))
	}
}

// block emits the lines of b. Curly blocks are statement lists and drop the
// values their lines leave; round blocks keep them.
func (g *generator) block(b *ast.Block) {
	for _, line := range b.Lines {
		if b.Kind == ast.Curly {
			g.statement(line)
		} else {
			g.node(line)
		}
	}
}

// statement emits n and drops whatever it pushed.
func (g *generator) statement(n ast.Node) {
	g.node(n)
	g.e.drop(ast.ValueCount(n))
}

func (g *generator) funcDecl(d *ast.FuncDecl) {
	label := funcLabel(d.Name)
	end := label + "_end"
	params := d.ParamSlots()
	argWords := WordSize * len(params)

	g.e.emitInst("j %s", end)
	g.e.emitLabel(label)

	// Save $ra and the caller's frame pointer, open the new frame.
	g.e.emitInst("sw $ra, 0($sp)")
	g.e.emitInst("sw %s, 4($sp)", FramePointer)
	g.e.emitInst("addi %s, $sp, 8", FramePointer)
	g.e.emitInst("addi $sp, %s, %d", FramePointer, WordSize*d.Frame.Size())

	for k, slot := range params {
		g.e.emitInst("lw $t0, %d(%s)", -(8 + argWords - WordSize*k), FramePointer)
		g.e.store(slot)
	}

	// The value of the last line is the result.
	lines := d.Body.Lines
	for i, line := range lines {
		if i < len(lines)-1 {
			g.statement(line)
			continue
		}
		g.node(line)
		switch n := ast.ValueCount(line); {
		case n == 0:
			g.e.emitInst("li $t0, 0")
			g.e.push()
		case n > 1:
			g.e.pop()
			g.e.drop(n - 1)
			g.e.push()
		}
	}
	if len(lines) == 0 {
		g.e.emitInst("li $t0, 0")
		g.e.push()
	}

	// Take the result, drop the frame and the arguments, restore the
	// caller's registers and hand the result over.
	g.e.emitInst("lw $t0, -4($sp)")
	g.e.emitInst("addi $sp, %s, %d", FramePointer, -(8 + argWords))
	g.e.emitInst("lw $ra, -8(%s)", FramePointer)
	g.e.emitInst("lw %s, -4(%s)", FramePointer, FramePointer)
	g.e.push()
	g.e.emitInst("jr $ra")
	g.e.emitLabel(end)
}
