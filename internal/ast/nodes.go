// Package ast defines the expression tree built by the pattern engine.
//
// The node set is closed: Node has an unexported marker method, and the
// operations over nodes (display names, block views, printing, code
// generation) are functions that switch on the concrete type.
package ast

import (
	"fmt"

	"github.com/you-not-fish/sei/internal/scope"
	"github.com/you-not-fish/sei/internal/syntax"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	aNode() // marker method to restrict implementations to this package
}

type node struct{}

func (node) aNode() {}

// BlockKind tells round-bracket groups from curly-brace groups.
type BlockKind uint8

const (
	Round BlockKind = iota // ( ): argument and expression lists
	Curly                  // { }: statement bodies
)

// String returns the display name of blocks of this kind.
func (k BlockKind) String() string {
	switch k {
	case Round:
		return "brack"
	case Curly:
		return "curl"
	}
	return fmt.Sprintf("BlockKind(%d)", k)
}

// Delims returns the opening and closing delimiter of the kind.
func (k BlockKind) Delims() (open, close string) {
	if k == Curly {
		return "{", "}"
	}
	return "(", ")"
}

// ----------------------------------------------------------------------------
// Expressions

// Number is a numeric literal, kept as source text.
type Number struct {
	node
	Value string
}

// Var is a variable reference. Frame is the naming context the reference was
// parsed in; binder placeholders (declared names, parameters, callee names)
// have a nil Frame.
type Var struct {
	node
	Name  string
	Frame *scope.Frame
	Pos   syntax.Pos
}

// Slot returns the storage slot the reference resolves to.
func (v *Var) Slot() int {
	return resolve(v.Frame, v.Name, v.Pos)
}

// Operator is a binary operator: its source symbol and the instruction text
// that combines $t1 (left) and $t0 (right) into $t0.
type Operator struct {
	Symbol string
	Asm    string
}

// Binary is an operator applied to two operands.
type Binary struct {
	node
	Op   Operator
	X, Y Node
}

// CalleeKind says how a call target was resolved.
type CalleeKind uint8

const (
	Forward  CalleeKind = iota // not declared when the call was parsed; called by label
	Declared                   // a function declared earlier in the unit
	Builtin                    // a fixed instruction fragment
)

var calleeKindNames = [...]string{
	Forward:  "forward",
	Declared: "declared",
	Builtin:  "builtin",
}

func (k CalleeKind) String() string {
	if int(k) < len(calleeKindNames) {
		return calleeKindNames[k]
	}
	return fmt.Sprintf("CalleeKind(%d)", k)
}

// Func is a builtin callee. Asm pops the arguments it consumes and pushes
// Pushes results.
type Func struct {
	Name   string
	Asm    string
	Pushes int
}

// Call is a function call. Builtin is set when Kind is Builtin.
type Call struct {
	node
	Name    string
	Kind    CalleeKind
	Builtin *Func
	Args    []Node
}

// ----------------------------------------------------------------------------
// Statements

// VarDecl stores Value into the slot of Name. Pos is the position of Name.
type VarDecl struct {
	node
	Name  string
	Frame *scope.Frame
	Pos   syntax.Pos
	Value Node
}

// Slot returns the storage slot of the declared name.
func (d *VarDecl) Slot() int {
	return resolve(d.Frame, d.Name, d.Pos)
}

// If runs Body when Cond is non-zero.
type If struct {
	node
	Cond Node
	Body Node
}

// While runs Body as long as Cond is non-zero.
type While struct {
	node
	Cond Node
	Body Node
}

// FuncDecl declares a function. Frame is the function's own copy of its
// body's naming context; it binds Params and sizes the function's frame.
type FuncDecl struct {
	node
	Name   string
	Params []string
	Frame  *scope.Frame
	Body   *Block
}

// ParamSlots returns the slots of the parameters, in declaration order.
func (d *FuncDecl) ParamSlots() []int {
	slots := make([]int, len(d.Params))
	for i, p := range d.Params {
		slots[i] = resolve(d.Frame, p, syntax.Pos{})
	}
	return slots
}

// Block is a bracket-delimited group of lines. Curly blocks keep the frame
// their interior was parsed in.
type Block struct {
	node
	Kind  BlockKind
	Lines []Node
	Frame *scope.Frame
}

// ----------------------------------------------------------------------------
// Operations

// DisplayName returns the stable display name of n.
func DisplayName(n Node) string {
	switch n := n.(type) {
	case *Number:
		return "number"
	case *Var:
		return n.Name
	case *Binary:
		return n.Op.Symbol
	case *Call:
		return "func"
	case *VarDecl:
		return "var decl"
	case *If:
		return "if"
	case *While:
		return "while"
	case *FuncDecl:
		return n.Name
	case *Block:
		return n.Kind.String()
	}
	panic(fmt.Sprintf("ast: unexpected node %T", n))
}

// AsBlock returns n as a block, if it is one.
func AsBlock(n Node) (*Block, bool) {
	b, ok := n.(*Block)
	return b, ok
}

// Offset returns the source offset scope lookups use for pos: its byte
// offset, or scope.End for an unknown position.
func Offset(pos syntax.Pos) int {
	if !pos.IsValid() {
		return scope.End
	}
	return pos.Offset
}

// ValueCount returns the number of values n leaves on the operand stack.
// Curly blocks are statement lists and leave none.
func ValueCount(n Node) int {
	switch n := n.(type) {
	case *Number, *Var, *Binary:
		return 1
	case *Call:
		if n.Kind == Builtin {
			return n.Builtin.Pushes
		}
		return 1
	case *Block:
		if n.Kind == Curly {
			return 0
		}
		total := 0
		for _, line := range n.Lines {
			total += ValueCount(line)
		}
		return total
	}
	return 0
}

func resolve(f *scope.Frame, name string, pos syntax.Pos) int {
	if f == nil {
		panic(fmt.Sprintf("ast: %q has no frame", name))
	}
	slot, ok := f.LookupAt(name, Offset(pos))
	if !ok {
		panic(fmt.Sprintf("ast: %q is not bound in its frame", name))
	}
	return slot
}
