package pattern

import (
	"fmt"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/scope"
	"github.com/you-not-fish/sei/internal/syntax"
)

// Matcher tests one position of a rule window.
//
// Matching is split in two so that a window is accepted or rejected without
// side effects: capture (which may bind a slot) only runs once every matcher
// of the window accepted its item.
type Matcher interface {
	// accepts reports whether it can stand at this position.
	accepts(it Item, g *Grammar) bool
	// capture returns the node passed to the constructor for it, or nil if
	// the matcher captures nothing.
	capture(it Item, f *scope.Frame) ast.Node
	// literal returns the fixed text the matcher consumes, if any.
	literal() (string, bool)
	String() string
}

// Literal matches a raw token with exactly the given text and captures
// nothing.
func Literal(text string) Matcher {
	return literalMatcher{text: text}
}

type literalMatcher struct{ text string }

func (m literalMatcher) accepts(it Item, _ *Grammar) bool { return it.IsText(m.text) }
func (m literalMatcher) capture(Item, *scope.Frame) ast.Node { return nil }
func (m literalMatcher) literal() (string, bool) { return m.text, true }
func (m literalMatcher) String() string { return fmt.Sprintf("%q", m.text) }

// Name matches a raw word that is not a reserved word of the grammar and
// captures it as an unbound *ast.Var placeholder, for binder positions such
// as declared names and callees.
func Name() Matcher {
	return nameMatcher{}
}

type nameMatcher struct{}

func (nameMatcher) accepts(it Item, g *Grammar) bool {
	return !it.IsNode() && it.Tok.Kind == syntax.Word && !g.IsReserved(it.Tok.Text)
}

func (nameMatcher) capture(it Item, _ *scope.Frame) ast.Node {
	return &ast.Var{Name: it.Tok.Text, Pos: it.Pos}
}

func (nameMatcher) literal() (string, bool) { return "", false }
func (nameMatcher) String() string { return "name" }

// Block matches a reduced block of the given kind and captures it.
func Block(kind ast.BlockKind) Matcher {
	return blockMatcher{kind: kind}
}

type blockMatcher struct{ kind ast.BlockKind }

func (m blockMatcher) accepts(it Item, _ *Grammar) bool {
	b, ok := ast.AsBlock(it.Node)
	return ok && b.Kind == m.kind
}

func (m blockMatcher) capture(it Item, _ *scope.Frame) ast.Node { return it.Node }
func (m blockMatcher) literal() (string, bool) { return "", false }
func (m blockMatcher) String() string {
	open, close := m.kind.Delims()
	return open + close
}

// Expr matches any reduced node, or a raw word that is not reserved. A word
// is captured as a variable reference bound in the current frame, allocating
// a slot the first time the name is seen.
func Expr() Matcher {
	return exprMatcher{}
}

type exprMatcher struct{}

func (exprMatcher) accepts(it Item, g *Grammar) bool {
	if it.IsNode() {
		return true
	}
	return it.Tok.Kind == syntax.Word && !g.IsReserved(it.Tok.Text)
}

func (exprMatcher) capture(it Item, f *scope.Frame) ast.Node {
	if it.IsNode() {
		return it.Node
	}
	return NewVar(it.Tok.Text, f, it.Pos)
}

func (exprMatcher) literal() (string, bool) { return "", false }
func (exprMatcher) String() string { return "expr" }

// NewVar returns a reference to name at pos, bound in f.
func NewVar(name string, f *scope.Frame, pos syntax.Pos) *ast.Var {
	f.SlotAt(name, ast.Offset(pos))
	return &ast.Var{Name: name, Frame: f, Pos: pos}
}
