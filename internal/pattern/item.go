// Package pattern implements the rule engine that rewrites a token stream
// into an expression tree.
//
// The working sequence mixes raw tokens and already reduced nodes. A Rule is
// a fixed list of matchers plus a constructor; sweeping a rule over the
// sequence replaces every window the matchers accept with the single node
// the constructor builds. A Grammar runs its rules in registration order, so
// earlier rules bind tighter.
package pattern

import (
	"strings"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/syntax"
)

// Item is an element of the working sequence: a raw token, or a node when
// Node is non-nil. Pos is where the item's source text starts.
type Item struct {
	Tok  syntax.Token
	Node ast.Node
	Pos  syntax.Pos
}

// TokenItem wraps a raw token.
func TokenItem(tok syntax.Token) Item {
	return Item{Tok: tok, Pos: tok.Pos}
}

// NodeItem wraps a reduced node whose source starts at pos.
func NodeItem(n ast.Node, pos syntax.Pos) Item {
	return Item{Node: n, Pos: pos}
}

// TokenItems wraps every token of toks. Number tokens become *ast.Number
// nodes, so that literals are expressions before any rule runs.
func TokenItems(toks []syntax.Token) []Item {
	items := make([]Item, len(toks))
	for i, tok := range toks {
		if tok.Kind == syntax.Number {
			items[i] = NodeItem(&ast.Number{Value: tok.Text}, tok.Pos)
			continue
		}
		items[i] = TokenItem(tok)
	}
	return items
}

// IsNode reports whether the item is a reduced node.
func (it Item) IsNode() bool {
	return it.Node != nil
}

// IsText reports whether the item is a raw token with the given text.
func (it Item) IsText(text string) bool {
	return it.Node == nil && it.Tok.Text == text
}

// String returns the token text, or <name> for a node.
func (it Item) String() string {
	if it.Node != nil {
		return "<" + ast.DisplayName(it.Node) + ">"
	}
	return it.Tok.Text
}

// FormatItems renders a sequence on one line, for dumps and test failures.
func FormatItems(items []Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
