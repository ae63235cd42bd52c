package pattern

import (
	"fmt"
	"slices"
	"strings"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/scope"
	"github.com/you-not-fish/sei/internal/syntax"
)

// Constructor builds the node that replaces a matched window. caps holds the
// captured nodes in matcher order, literal positions skipped; f is the frame
// of the sequence being rewritten.
//
// A constructor returns an error for input it cannot accept. A capture list
// that does not fit the rule's matchers is a programming error and panics.
type Constructor func(caps []ast.Node, f *scope.Frame) (ast.Node, error)

// Rule is a grammar rule. Rules are not modified after construction.
type Rule struct {
	Name     string
	Matchers []Matcher
	Build    Constructor
}

// NewRule returns a rule matching ms in sequence.
//
// A rule whose only matcher accepts nodes would rewrite its own output
// forever, so at least one matcher must consume a raw token or the window
// must be longer than one item.
func NewRule(name string, build Constructor, ms ...Matcher) *Rule {
	if len(ms) == 0 {
		panic(fmt.Sprintf("pattern: rule %q has no matchers", name))
	}
	if build == nil {
		panic(fmt.Sprintf("pattern: rule %q has no constructor", name))
	}
	if len(ms) == 1 {
		switch ms[0].(type) {
		case blockMatcher, exprMatcher:
			panic(fmt.Sprintf("pattern: rule %q never shrinks the sequence", name))
		}
	}
	return &Rule{Name: name, Matchers: ms, Build: build}
}

// String returns the rule name and its matchers.
func (r *Rule) String() string {
	parts := make([]string, len(r.Matchers))
	for i, m := range r.Matchers {
		parts[i] = m.String()
	}
	return r.Name + ": " + strings.Join(parts, " ")
}

// Sweep applies r to items until no window matches.
//
// One pass scans left to right; after a rewrite at i the cursor moves on to
// i+1, so matches at increasing positions are found in the same pass, and
// the new node is only ever a left operand in a later pass. Passes repeat
// while they rewrite something.
func (g *Grammar) Sweep(r *Rule, items []Item, f *scope.Frame) ([]Item, error) {
	for {
		var changed bool
		var err error
		items, changed, err = g.sweepOnce(r, items, f)
		if err != nil || !changed {
			return items, err
		}
	}
}

func (g *Grammar) sweepOnce(r *Rule, items []Item, f *scope.Frame) ([]Item, bool, error) {
	n := len(r.Matchers)
	changed := false

	for i := 0; i+n <= len(items); i++ {
		if !g.matchAt(r, items[i:i+n]) {
			continue
		}

		caps := make([]ast.Node, 0, n)
		for k, m := range r.Matchers {
			if c := m.capture(items[i+k], f); c != nil {
				caps = append(caps, c)
			}
		}

		pos := items[i].Pos
		node, err := r.Build(caps, f)
		if err != nil {
			return items, changed, syntax.Errorf(pos, "%s: %w", r.Name, err)
		}
		items = slices.Replace(items, i, i+n, NodeItem(node, pos))
		changed = true
	}
	return items, changed, nil
}

func (g *Grammar) matchAt(r *Rule, window []Item) bool {
	for k, m := range r.Matchers {
		if !m.accepts(window[k], g) {
			return false
		}
	}
	return true
}
