package pattern

import (
	"github.com/you-not-fish/sei/internal/scope"
	"github.com/you-not-fish/sei/internal/syntax"
)

// Grammar is an ordered rule list together with the separator tokens that
// end lines. It is immutable and may be shared between parses.
type Grammar struct {
	rules      []*Rule
	separators map[string]bool
	reserved   map[string]bool
}

// NewGrammar returns a grammar trying rules in the given order.
//
// Every word that a Literal matcher of some rule consumes (a keyword such as
// "if" or "sei") becomes reserved: Name and Expr matchers do not accept it.
func NewGrammar(separators []string, rules ...*Rule) *Grammar {
	g := &Grammar{
		rules:      rules,
		separators: make(map[string]bool, len(separators)),
		reserved:   make(map[string]bool),
	}
	for _, s := range separators {
		g.separators[s] = true
	}
	for _, r := range rules {
		for _, m := range r.Matchers {
			text, ok := m.literal()
			if !ok {
				continue
			}
			if toks := syntax.Lex(text); len(toks) == 1 && toks[0].IsWord() {
				g.reserved[text] = true
			}
		}
	}
	return g
}

// Rules returns the rules in the order they are applied.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// Rule returns the rule with the given name, or nil.
func (g *Grammar) Rule(name string) *Rule {
	for _, r := range g.rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// IsSeparator reports whether text is a line separator.
func (g *Grammar) IsSeparator(text string) bool {
	return g.separators[text]
}

// IsReserved reports whether word is a keyword of the grammar.
func (g *Grammar) IsReserved(word string) bool {
	return g.reserved[word]
}

// Apply sweeps every rule over items, in registration order.
func (g *Grammar) Apply(items []Item, f *scope.Frame) ([]Item, error) {
	var err error
	for _, r := range g.rules {
		if items, err = g.Sweep(r, items, f); err != nil {
			return items, err
		}
	}
	return items, nil
}
