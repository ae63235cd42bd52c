// Package lang defines the sei language as a pattern grammar.
//
// The statement forms are fixed; operators, builtin callees and separators
// come from a Config, which is either the embedded default or a YAML file.
package lang

import (
	"sync"

	"github.com/you-not-fish/sei/internal/pattern"
)

// NewGrammar builds the grammar described by cfg. Rules are registered in
// the order:
//
//	def, if, while, builtin calls, calls, operators (in cfg order), sei
//
// Calls bind before operators so that a+f(x) adds a call result, and
// declarations come last so that their value is fully reduced.
func NewGrammar(cfg Config) (*pattern.Grammar, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rules := []*pattern.Rule{funcDeclRule(), ifRule(), whileRule()}
	for _, b := range cfg.Builtins {
		rules = append(rules, builtinRule(b))
	}
	rules = append(rules, callRule())
	for _, op := range cfg.Operators {
		r, err := operatorRule(op)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	rules = append(rules, varDeclRule())

	return pattern.NewGrammar(cfg.Separators, rules...), nil
}

var defaultGrammar = sync.OnceValue(func() *pattern.Grammar {
	g, err := NewGrammar(DefaultConfig())
	if err != nil {
		panic("lang: " + err.Error())
	}
	return g
})

// Default returns the grammar of the default language. It is shared and
// must not be modified.
func Default() *pattern.Grammar {
	return defaultGrammar()
}
