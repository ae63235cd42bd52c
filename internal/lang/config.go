package lang

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/sei/internal/syntax"
)

//go:embed default.yaml
var defaultYAML []byte

// Config is the table part of a language: its operators, builtin callees
// and separators. The statement forms (sei, if, while, def, calls) are
// fixed.
type Config struct {
	Operators  []Operator `yaml:"operators"`
	Builtins   []Builtin  `yaml:"builtins"`
	Separators []string   `yaml:"separators"`
	StackWords int        `yaml:"stack_words,omitempty"` // operand stack size; 0 means the code generator default
}

// Operator is a binary operator. Asm combines $t1 (left) and $t0 (right)
// into $t0.
type Operator struct {
	Symbol string `yaml:"symbol"`
	Asm    string `yaml:"asm"`
}

// Builtin is a callee implemented by a fixed instruction fragment.
type Builtin struct {
	Name   string `yaml:"name"`
	Asm    string `yaml:"asm"`
	Pushes int    `yaml:"pushes,omitempty"`
}

// DefaultConfig returns the configuration of the default language.
func DefaultConfig() Config {
	cfg, err := ParseConfig(defaultYAML)
	if err != nil {
		panic("lang: invalid default config: " + err.Error())
	}
	return cfg
}

// LoadConfig reads a language configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML language configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	for i := range cfg.Operators {
		cfg.Operators[i].Asm = strings.TrimSpace(cfg.Operators[i].Asm)
	}
	for i := range cfg.Builtins {
		cfg.Builtins[i].Asm = strings.TrimSpace(cfg.Builtins[i].Asm)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every entry can become a grammar rule.
func (cfg Config) Validate() error {
	seen := make(map[string]bool)
	for _, op := range cfg.Operators {
		if _, err := symbolLiterals(op.Symbol); err != nil {
			return fmt.Errorf("operator %q: %w", op.Symbol, err)
		}
		if op.Asm == "" {
			return fmt.Errorf("operator %q: no asm", op.Symbol)
		}
		if seen[op.Symbol] {
			return fmt.Errorf("operator %q defined twice", op.Symbol)
		}
		seen[op.Symbol] = true
	}

	for _, b := range cfg.Builtins {
		toks := syntax.Lex(b.Name)
		if len(toks) != 1 || !toks[0].IsWord() || toks[0].Text != b.Name {
			return fmt.Errorf("builtin %q: name must be a single word", b.Name)
		}
		if keywords[b.Name] {
			return fmt.Errorf("builtin %q: name is a keyword", b.Name)
		}
		if b.Pushes < 0 {
			return fmt.Errorf("builtin %q: negative pushes", b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("builtin %q defined twice", b.Name)
		}
		seen[b.Name] = true
	}

	for _, s := range cfg.Separators {
		toks := syntax.Lex(s)
		if len(toks) != 1 || toks[0].Kind != syntax.Single {
			return fmt.Errorf("separator %q: must be a single symbol character", s)
		}
		if s == "(" || s == ")" || s == "{" || s == "}" {
			return fmt.Errorf("separator %q: brackets cannot separate lines", s)
		}
	}

	if cfg.StackWords < 0 {
		return fmt.Errorf("stack_words: must not be negative, got %d", cfg.StackWords)
	}
	return nil
}

// symbolLiterals splits an operator symbol into the token texts it lexes
// to, one Literal matcher each.
func symbolLiterals(symbol string) ([]string, error) {
	toks := syntax.Lex(symbol)
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty symbol")
	}
	texts := make([]string, len(toks))
	for i, tok := range toks {
		switch {
		case tok.Kind == syntax.Number:
			return nil, fmt.Errorf("symbol contains a number")
		case strings.ContainsAny(tok.Text, "(){}"):
			return nil, fmt.Errorf("symbol contains a bracket")
		case keywords[tok.Text]:
			return nil, fmt.Errorf("symbol contains the keyword %q", tok.Text)
		}
		texts[i] = tok.Text
	}
	return texts, nil
}
