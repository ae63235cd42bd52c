// Package parser turns sei source text into an expression tree.
//
// Parsing runs in three steps over a sequence of pattern items: bracket
// groups are reduced to blocks (curly braces first, then parentheses), with
// each interior parsed recursively; the grammar's rules are swept over the
// result; and the remaining items are finalized into the block's lines.
package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/pattern"
	"github.com/you-not-fish/sei/internal/scope"
	"github.com/you-not-fish/sei/internal/syntax"
)

var (
	// ErrUnmatchedBracket reports an opening bracket without a matching close.
	ErrUnmatchedBracket = errors.New("unmatched opening bracket")
	// ErrUnexpectedToken reports a token no rule consumed.
	ErrUnexpectedToken = errors.New("unexpected token")
)

// Config controls parser diagnostics.
type Config struct {
	DumpBefore string    // dump the item sequence before this rule ("*" for all)
	DumpAfter  string    // dump the item sequence after this rule ("*" for all)
	Dump       io.Writer // destination of dumps; os.Stderr if nil
}

// Program is a parsed compilation unit.
type Program struct {
	Root  *ast.Block   // top-level lines, as a curly block
	Frame *scope.Frame // root naming context
}

// Parser parses source text with a fixed grammar.
type Parser struct {
	g   *pattern.Grammar
	cfg Config
}

// New returns a parser for g.
func New(g *pattern.Grammar, cfg Config) *Parser {
	if cfg.Dump == nil {
		cfg.Dump = os.Stderr
	}
	return &Parser{g: g, cfg: cfg}
}

// Parse parses src with g and the default configuration.
func Parse(src string, g *pattern.Grammar) (*Program, error) {
	return New(g, Config{}).Parse(src)
}

// Parse parses src. Each call uses a fresh root frame, so a Parser may be
// reused.
func (p *Parser) Parse(src string) (*Program, error) {
	f := scope.NewFrame()
	lines, err := p.parse(pattern.TokenItems(syntax.Lex(src)), f)
	if err != nil {
		return nil, err
	}
	return &Program{
		Root:  &ast.Block{Kind: ast.Curly, Lines: lines, Frame: f},
		Frame: f,
	}, nil
}

// parse runs the whole pipeline over one bracket interior.
func (p *Parser) parse(items []pattern.Item, f *scope.Frame) ([]ast.Node, error) {
	items, err := p.Group(items, f)
	if err != nil {
		return nil, err
	}
	for _, r := range p.g.Rules() {
		p.dump(p.cfg.DumpBefore, "before", r, items)
		if items, err = p.g.Sweep(r, items, f); err != nil {
			return nil, err
		}
		p.dump(p.cfg.DumpAfter, "after", r, items)
	}
	return p.finish(items, f)
}

// Group reduces every bracket group of items to a block, curly braces first.
// A sequence without raw brackets is returned unchanged.
func (p *Parser) Group(items []pattern.Item, f *scope.Frame) ([]pattern.Item, error) {
	items, err := p.group(items, ast.Curly, f)
	if err != nil {
		return nil, err
	}
	return p.group(items, ast.Round, f)
}

func (p *Parser) group(items []pattern.Item, kind ast.BlockKind, f *scope.Frame) ([]pattern.Item, error) {
	open, close := kind.Delims()

	for i := 0; i < len(items); i++ {
		if !items[i].IsText(open) {
			continue
		}
		end := findClose(items, i, open, close)
		if end < 0 {
			return nil, syntax.Errorf(items[i].Pos, "%w", ErrUnmatchedBracket)
		}

		inner := f
		if kind == ast.Curly {
			inner = f.Push()
		}
		lines, err := p.parse(items[i+1:end:end], inner)
		if err != nil {
			return nil, err
		}

		b := &ast.Block{Kind: kind, Lines: lines}
		if kind == ast.Curly {
			b.Frame = inner
		}
		items = slices.Replace(items, i, end+1, pattern.NodeItem(b, items[i].Pos))
	}
	return items, nil
}

// findClose returns the index of the close matching the open at start, or
// -1. Only brackets of the same pair count towards the depth.
func findClose(items []pattern.Item, start int, open, close string) int {
	depth := 0
	for i := start; i < len(items); i++ {
		switch {
		case items[i].IsText(open):
			depth++
		case items[i].IsText(close):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// finish turns what the rules left into lines: remaining words become
// variable references, separators are dropped.
func (p *Parser) finish(items []pattern.Item, f *scope.Frame) ([]ast.Node, error) {
	lines := make([]ast.Node, 0, len(items))
	for _, it := range items {
		switch {
		case it.IsNode():
			lines = append(lines, it.Node)
		case it.Tok.IsWord() && !p.g.IsReserved(it.Tok.Text):
			lines = append(lines, pattern.NewVar(it.Tok.Text, f, it.Pos))
		case p.g.IsSeparator(it.Tok.Text):
		default:
			return nil, syntax.Errorf(it.Pos, "%w: %s", ErrUnexpectedToken, it.Tok.Text)
		}
	}
	return lines, nil
}

func (p *Parser) dump(filter, when string, r *pattern.Rule, items []pattern.Item) {
	if !shouldDump(filter, r.Name) {
		return
	}
	fmt.Fprintf(p.cfg.Dump, "--- %s %s ---\n%s\n", when, r.Name, pattern.FormatItems(items))
}

func shouldDump(filter, name string) bool {
	return filter == "*" || filter == name
}

// Incomplete reports whether err means the source ended inside a bracket
// group, so that more input could complete it.
func Incomplete(err error) bool {
	return errors.Is(err, ErrUnmatchedBracket)
}
