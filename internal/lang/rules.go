package lang

import (
	"fmt"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/pattern"
	"github.com/you-not-fish/sei/internal/scope"
)

// keywords are the words consumed by the fixed statement rules.
var keywords = map[string]bool{
	"def":   true,
	"if":    true,
	"while": true,
	"sei":   true,
}

// def <name>(<params>){<body>}
func funcDeclRule() *pattern.Rule {
	return pattern.NewRule("def", buildFuncDecl,
		pattern.Literal("def"), pattern.Name(), pattern.Block(ast.Round), pattern.Block(ast.Curly))
}

func buildFuncDecl(caps []ast.Node, f *scope.Frame) (ast.Node, error) {
	name := capturedName(caps, 0, 3)
	params := capturedBlock(caps[1], ast.Round)
	body := capturedBlock(caps[2], ast.Curly)

	fn := body.Frame.Fork()
	names := make([]string, len(params.Lines))
	seen := make(map[string]bool, len(params.Lines))
	for i, line := range params.Lines {
		v, ok := line.(*ast.Var)
		if !ok {
			return nil, fmt.Errorf("parameter %d of %s is a %s, not a name", i+1, name, ast.DisplayName(line))
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("duplicate parameter %s of %s", v.Name, name)
		}
		seen[v.Name] = true
		names[i] = v.Name
		fn.SlotAt(v.Name, ast.Offset(v.Pos))
	}

	f.DeclareFunc(name)
	return &ast.FuncDecl{Name: name, Params: names, Frame: fn, Body: body}, nil
}

// if(<cond>){<body>}
func ifRule() *pattern.Rule {
	return pattern.NewRule("if", func(caps []ast.Node, _ *scope.Frame) (ast.Node, error) {
		cond, err := condition("if", caps, 2)
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Body: capturedBlock(caps[1], ast.Curly)}, nil
	}, pattern.Literal("if"), pattern.Block(ast.Round), pattern.Block(ast.Curly))
}

// while(<cond>){<body>}
func whileRule() *pattern.Rule {
	return pattern.NewRule("while", func(caps []ast.Node, _ *scope.Frame) (ast.Node, error) {
		cond, err := condition("while", caps, 2)
		if err != nil {
			return nil, err
		}
		return &ast.While{Cond: cond, Body: capturedBlock(caps[1], ast.Curly)}, nil
	}, pattern.Literal("while"), pattern.Block(ast.Round), pattern.Block(ast.Curly))
}

func condition(stmt string, caps []ast.Node, want int) (*ast.Block, error) {
	checkCaps(stmt, caps, want)
	cond := capturedBlock(caps[0], ast.Round)
	if len(cond.Lines) != 1 {
		return nil, fmt.Errorf("condition of %s must be one expression, got %d", stmt, len(cond.Lines))
	}
	if n := ast.ValueCount(cond); n != 1 {
		return nil, fmt.Errorf("condition of %s must yield one value, %s yields %d", stmt, ast.DisplayName(cond.Lines[0]), n)
	}
	return cond, nil
}

// <builtin>(<args>)
func builtinRule(b Builtin) *pattern.Rule {
	fn := &ast.Func{Name: b.Name, Asm: b.Asm, Pushes: b.Pushes}
	return pattern.NewRule(b.Name, func(caps []ast.Node, _ *scope.Frame) (ast.Node, error) {
		checkCaps(b.Name, caps, 1)
		args := capturedBlock(caps[0], ast.Round)
		return &ast.Call{Name: b.Name, Kind: ast.Builtin, Builtin: fn, Args: args.Lines}, nil
	}, pattern.Literal(b.Name), pattern.Block(ast.Round))
}

// <name>(<args>)
//
// A callee declared before the call was reduced is Declared; anything else,
// including recursive calls from a function's own body, is a Forward call
// resolved by label.
func callRule() *pattern.Rule {
	return pattern.NewRule("call", func(caps []ast.Node, f *scope.Frame) (ast.Node, error) {
		name := capturedName(caps, 0, 2)
		args := capturedBlock(caps[1], ast.Round)
		kind := ast.Forward
		if f.IsFunc(name) {
			kind = ast.Declared
		}
		return &ast.Call{Name: name, Kind: kind, Args: args.Lines}, nil
	}, pattern.Name(), pattern.Block(ast.Round))
}

// <expr> <symbol> <expr>
func operatorRule(op Operator) (*pattern.Rule, error) {
	texts, err := symbolLiterals(op.Symbol)
	if err != nil {
		return nil, fmt.Errorf("operator %q: %w", op.Symbol, err)
	}
	ms := []pattern.Matcher{pattern.Expr()}
	for _, text := range texts {
		ms = append(ms, pattern.Literal(text))
	}
	ms = append(ms, pattern.Expr())

	operator := ast.Operator{Symbol: op.Symbol, Asm: op.Asm}
	return pattern.NewRule(op.Symbol, func(caps []ast.Node, _ *scope.Frame) (ast.Node, error) {
		checkCaps(op.Symbol, caps, 2)
		return &ast.Binary{Op: operator, X: caps[0], Y: caps[1]}, nil
	}, ms...), nil
}

// <name> sei <expr>
func varDeclRule() *pattern.Rule {
	return pattern.NewRule("sei", func(caps []ast.Node, f *scope.Frame) (ast.Node, error) {
		name := capturedBinder(caps, 0, 2)
		f.SlotAt(name.Name, ast.Offset(name.Pos))
		return &ast.VarDecl{Name: name.Name, Frame: f, Pos: name.Pos, Value: caps[1]}, nil
	}, pattern.Name(), pattern.Literal("sei"), pattern.Expr())
}

// Capture helpers. A mismatch means a rule's matchers and its constructor
// disagree, which is a bug in this package, not in the program being parsed.

func checkCaps(rule string, caps []ast.Node, want int) {
	if len(caps) != want {
		panic(fmt.Sprintf("lang: rule %s: got %d captures, want %d", rule, len(caps), want))
	}
}

func capturedName(caps []ast.Node, i, want int) string {
	return capturedBinder(caps, i, want).Name
}

func capturedBinder(caps []ast.Node, i, want int) *ast.Var {
	checkCaps("name", caps, want)
	v, ok := caps[i].(*ast.Var)
	if !ok || v.Frame != nil {
		panic(fmt.Sprintf("lang: capture %d is %T, want a name", i, caps[i]))
	}
	return v
}

func capturedBlock(n ast.Node, kind ast.BlockKind) *ast.Block {
	b, ok := ast.AsBlock(n)
	if !ok || b.Kind != kind {
		panic(fmt.Sprintf("lang: capture is %T, want a %s block", n, kind))
	}
	return b
}
