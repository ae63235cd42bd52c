// Package main implements the sei compiler entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/codegen"
	"github.com/you-not-fish/sei/internal/lang"
	"github.com/you-not-fish/sei/internal/parser"
	"github.com/you-not-fish/sei/internal/pattern"
	"github.com/you-not-fish/sei/internal/syntax"
)

// Compiler flags
var (
	emitTokens  = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST     = flag.Bool("emit-ast", false, "Output AST")
	astFormat   = flag.String("ast-format", "text", "AST output format (text or json)")
	output      = flag.String("o", "", "Output file")
	source      = flag.String("e", "", "Compile this source text instead of a file")
	grammarFile = flag.String("grammar", "", "Language config file (YAML)")
	dumpBefore  = flag.String("dump-before", "", "Dump items before rule (name or \"*\")")
	dumpAfter   = flag.String("dump-after", "", "Dump items after rule (name or \"*\")")
	entry       = flag.String("entry", "main", "Entry label (empty for none)")
	noExit      = flag.Bool("no-exit", false, "Do not end the program with the exit syscall")
	trace       = flag.Bool("trace", false, "Output timing trace")
	repl        = flag.Bool("repl", false, "Start an interactive session")
	version     = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

const usageLine = "usage: seic [options] <file.sei | ->"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sei Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: seic [options] <file.sei>\n")
		fmt.Fprintf(os.Stderr, "       seic [options] -e 'source'\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("seic version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *repl {
		os.Exit(runRepl())
	}

	name, src, code := readSource(flag.Args())
	if code != 0 {
		os.Exit(code)
	}

	if *emitTokens {
		os.Exit(runEmitTokens(name, src))
	}

	if *emitAST {
		os.Exit(runEmitAST(name, src))
	}

	os.Exit(runCompile(name, src))
}

// readSource returns the display name and text of the program to compile.
func readSource(args []string) (name, src string, code int) {
	if *source != "" {
		if len(args) > 0 {
			fmt.Fprintln(os.Stderr, "error: -e and an input file are mutually exclusive")
			return "", "", 2
		}
		return "<arg>", *source, 0
	}

	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "error: need exactly one input file")
		fmt.Fprintln(os.Stderr, usageLine)
		return "", "", 2
	}

	var data []byte
	var err error
	if args[0] == "-" {
		name = "<stdin>"
		data, err = io.ReadAll(os.Stdin)
	} else {
		name = args[0]
		data, err = os.ReadFile(name)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return "", "", 1
	}
	return name, string(data), 0
}

// loadLanguage returns the grammar and its config, from -grammar if set.
func loadLanguage() (*pattern.Grammar, lang.Config, error) {
	if *grammarFile == "" {
		return lang.Default(), lang.DefaultConfig(), nil
	}
	cfg, err := lang.LoadConfig(*grammarFile)
	if err != nil {
		return nil, lang.Config{}, err
	}
	g, err := lang.NewGrammar(cfg)
	if err != nil {
		return nil, lang.Config{}, fmt.Errorf("%s: %w", *grammarFile, err)
	}
	return g, cfg, nil
}

// runCompile compiles src and writes the assembly to -o or stdout.
func runCompile(name, src string) int {
	g, cfg, err := loadLanguage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	start := time.Now()
	p := parser.New(g, parser.Config{DumpBefore: *dumpBefore, DumpAfter: *dumpAfter})
	prog, err := p.Parse(src)
	if err != nil {
		reportError(name, err)
		return 1
	}
	traceStep("parse", start)
	if *trace {
		fmt.Fprintf(os.Stderr, "[trace] %-8s %d nodes, %d slots\n", "tree", countNodes(prog.Root), prog.Frame.Size())
	}

	var out strings.Builder
	start = time.Now()
	opts := codegen.Options{Entry: *entry, StackWords: cfg.StackWords, Exit: !*noExit}
	if err := codegen.Generate(&out, prog.Root, prog.Frame, opts); err != nil {
		reportError(name, err)
		return 1
	}
	traceStep("codegen", start)

	if err := writeOutput(out.String()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// writeOutput writes text to -o, or to stdout if -o is not set.
func writeOutput(text string) error {
	if *output == "" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// runEmitAST parses src and outputs the AST.
func runEmitAST(name, src string) int {
	g, _, err := loadLanguage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	p := parser.New(g, parser.Config{DumpBefore: *dumpBefore, DumpAfter: *dumpAfter})
	prog, err := p.Parse(src)
	if err != nil {
		reportError(name, err)
		return 1
	}

	switch *astFormat {
	case "json":
		if err := ast.FprintJSON(os.Stdout, prog.Root); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	case "text":
		ast.Fprint(os.Stdout, prog.Root)
		fmt.Printf("\n%s", prog.Frame)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown AST format %q\n", *astFormat)
		return 2
	}
	return 0
}

// runEmitTokens scans src and prints all tokens with positions.
func runEmitTokens(name, src string) int {
	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for _, tok := range syntax.Lex(src) {
		fmt.Printf("%-20s %-12s %s\n", name+":"+tok.Pos.String(), tok.Kind, formatLiteral(tok.Text))
	}
	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// reportError prints err as name:line:col: msg.
func reportError(name string, err error) {
	var serr *syntax.Error
	if errors.As(err, &serr) && serr.Pos.IsValid() {
		fmt.Fprintf(os.Stderr, "%s:%s: %v\n", name, serr.Pos, serr.Err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
}

func traceStep(step string, start time.Time) {
	if *trace {
		fmt.Fprintf(os.Stderr, "[trace] %-8s %v\n", step, time.Since(start))
	}
}

func countNodes(root ast.Node) int {
	n := 0
	ast.Walk(root, func(ast.Node) bool {
		n++
		return true
	})
	return n
}
