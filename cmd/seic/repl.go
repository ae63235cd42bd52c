package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/codegen"
	"github.com/you-not-fish/sei/internal/parser"
	"github.com/you-not-fish/sei/internal/pattern"
)

const (
	historyFile = ".sei_history"
	promptMain  = "sei> "
	promptCont  = "...> "
)

// prompter reads one line of input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// session holds the state of an interactive session.
type session struct {
	g          *pattern.Grammar
	stackWords int
	showAST    bool
	out        io.Writer
	errOut     io.Writer
}

// runRepl compiles each entered program and prints its assembly.
func runRepl() int {
	g, cfg, err := loadLanguage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("sei %s. Type :help for commands.\n", Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := &session{g: g, stackWords: cfg.StackWords, out: os.Stdout, errOut: os.Stderr}
	for {
		src, ok := readEntry(ln, g, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if s.eval(src) {
			return 0
		}
	}
}

// readEntry reads lines until they form a program that does not end
// inside a bracket group. It reports false at end of input.
func readEntry(p prompter, g *pattern.Grammar, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = p.Prompt(prompt)
		} else {
			line, err = p.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// liner.ErrPromptAborted: drop the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.Parse(src, g); parser.Incomplete(err) {
			continue
		}
		return src, true
	}
}

// eval handles one entry. It reports true when the session should end.
func (s *session) eval(src string) (quit bool) {
	if cmd := strings.TrimSpace(src); strings.HasPrefix(cmd, ":") {
		switch strings.ToLower(cmd) {
		case ":quit", ":q":
			return true
		case ":ast":
			s.showAST = !s.showAST
			fmt.Fprintf(s.out, "AST display %s\n", onOff(s.showAST))
		case ":help":
			fmt.Fprintln(s.out, ":ast   toggle AST display")
			fmt.Fprintln(s.out, ":quit  leave the session")
		default:
			fmt.Fprintln(s.out, "unknown command. Type :help for commands.")
		}
		return false
	}

	prog, err := parser.Parse(src, s.g)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return false
	}
	if s.showAST {
		ast.Fprint(s.out, prog.Root)
	}
	if err := codegen.Generate(s.out, prog.Root, prog.Frame, codegen.Options{StackWords: s.stackWords}); err != nil {
		fmt.Fprintln(s.errOut, err)
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
