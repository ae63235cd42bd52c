package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/you-not-fish/sei/internal/ast"
	"github.com/you-not-fish/sei/internal/lang"
	"github.com/you-not-fish/sei/internal/parser"
	"github.com/you-not-fish/sei/internal/scope"
)

// asm joins instructions into the indented form the emitter writes.
func asm(lines ...string) string {
	var buf strings.Builder
	for _, l := range lines {
		if strings.HasSuffix(l, ":") {
			buf.WriteString(l + "\n")
			continue
		}
		for _, inst := range strings.Split(l, "\n") {
			buf.WriteString("  " + inst + "\n")
		}
	}
	return buf.String()
}

func generate(t *testing.T, src string, opts Options) string {
	t.Helper()
	prog, err := parser.Parse(src, lang.Default())
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	var buf strings.Builder
	if err := Generate(&buf, prog.Root, prog.Frame, opts); err != nil {
		t.Fatalf("Generate(%q): %v", src, err)
	}
	return buf.String()
}

func TestFragmentExpressions(t *testing.T) {
	f := scope.NewFrame()
	f.Slot("a")
	f.Slot("b")
	add := ast.Operator{Symbol: "+", Asm: "add $t0, $t0, $t1"}

	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"number", &ast.Number{Value: "5"}, asm("li $t0, 5", Push)},
		{"var", &ast.Var{Name: "b", Frame: f}, asm("lw $t0, 4($t6)", Push)},
		{
			"binary",
			&ast.Binary{Op: add, X: &ast.Var{Name: "a", Frame: f}, Y: &ast.Number{Value: "2"}},
			asm("lw $t0, 0($t6)", Push, "li $t0, 2", Push, PopTwo, "add $t0, $t0, $t1", Push),
		},
		{
			"var decl",
			&ast.VarDecl{Name: "b", Frame: f, Value: &ast.Number{Value: "7"}},
			asm("li $t0, 7", Push, Pop, "sw $t0, 4($t6)"),
		},
		{
			"round block",
			&ast.Block{Kind: ast.Round, Lines: []ast.Node{&ast.Number{Value: "1"}, &ast.Number{Value: "2"}}},
			asm("li $t0, 1", Push, "li $t0, 2", Push),
		},
		{
			"curly block",
			&ast.Block{Kind: ast.Curly, Frame: f, Lines: []ast.Node{&ast.Number{Value: "1"}}},
			asm("li $t0, 1", Push, "addi $sp, $sp, -4"),
		},
		{
			"call",
			&ast.Call{Name: "f", Kind: ast.Forward, Args: []ast.Node{&ast.Number{Value: "3"}}},
			asm("li $t0, 3", Push, "jal fn_f"),
		},
		{
			"builtin",
			&ast.Call{Name: "neg", Kind: ast.Builtin, Builtin: &ast.Func{Name: "neg", Asm: Pop + "\nsub $t0, $zero, $t0\n" + Push, Pushes: 1}, Args: []ast.Node{&ast.Number{Value: "3"}}},
			asm("li $t0, 3", Push, Pop, "sub $t0, $zero, $t0", Push),
		},
	}

	for _, tt := range tests {
		if got := Fragment(tt.node); got != tt.want {
			t.Errorf("%s:\n%s\nwant:\n%s", tt.name, got, tt.want)
		}
	}
}

func TestFragmentFuncDecl(t *testing.T) {
	prog, err := parser.Parse("def id(x){x}", lang.Default())
	if err != nil {
		t.Fatal(err)
	}
	decl := prog.Root.Lines[0].(*ast.FuncDecl)
	slot := decl.ParamSlots()[0]
	if slot != 1 || decl.Frame.Size() != 2 {
		t.Fatalf("x in slot %d of %d, want slot 1 of 2", slot, decl.Frame.Size())
	}

	want := asm(
		"j fn_id_end",
		"fn_id:",
		"sw $ra, 0($sp)",
		"sw $t6, 4($sp)",
		"addi $t6, $sp, 8",
		"addi $sp, $t6, 8",
		"lw $t0, -12($t6)",
		"sw $t0, 4($t6)",
		"lw $t0, 4($t6)", Push,
		"lw $t0, -4($sp)",
		"addi $sp, $t6, -12",
		"lw $ra, -8($t6)",
		"lw $t6, -4($t6)",
		Push,
		"jr $ra",
		"fn_id_end:",
	)
	if got := Fragment(decl); got != want {
		t.Errorf("Fragment:\n%s\nwant:\n%s", got, want)
	}
}

func TestFuncDeclArguments(t *testing.T) {
	out := generate(t, "def diff(a, b){a-b}", Options{})
	// Argument 0 of 2 lies deepest, below argument 1 and the saved registers.
	for _, want := range []string{"lw $t0, -16($t6)", "lw $t0, -12($t6)", "addi $sp, $t6, -16"} {
		if !strings.Contains(out, "  "+want+"\n") {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestFuncDeclResult(t *testing.T) {
	tests := []struct {
		src  string
		zero bool
	}{
		{"def f(){}", true},
		{"def f(){print(1)}", true},
		{"def f(){x sei 1}", true},
		{"def f(){1}", false},
		{"def f(){1; 2}", false},
	}

	for _, tt := range tests {
		out := generate(t, tt.src, Options{})
		body := out[strings.Index(out, "fn_f:\n"):]
		hasZero := strings.Contains(body, "  li $t0, 0\n")
		if hasZero != tt.zero {
			t.Errorf("%s: pushes zero result = %v, want %v\n%s", tt.src, hasZero, tt.zero, out)
		}
	}
}

func TestGenerateProgram(t *testing.T) {
	got := generate(t, "x sei 1", Options{})
	want := asm(
		"addi $sp, $sp, -4000",
		"add $t6, $sp, $zero",
		"addi $sp, $sp, 4",
		"li $t0, 1", Push,
		Pop,
		"sw $t0, 0($t6)",
	)
	if got != want {
		t.Errorf("Generate:\n%s\nwant:\n%s", got, want)
	}

	got = generate(t, "", Options{Entry: "main", StackWords: 10, Exit: true})
	want = asm(".text", ".globl main") + "main:\n" + asm(
		"addi $sp, $sp, -40",
		"add $t6, $sp, $zero",
		"addi $sp, $sp, 0",
		"li $v0, 10",
		"syscall",
	)
	if got != want {
		t.Errorf("Generate with options:\n%s\nwant:\n%s", got, want)
	}
}

func TestStatementsDropValues(t *testing.T) {
	out := generate(t, "5", Options{})
	if !strings.HasSuffix(out, asm("li $t0, 5", Push, "addi $sp, $sp, -4")) {
		t.Errorf("top-level expression value not dropped:\n%s", out)
	}

	out = generate(t, "print(5)", Options{})
	if !strings.HasSuffix(out, asm("syscall")) {
		t.Errorf("print result dropped although it pushes nothing:\n%s", out)
	}
}

func TestLabelsUnique(t *testing.T) {
	out := generate(t, "if(1){2}; if(1){2}; while(0){1}; while(0){if(1){1}}", Options{})

	labels := map[string]int{}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasSuffix(line, ":") {
			labels[line]++
		}
	}
	want := []string{
		"if_false0:", "if_false1:",
		"while_start2:", "while_end2:",
		"while_start3:", "while_end3:",
		"if_false4:",
	}
	for _, l := range want {
		if labels[l] != 1 {
			t.Errorf("label %s defined %d times", l, labels[l])
		}
	}
	if len(labels) != len(want) {
		t.Errorf("got labels %v", labels)
	}
}

func TestWhileShape(t *testing.T) {
	out := generate(t, "while(1){2}", Options{})
	want := "while_start0:\n" + asm("li $t0, 1", Push, Pop, "beqz $t0, while_end0", "li $t0, 2", Push, "addi $sp, $sp, -4", "j while_start0") + "while_end0:\n"
	if !strings.HasSuffix(out, want) {
		t.Errorf("while:\n%s\nwant suffix:\n%s", out, want)
	}
}

func TestLabelCollisions(t *testing.T) {
	tests := []struct {
		src   string
		entry string
		want  string
	}{
		{"def f(){1}; def f(){2}", "", "label fn_f already defined"},
		{"def f(){def f(){1}}", "", "label fn_f already defined"},
		{"def f(){1}", "fn_f", "label fn_f already defined"},
		{"def main(){1}", "main", ""},
		{"def add(a, b){a+b}; def j(){1}", "", ""},
	}

	for _, tt := range tests {
		prog, err := parser.Parse(tt.src, lang.Default())
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.src, err)
		}
		var buf strings.Builder
		err = Generate(&buf, prog.Root, prog.Frame, Options{Entry: tt.entry})
		if tt.want == "" {
			if err != nil {
				t.Errorf("Generate(%q): %v", tt.src, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Generate(%q) error = %v, want %q", tt.src, err, tt.want)
		}
		if buf.Len() != 0 {
			t.Errorf("Generate(%q) wrote output despite the error", tt.src)
		}
	}
}

func TestFunctionLabelsArePrefixed(t *testing.T) {
	out := generate(t, "def add(a, b){a+b}; add(1, 2)", Options{})
	for _, want := range []string{"  j fn_add_end\n", "fn_add:\n", "  jal fn_add\n", "fn_add_end:\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if line == "add:" || line == "  jal add" {
			t.Errorf("bare function label in %q", line)
		}
	}
}

type failWriter struct{}

var errWrite = errors.New("disk full")

func (failWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestGenerateWriteError(t *testing.T) {
	prog, err := parser.Parse("print(1)", lang.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := Generate(failWriter{}, prog.Root, prog.Frame, Options{}); !errors.Is(err, errWrite) {
		t.Errorf("Generate error = %v, want %v", err, errWrite)
	}
}
