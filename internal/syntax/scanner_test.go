package syntax

import (
	"errors"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []Kind
		texts []string
	}{
		{"empty", "", nil, nil},
		{"blank", " \t\n ", nil, nil},
		{"word", "abc", []Kind{Word}, []string{"abc"}},
		{"word_digits", "abc12", []Kind{Word}, []string{"abc12"}},
		{"word_underscore", "a_b", []Kind{Word, Single, Word}, []string{"a", "_", "b"}},
		{"int", "10", []Kind{Number}, []string{"10"}},
		{"float", "3.5", []Kind{Number}, []string{"3.5"}},
		{"float_mul_word", "3.5*abc", []Kind{Number, Single, Word}, []string{"3.5", "*", "abc"}},
		{"trailing_dot", "3.", []Kind{Number, Single}, []string{"3", "."}},
		{"dot_word", "3.x", []Kind{Number, Single, Word}, []string{"3", ".", "x"}},
		{"number_then_word", "2ab", []Kind{Number, Word}, []string{"2", "ab"}},
		{"two_char_op", "==", []Kind{Single, Single}, []string{"=", "="}},
		{"decl", "i sei 0;", []Kind{Word, Word, Number, Single}, []string{"i", "sei", "0", ";"}},
		{"call", "print(i)", []Kind{Word, Single, Word, Single}, []string{"print", "(", "i", ")"}},
		{"braces", "{}", []Kind{Single, Single}, []string{"{", "}"}},
		{"unicode_single", "a→b", []Kind{Word, Single, Word}, []string{"a", "→", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Lex(tt.src)
			if len(toks) != len(tt.kinds) {
				t.Fatalf("Lex(%q) = %v, want %d tokens", tt.src, toks, len(tt.kinds))
			}
			for i, tok := range toks {
				if tok.Kind != tt.kinds[i] {
					t.Errorf("token %d: kind = %v, want %v", i, tok.Kind, tt.kinds[i])
				}
				if tok.Text != tt.texts[i] {
					t.Errorf("token %d: text = %q, want %q", i, tok.Text, tt.texts[i])
				}
			}
		})
	}
}

func TestLexIgnoresWhitespace(t *testing.T) {
	a := Lex("a+b*(5-7)")
	b := Lex(" a + b  \n\t * (5 -7) ")

	if len(a) != len(b) {
		t.Fatalf("token counts differ: %v vs %v", a, b)
	}
	for i := range a {
		if !a[i].Same(b[i]) {
			t.Errorf("token %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLexPositions(t *testing.T) {
	toks := Lex("x sei 1;\n  while(x)")

	tests := []struct {
		idx  int
		text string
		line uint32
		col  uint32
		off  int
	}{
		{0, "x", 1, 1, 0},
		{1, "sei", 1, 3, 2},
		{3, ";", 1, 8, 7},
		{4, "while", 2, 3, 11},
		{6, "x", 2, 9, 17},
	}

	for _, tt := range tests {
		tok := toks[tt.idx]
		if tok.Text != tt.text {
			t.Fatalf("token %d = %q, want %q", tt.idx, tok.Text, tt.text)
		}
		if tok.Pos.Line != tt.line || tok.Pos.Col != tt.col || tok.Pos.Offset != tt.off {
			t.Errorf("%q at %d:%d (offset %d), want %d:%d (offset %d)",
				tok.Text, tok.Pos.Line, tok.Pos.Col, tok.Pos.Offset, tt.line, tt.col, tt.off)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: Number, Text: "3.5"}
	if got, want := tok.String(), `NUMBER "3.5"`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
	if got := Kind(7).String(); got != "kind(7)" {
		t.Errorf("Kind(7).String() = %s", got)
	}
}

func TestPosString(t *testing.T) {
	if got := (Pos{Line: 3, Col: 9}).String(); got != "3:9" {
		t.Errorf("String() = %q, want 3:9", got)
	}
	if got := (Pos{}).String(); got != "-" {
		t.Errorf("zero Pos String() = %q, want -", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := Errorf(Pos{Line: 2, Col: 4}, "rule x: %w", sentinel)

	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is(%v, sentinel) = false", err)
	}
	if got, want := err.Error(), "2:4: rule x: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	noPos := &Error{Err: sentinel}
	if got := noPos.Error(); got != "boom" {
		t.Errorf("Error() without position = %q", got)
	}
}
