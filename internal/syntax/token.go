// Package syntax implements the token classifier for sei source text.
package syntax

import "fmt"

// Kind classifies a lexical token.
type Kind uint8

const (
	Word   Kind = iota // identifier or keyword: i, sei, while, print
	Number             // 10, 3.5
	Single             // any other single character: + ; ( {
)

var kindNames = [...]string{
	Word:   "WORD",
	Number: "NUMBER",
	Single: "SINGLE",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Token is a classified slice of the source text.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

// String returns the token as KIND "text".
func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// Same reports whether t and u have the same kind and text.
// Positions are ignored.
func (t Token) Same(u Token) bool {
	return t.Kind == u.Kind && t.Text == u.Text
}

// IsWord reports whether t is a Word token.
func (t Token) IsWord() bool {
	return t.Kind == Word
}
