package syntax

import (
	"unicode"
	"unicode/utf8"
)

// source is a character reader with position tracking over a string.
type source struct {
	buf string

	line uint32 // line of ch (1-based)
	col  uint32 // column of ch (1-based, in runes)

	ch    rune // current character, -1 for EOF
	start int  // byte offset of ch
	offs  int  // byte offset just past ch
}

func newSource(src string) *source {
	s := &source{
		buf:  src,
		line: 1,
		col:  0, // incremented to 1 by the first nextch
		ch:   -1,
	}
	s.nextch()
	return s
}

// nextch advances to the next character. (line, col) always refers to
// s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.start = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}
	r, width := utf8.DecodeRuneInString(s.buf[s.offs:])
	s.ch = r
	s.offs += width
}

// peek returns the character after s.ch without consuming anything.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s.buf[s.offs:])
	return r
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return Pos{Offset: s.start, Line: s.line, Col: s.col}
}

// isLetter reports whether r is an ASCII letter. Underscore is not a letter.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isWhitespace(r rune) bool {
	return r >= 0 && unicode.IsSpace(r)
}
