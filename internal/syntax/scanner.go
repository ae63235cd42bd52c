package syntax

// Lex splits src into Word, Number and Single tokens, dropping whitespace.
//
// A Word starts with a letter and continues with letters and digits. A
// Number is a run of digits with an optional fraction; a dot that is not
// followed by a digit is not part of the number and becomes its own Single
// token. Every other character is a one-character Single token, so Lex
// never fails: deciding whether a token is acceptable is the parser's job.
func Lex(src string) []Token {
	s := newSource(src)
	toks := make([]Token, 0, len(src)/2+2)

	for s.ch >= 0 {
		if isWhitespace(s.ch) {
			s.nextch()
			continue
		}

		pos := s.pos()
		kind := Single
		switch {
		case isLetter(s.ch):
			kind = Word
			s.scanWord()
		case isDigit(s.ch):
			kind = Number
			s.scanNumber()
		default:
			s.nextch()
		}
		toks = append(toks, Token{Kind: kind, Text: src[pos.Offset:s.start], Pos: pos})
	}
	return toks
}

func (s *source) scanWord() {
	s.nextch()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}
}

func (s *source) scanNumber() {
	s.scanDigits()
	if s.ch == '.' && isDigit(s.peek()) {
		s.nextch()
		s.scanDigits()
	}
}

func (s *source) scanDigits() {
	for isDigit(s.ch) {
		s.nextch()
	}
}
