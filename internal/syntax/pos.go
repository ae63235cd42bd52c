package syntax

import "fmt"

// Pos represents a position in sei source text.
// The zero value is an invalid position.
type Pos struct {
	Offset int    // 0-based byte offset
	Line   uint32 // 1-based line number
	Col    uint32 // 1-based column number (in runes)
}

// String returns the position as "line:col", or "-" if it is invalid.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// IsValid reports whether the position is valid.
// A position is valid if line > 0.
func (p Pos) IsValid() bool {
	return p.Line > 0
}
