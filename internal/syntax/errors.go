package syntax

import "fmt"

// Error is a compile error at a source position.
type Error struct {
	Pos Pos
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

// Unwrap returns the underlying error so errors.Is sees sentinel errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns an *Error at pos. The format may use %w.
func Errorf(pos Pos, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Err: fmt.Errorf(format, args...)}
}
