package codegen

import (
	"fmt"
	"io"
	"strings"
)

// emitter wraps an io.Writer with helpers for emitting assembly text.
type emitter struct {
	w     io.Writer
	err   error // first write error
	label int   // counter for generated labels (if_false0, while_start1, ...)
}

// emit writes a formatted line to the output (no indentation).
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitLabel writes a label definition.
func (e *emitter) emitLabel(name string) {
	e.emit("%s:", name)
}

// emitInst writes an indented instruction line.
func (e *emitter) emitInst(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "  "+format+"\n", args...)
}

// emitAsm writes a fixed fragment, one instruction per line. Blank lines
// are skipped.
func (e *emitter) emitAsm(text string) {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			e.emitInst("%s", line)
		}
	}
}

// nextLabel returns a fresh label number. Numbers are never reused within
// one generator, so labels built from them are unique.
func (e *emitter) nextLabel() int {
	n := e.label
	e.label++
	return n
}
