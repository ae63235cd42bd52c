package codegen

import "fmt"

// Runtime model.
//
// Values are passed between fragments on an operand stack of 4-byte words
// that grows upward: $sp points at the first free word. $t6 is the frame
// pointer; slot n of the current frame is the word at 4*n($t6).
//
// A call pushes its arguments, then jumps with jal. The callee saves $ra
// and the caller's $t6 above the arguments, so argument k of P sits at
// -(8+4*(P-k))($t6) in the callee. On return the arguments are gone and the
// result has been pushed in their place.
const (
	WordSize     = 4
	FramePointer = "$t6"

	// Push pushes $t0.
	Push = "sw $t0, 0($sp)\naddi $sp, $sp, 4"
	// Pop pops into $t0.
	Pop = "lw $t0, -4($sp)\naddi $sp, $sp, -4"
	// PopTwo pops the right operand into $t0 and the left one into $t1.
	PopTwo = "lw $t0, -4($sp)\nlw $t1, -8($sp)\naddi $sp, $sp, -8"
)

func slotAddr(slot int) string {
	return fmt.Sprintf("%d(%s)", WordSize*slot, FramePointer)
}

func (e *emitter) push()   { e.emitAsm(Push) }
func (e *emitter) pop()    { e.emitAsm(Pop) }
func (e *emitter) popTwo() { e.emitAsm(PopTwo) }

// drop discards n words from the operand stack.
func (e *emitter) drop(n int) {
	if n > 0 {
		e.emitInst("addi $sp, $sp, %d", -WordSize*n)
	}
}

func (e *emitter) load(slot int) {
	e.emitInst("lw $t0, %s", slotAddr(slot))
}

func (e *emitter) store(slot int) {
	e.emitInst("sw $t0, %s", slotAddr(slot))
}
