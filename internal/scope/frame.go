// Package scope tracks variable storage slots across nested blocks.
//
// A Frame is a stack of layers, one per enclosing block, plus a slot
// counter shared by every frame pushed from the same root. Slot numbers
// therefore stay unique across a whole compilation unit, while name lookup
// still follows block nesting.
package scope

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// End is the offset after every source offset. Slot and Lookup resolve
// names as seen from End.
const End = math.MaxInt

// binding is a name's slot and the source offset of its first occurrence in
// the layer.
type binding struct {
	slot int
	pos  int
}

// Layer maps the names introduced by one block to their slots.
type Layer struct {
	names map[string]binding
}

func newLayer() *Layer {
	return &Layer{names: make(map[string]binding)}
}

// Lookup returns the slot bound to name in this layer only.
func (l *Layer) Lookup(name string) (int, bool) {
	b, ok := l.names[name]
	return b.slot, ok
}

// Len returns the number of names bound in the layer.
func (l *Layer) Len() int {
	return len(l.names)
}

// Names returns the bound names, sorted.
func (l *Layer) Names() []string {
	names := make([]string, 0, len(l.names))
	for name := range l.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Layer) clone() *Layer {
	c := newLayer()
	for name, b := range l.names {
		c.names[name] = b
	}
	return c
}

// Counter hands out slot numbers. It is shared by all frames of one parse
// and must not be shared between parses.
type Counter struct {
	n int
}

// Next allocates the next slot.
func (c *Counter) Next() int {
	slot := c.n
	c.n++
	return slot
}

// Len returns the number of slots allocated so far.
func (c *Counter) Len() int {
	return c.n
}

// Frame is the naming context of one block.
//
// outer holds the layers of the enclosing blocks, outermost first. A frame
// never writes to them; each of them is written only by the frame that has it
// as its top layer.
type Frame struct {
	outer []*Layer
	top   *Layer
	slots *Counter
	funcs map[string]bool
}

// NewFrame returns an empty root frame with a fresh slot counter.
func NewFrame() *Frame {
	return &Frame{
		top:   newLayer(),
		slots: &Counter{},
		funcs: make(map[string]bool),
	}
}

// Slot returns the slot bound to name as seen from the end of the source,
// allocating one in the top layer if no layer binds it.
func (f *Frame) Slot(name string) int {
	return f.SlotAt(name, End)
}

// SlotAt returns the slot name refers to at source offset at. If no binding
// is visible there, the top layer binds name, allocating the next free slot
// the first time.
func (f *Frame) SlotAt(name string, at int) int {
	if slot, ok := f.LookupAt(name, at); ok {
		return slot
	}
	b, ok := f.top.names[name]
	if !ok {
		b = binding{slot: f.slots.Next(), pos: at}
	}
	b.pos = min(b.pos, at)
	f.top.names[name] = b
	return b.slot
}

// Lookup is LookupAt from the end of the source.
func (f *Frame) Lookup(name string) (int, bool) {
	return f.LookupAt(name, End)
}

// LookupAt returns the slot name refers to at source offset at, without
// allocating.
//
// The parser reduces nested blocks before the statements around them, so an
// enclosing layer may gain a name after an inner layer bound it. A binding
// counts only if no enclosing layer bound the same name at an earlier
// offset; of the bindings that count and occur at or before at, the
// innermost wins. A name bound in a block is thus shared with an enclosing
// binding that precedes the block and invisible to code after the block.
func (f *Frame) LookupAt(name string, at int) (int, bool) {
	var (
		slot     int
		found    bool
		seen     bool
		earliest int
	)
	visit := func(l *Layer) {
		b, ok := l.names[name]
		if !ok || seen && b.pos >= earliest {
			return
		}
		seen, earliest = true, b.pos
		if b.pos <= at {
			slot, found = b.slot, true
		}
	}
	for _, l := range f.outer {
		visit(l)
	}
	visit(f.top)
	return slot, found
}

// Push returns a frame for a nested block: the current top layer joins the
// enclosing layers and a new empty top layer is opened. The slot counter is
// shared with f.
func (f *Frame) Push() *Frame {
	outer := make([]*Layer, len(f.outer), len(f.outer)+1)
	copy(outer, f.outer)
	return &Frame{
		outer: append(outer, f.top),
		top:   newLayer(),
		slots: f.slots,
		funcs: f.funcs,
	}
}

// Fork returns a copy of f with its own top layer. Names bound in the copy
// are invisible to f; the slot counter is still shared.
func (f *Frame) Fork() *Frame {
	outer := make([]*Layer, len(f.outer))
	copy(outer, f.outer)
	return &Frame{
		outer: outer,
		top:   f.top.clone(),
		slots: f.slots,
		funcs: f.funcs,
	}
}

// Top returns the innermost layer.
func (f *Frame) Top() *Layer {
	return f.top
}

// Depth returns the number of layers, including the top layer.
func (f *Frame) Depth() int {
	return len(f.outer) + 1
}

// Size returns the number of slots allocated on the shared counter, which is
// the number of words a frame built from it must reserve.
func (f *Frame) Size() int {
	return f.slots.Len()
}

// DeclareFunc records name as a declared function of the compilation unit.
func (f *Frame) DeclareFunc(name string) {
	f.funcs[name] = true
}

// IsFunc reports whether name was declared as a function.
func (f *Frame) IsFunc(name string) bool {
	return f.funcs[name]
}

// String returns a debugging representation, outermost layer first.
func (f *Frame) String() string {
	var buf strings.Builder
	layers := append(append([]*Layer(nil), f.outer...), f.top)
	for i, l := range layers {
		fmt.Fprintf(&buf, "%slayer %d {\n", strings.Repeat("  ", i), i)
		for _, name := range l.Names() {
			fmt.Fprintf(&buf, "%s  %s: %d\n", strings.Repeat("  ", i), name, l.names[name].slot)
		}
	}
	for i := len(layers) - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, "%s}\n", strings.Repeat("  ", i))
	}
	fmt.Fprintf(&buf, "slots: %d\n", f.Size())
	return buf.String()
}
