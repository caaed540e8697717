package back

import (
	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/asm"
)

const slotSize = 8

type (
	// Frame assigns stack slots to pseudo registers of one function.
	// Each name gets its own 8-byte slot below the frame pointer,
	// in first-seen order, and keeps it until the frame is dropped.
	Frame struct {
		slots  map[string]int
		offset int
	}
)

func NewFrame() *Frame {
	return &Frame{
		slots: make(map[string]int),
	}
}

// Slot returns the offset of name, allocating it on first use.
func (f *Frame) Slot(name string) int {
	if off, ok := f.slots[name]; ok {
		return off
	}

	f.offset -= slotSize
	f.slots[name] = f.offset

	return f.offset
}

// Size is the offset of the lowest slot, zero or negative.
func (f *Frame) Size() int { return f.offset }

func (f *Frame) Len() int { return len(f.slots) }

// Allocate replaces pseudo registers in body with frame slots.
// It returns the new body and the frame size as Frame.Size does.
func Allocate(body []asm.Instr) (_ []asm.Instr, size int, err error) {
	f := NewFrame()

	res := make([]asm.Instr, len(body))

	for i, x := range body {
		res[i], err = asm.MapOperands(x, func(op asm.Operand) (asm.Operand, error) {
			p, ok := op.(asm.Pseudo)
			if !ok {
				return op, nil
			}

			return asm.Stack{Offset: f.Slot(p.Name), Width: asm.Quad}, nil
		})
		if err != nil {
			return nil, 0, errors.Wrap(err, "instr %d", i)
		}
	}

	return res, f.Size(), nil
}
