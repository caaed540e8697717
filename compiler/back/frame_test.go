package back

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/subc/compiler/asm"
)

func TestFrameSlot(t *testing.T) {
	f := NewFrame()

	assert.Equal(t, 0, f.Size())

	assert.Equal(t, -8, f.Slot("a"))
	assert.Equal(t, -16, f.Slot("b"))
	assert.Equal(t, -8, f.Slot("a"))
	assert.Equal(t, -24, f.Slot("c"))

	assert.Equal(t, -24, f.Size())
	assert.Equal(t, 3, f.Len())
}

func TestAllocate(t *testing.T) {
	body, size, err := Allocate([]asm.Instr{
		asm.Mov{Dst: pseudo("x"), Src: asm.Imm(1)},
		asm.Binary{Op: asm.Add, Dst: pseudo("y"), Src: pseudo("x")},
		asm.SetCC{Cond: asm.L, Dst: pseudo("z")},
		asm.Idiv{Src: pseudo("y")},
		asm.Mov{Dst: asm.RAX, Src: pseudo("z")},
		asm.Ret{},
	})
	require.NoError(t, err)

	assert.Equal(t, -24, size)

	diff(t, []asm.Instr{
		asm.Mov{Dst: slot(-8), Src: asm.Imm(1)},
		asm.Binary{Op: asm.Add, Dst: slot(-16), Src: slot(-8)},
		asm.SetCC{Cond: asm.L, Dst: slot(-24)},
		asm.Idiv{Src: slot(-16)},
		asm.Mov{Dst: asm.RAX, Src: slot(-24)},
		asm.Ret{},
	}, body)
}

func TestAllocateNoPseudo(t *testing.T) {
	in := []asm.Instr{
		asm.Mov{Dst: asm.RAX, Src: asm.Imm(2)},
		asm.Ret{},
	}

	body, size, err := Allocate(in)
	require.NoError(t, err)

	assert.Equal(t, 0, size)
	diff(t, in, body)
}

func TestRoundUp(t *testing.T) {
	for _, tc := range []struct{ x, exp int }{
		{0, 0},
		{8, 16},
		{16, 16},
		{24, 32},
		{40, 48},
	} {
		assert.Equal(t, tc.exp, roundUp(tc.x, 16), "%d", tc.x)
	}
}
