package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/subc/compiler/diag"
)

func TestRegByte(t *testing.T) {
	for r := RAX; r <= R15; r++ {
		b := r.Byte()

		assert.True(t, b.IsByte(), "%v", r)
		assert.Equal(t, b, b.Byte(), "%v idempotent", r)
		assert.Equal(t, r, b.Full(), "%v", r)
	}

	assert.Equal(t, AL, RAX.Byte())
	assert.Equal(t, CL, RCX.Byte())
	assert.Equal(t, DIL, RDI.Byte())
	assert.Equal(t, R10B, R10.Byte())
	assert.Equal(t, "r11b", R11.Byte().String())

	assert.Panics(t, func() { Reg(-1).Byte() })
	assert.Panics(t, func() { numRegs.Byte() })
}

func TestOperandString(t *testing.T) {
	assert.Equal(t, "QWORD PTR [rbp-8]", Stack{Offset: -8, Width: Quad}.String())
	assert.Equal(t, "BYTE PTR [rbp-16]", Stack{Offset: -16, Width: Byte}.String())
	assert.Equal(t, "QWORD PTR [rbp+16]", Stack{Offset: 16, Width: Quad}.String())
	assert.Equal(t, "-3", Imm(-3).String())
	assert.Equal(t, "%tmp.0", Pseudo{Name: "tmp.0"}.String())
	assert.Equal(t, "rbp", RBP.String())
	assert.Equal(t, "ge", GE.String())
	assert.Equal(t, "sar", Sar.String())
	assert.True(t, Sal.Shift())
	assert.False(t, Imul.Shift())
}

func TestMapOperands(t *testing.T) {
	x, err := MapOperands(Binary{Op: Add, Dst: Pseudo{Name: "a"}, Src: Imm(1)}, func(op Operand) (Operand, error) {
		if _, ok := op.(Pseudo); ok {
			return RCX, nil
		}

		return op, nil
	})
	require.NoError(t, err)
	assert.Equal(t, Binary{Op: Add, Dst: RCX, Src: Imm(1)}, x)

	ops, err := Operands(Cmp{Left: Imm(0), Right: RAX})
	require.NoError(t, err)
	assert.Equal(t, []Operand{Imm(0), RAX}, ops)

	ops, err = Operands(Ret{})
	require.NoError(t, err)
	assert.Empty(t, ops)

	_, err = Operands(nil)
	assert.True(t, diag.IsInternal(err), "err: %v", err)
}

func TestRegs(t *testing.T) {
	regs, err := Regs([]Instr{
		Mov{Dst: RAX, Src: Imm(7)},
		Cdq{},
		Idiv{Src: R10},
		SetCC{Cond: E, Dst: CL},
		Ret{},
	})
	require.NoError(t, err)

	for _, r := range []Reg{RAX, RDX, R10, RCX, RSP} {
		assert.True(t, regs.IsSet(r), "%v", r)
	}

	assert.False(t, regs.IsSet(CL), "byte regs are reported as full")
	assert.Equal(t, 5, regs.Size())
}
