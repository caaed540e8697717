package asm

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	Reg int
)

const (
	RAX Reg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15

	AL
	CL
	DL
	BL
	SPL
	BPL
	SIL
	DIL
	R8B
	R9B
	R10B
	R11B
	R12B
	R13B
	R14B
	R15B

	numRegs
)

var regNames = [numRegs]string{
	RAX: "rax", RCX: "rcx", RDX: "rdx", RBX: "rbx",
	RSP: "rsp", RBP: "rbp", RSI: "rsi", RDI: "rdi",
	R8: "r8", R9: "r9", R10: "r10", R11: "r11",
	R12: "r12", R13: "r13", R14: "r14", R15: "r15",

	AL: "al", CL: "cl", DL: "dl", BL: "bl",
	SPL: "spl", BPL: "bpl", SIL: "sil", DIL: "dil",
	R8B: "r8b", R9B: "r9b", R10B: "r10b", R11B: "r11b",
	R12B: "r12b", R13B: "r13b", R14B: "r14b", R15B: "r15b",
}

// byteAlias maps every register to its low byte.
// Byte registers map to themselves.
var byteAlias = [numRegs]Reg{
	RAX: AL, RCX: CL, RDX: DL, RBX: BL,
	RSP: SPL, RBP: BPL, RSI: SIL, RDI: DIL,
	R8: R8B, R9: R9B, R10: R10B, R11: R11B,
	R12: R12B, R13: R13B, R14: R14B, R15: R15B,

	AL: AL, CL: CL, DL: DL, BL: BL,
	SPL: SPL, BPL: BPL, SIL: SIL, DIL: DIL,
	R8B: R8B, R9B: R9B, R10B: R10B, R11B: R11B,
	R12B: R12B, R13B: R13B, R14B: R14B, R15B: R15B,
}

func (r Reg) Valid() bool { return r >= 0 && r < numRegs }

// Byte returns the low byte alias of r.
func (r Reg) Byte() Reg {
	if !r.Valid() {
		panic(r)
	}

	return byteAlias[r]
}

func (r Reg) IsByte() bool { return r >= AL && r < numRegs }

// Full returns the 64-bit register r is part of.
func (r Reg) Full() Reg {
	if r.IsByte() {
		return r - AL
	}

	return r
}

func (r Reg) String() string {
	if r.Valid() {
		return regNames[r]
	}

	return fmt.Sprintf("Reg(%d)", int(r))
}

func (r Reg) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, r.String())
}
