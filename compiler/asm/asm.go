// Package asm is an abstract x86-64 instruction set.
//
// Instructions are in two-address form: the destination is also
// the first source. Operands are immediates, physical registers,
// symbolic pseudo registers or frame slots.
package asm

import (
	"fmt"
	"strconv"

	"github.com/slowlang/subc/compiler/set"
)

type (
	Operand interface {
		fmt.Stringer
		operand()
	}

	Imm int32

	Pseudo struct {
		Name string
	}

	// Stack is a frame slot addressed relative to RBP.
	Stack struct {
		Offset int
		Width  Width
	}

	Width int

	Cond int

	UnaryOp int

	BinaryOp int

	Instr interface {
		instr()
	}

	Mov struct {
		Dst Operand
		Src Operand
	}

	Unary struct {
		Op  UnaryOp
		Dst Operand
	}

	Binary struct {
		Op  BinaryOp
		Dst Operand
		Src Operand
	}

	// Cmp sets flags as for Left - Right.
	Cmp struct {
		Left  Operand
		Right Operand
	}

	Idiv struct {
		Src Operand
	}

	// Cdq sign-extends RAX into RDX.
	Cdq struct{}

	SetCC struct {
		Cond Cond
		Dst  Operand
	}

	Jmp struct {
		Label string
	}

	JmpCC struct {
		Cond  Cond
		Label string
	}

	Label struct {
		Name string
	}

	Push struct {
		Src Operand
	}

	Pop struct {
		Dst Operand
	}

	AllocateStack struct {
		Size int
	}

	Ret struct{}

	Func struct {
		Name string
		Body []Instr

		// FrameSize is a non-positive offset of the lowest slot.
		FrameSize int

		// Regs are physical registers referenced by Body.
		Regs set.Bits[Reg]
	}

	Program struct {
		Func *Func
	}
)

const (
	Quad Width = 8
	Byte Width = 1
)

const (
	E Cond = iota
	NE
	L
	LE
	G
	GE
)

const (
	Neg UnaryOp = iota
	Not
)

const (
	Add BinaryOp = iota
	Sub
	Imul
	And
	Or
	Xor
	Sal
	Sar
)

var condNames = [...]string{
	E:  "e",
	NE: "ne",
	L:  "l",
	LE: "le",
	G:  "g",
	GE: "ge",
}

var unaryNames = [...]string{
	Neg: "neg",
	Not: "not",
}

var binaryNames = [...]string{
	Add:  "add",
	Sub:  "sub",
	Imul: "imul",
	And:  "and",
	Or:   "or",
	Xor:  "xor",
	Sal:  "sal",
	Sar:  "sar",
}

func (Imm) operand()    {}
func (Reg) operand()    {}
func (Pseudo) operand() {}
func (Stack) operand()  {}

func (Mov) instr()           {}
func (Unary) instr()         {}
func (Binary) instr()        {}
func (Cmp) instr()           {}
func (Idiv) instr()          {}
func (Cdq) instr()           {}
func (SetCC) instr()         {}
func (Jmp) instr()           {}
func (JmpCC) instr()         {}
func (Label) instr()         {}
func (Push) instr()          {}
func (Pop) instr()           {}
func (AllocateStack) instr() {}
func (Ret) instr()           {}

func (x Imm) String() string { return strconv.Itoa(int(x)) }

func (x Pseudo) String() string { return "%" + x.Name }

func (x Stack) String() string {
	ptr := "QWORD PTR"
	if x.Width == Byte {
		ptr = "BYTE PTR"
	}

	if x.Offset < 0 {
		return fmt.Sprintf("%s [rbp%d]", ptr, x.Offset)
	}

	return fmt.Sprintf("%s [rbp+%d]", ptr, x.Offset)
}

func (c Cond) String() string {
	if c >= 0 && int(c) < len(condNames) {
		return condNames[c]
	}

	return fmt.Sprintf("Cond(%d)", int(c))
}

func (op UnaryOp) String() string {
	if op >= 0 && int(op) < len(unaryNames) {
		return unaryNames[op]
	}

	return fmt.Sprintf("UnaryOp(%d)", int(op))
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryNames) {
		return binaryNames[op]
	}

	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// Shift reports whether the count operand must be an immediate or CL.
func (op BinaryOp) Shift() bool {
	return op == Sal || op == Sar
}

func IsMem(x Operand) bool {
	_, ok := x.(Stack)
	return ok
}

func IsImm(x Operand) bool {
	_, ok := x.(Imm)
	return ok
}
