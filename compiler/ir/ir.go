/*
Package ir is a linear three-address code.

A function body is a flat list of instructions. Control flow is expressed
only by labels and jumps, no basic blocks are built.

	Return(Value)
	Unary(Op, Src, Dst)
	Binary(Op, Src1, Src2, Dst)
	Copy(Dst, Src)
	Jump(Label)
	JumpIfZero(Cond, Label)
	JumpIfNotZero(Cond, Label)
	Label(Name)
*/
package ir

import (
	"fmt"
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	Value interface {
		fmt.Stringer
		value()
	}

	Constant int32

	// Var is a temporary or a source variable.
	Var string

	Instr interface {
		instr()
	}

	Return struct {
		Value Value
	}

	Unary struct {
		Op  UnaryOp
		Src Value
		Dst Var
	}

	Binary struct {
		Op   BinaryOp
		Src1 Value
		Src2 Value
		Dst  Var
	}

	Copy struct {
		Dst Var
		Src Value
	}

	Jump struct {
		Target string
	}

	JumpIfZero struct {
		Cond   Value
		Target string
	}

	JumpIfNotZero struct {
		Cond   Value
		Target string
	}

	Label struct {
		Name string
	}

	Func struct {
		Name string
		Body []Instr
	}

	Program struct {
		Func *Func
	}

	UnaryOp int

	BinaryOp int
)

const (
	Negate UnaryOp = iota
	Complement
	Not
)

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	And
	Or
	Xor
	Shl
	Shr
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

var unaryNames = [...]string{
	Negate:     "neg",
	Complement: "not",
	Not:        "lnot",
}

var binaryNames = [...]string{
	Add: "add",
	Sub: "sub",
	Mul: "mul",
	Div: "div",
	Rem: "rem",
	And: "and",
	Or:  "or",
	Xor: "xor",
	Shl: "shl",
	Shr: "shr",
	Eq:  "eq",
	Ne:  "ne",
	Lt:  "lt",
	Le:  "le",
	Gt:  "gt",
	Ge:  "ge",
}

func (Constant) value() {}
func (Var) value()      {}

func (Return) instr()        {}
func (Unary) instr()         {}
func (Binary) instr()        {}
func (Copy) instr()          {}
func (Jump) instr()          {}
func (JumpIfZero) instr()    {}
func (JumpIfNotZero) instr() {}
func (Label) instr()         {}

func (c Constant) String() string { return strconv.Itoa(int(c)) }
func (v Var) String() string      { return string(v) }

func (c Constant) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendInt(b, int(c))
}

func (v Var) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, string(v))
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

// Relational reports whether op produces a 0/1 comparison result.
func (op BinaryOp) Relational() bool {
	return op >= Eq && op <= Ge
}
