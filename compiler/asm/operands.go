package asm

import (
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/set"
)

// MapOperands returns x with every operand replaced by f(operand).
func MapOperands(x Instr, f func(Operand) (Operand, error)) (_ Instr, err error) {
	m := func(ops ...*Operand) error {
		for _, op := range ops {
			*op, err = f(*op)
			if err != nil {
				return err
			}
		}

		return nil
	}

	switch x := x.(type) {
	case Mov:
		err = m(&x.Dst, &x.Src)
		return x, err
	case Unary:
		err = m(&x.Dst)
		return x, err
	case Binary:
		err = m(&x.Dst, &x.Src)
		return x, err
	case Cmp:
		err = m(&x.Left, &x.Right)
		return x, err
	case Idiv:
		err = m(&x.Src)
		return x, err
	case SetCC:
		err = m(&x.Dst)
		return x, err
	case Push:
		err = m(&x.Src)
		return x, err
	case Pop:
		err = m(&x.Dst)
		return x, err
	case Cdq, Jmp, JmpCC, Label, AllocateStack, Ret:
		return x, nil
	default:
		return nil, diag.Internal("asm", "unsupported instruction: %T", x)
	}
}

// Operands lists operands of x in MapOperands order.
func Operands(x Instr) (ops []Operand, err error) {
	_, err = MapOperands(x, func(op Operand) (Operand, error) {
		ops = append(ops, op)
		return op, nil
	})

	return ops, err
}

// Regs collects the full-width registers referenced by body.
func Regs(body []Instr) (set.Bits[Reg], error) {
	regs := set.MakeBits[Reg]()

	for _, x := range body {
		ops, err := Operands(x)
		if err != nil {
			return regs, err
		}

		for _, op := range ops {
			if r, ok := op.(Reg); ok {
				regs.Set(r.Full())
			}
		}

		switch x.(type) {
		case Idiv, Cdq:
			regs.SetAll(RAX, RDX)
		case AllocateStack, Ret:
			regs.Set(RSP)
		}
	}

	return regs, nil
}
