package back

import (
	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/asm"
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/ir"
)

var binaryOps = map[ir.BinaryOp]asm.BinaryOp{
	ir.Add: asm.Add,
	ir.Sub: asm.Sub,
	ir.Mul: asm.Imul,
	ir.And: asm.And,
	ir.Or:  asm.Or,
	ir.Xor: asm.Xor,
	ir.Shl: asm.Sal,
	ir.Shr: asm.Sar,
}

var conds = map[ir.BinaryOp]asm.Cond{
	ir.Eq: asm.E,
	ir.Ne: asm.NE,
	ir.Lt: asm.L,
	ir.Le: asm.LE,
	ir.Gt: asm.G,
	ir.Ge: asm.GE,
}

// Select translates fn into abstract instructions over pseudo registers.
func Select(fn *ir.Func) (code []asm.Instr, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}

		ie, ok := p.(*diag.InternalError)
		if !ok {
			panic(p)
		}

		code, err = nil, ie
	}()

	for i, x := range fn.Body {
		code, err = selectInstr(code, x)
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}
	}

	return code, nil
}

func selectInstr(code []asm.Instr, x ir.Instr) ([]asm.Instr, error) {
	switch x := x.(type) {
	case ir.Return:
		return append(code,
			asm.Mov{Dst: asm.RAX, Src: operand(x.Value)},
			asm.Ret{},
		), nil
	case ir.Unary:
		return selectUnary(code, x)
	case ir.Binary:
		return selectBinary(code, x)
	case ir.Copy:
		return append(code, asm.Mov{Dst: operand(x.Dst), Src: operand(x.Src)}), nil
	case ir.Jump:
		return append(code, asm.Jmp{Label: x.Target}), nil
	case ir.JumpIfZero:
		return append(code,
			asm.Cmp{Left: operand(x.Cond), Right: asm.Imm(0)},
			asm.JmpCC{Cond: asm.E, Label: x.Target},
		), nil
	case ir.JumpIfNotZero:
		return append(code,
			asm.Cmp{Left: operand(x.Cond), Right: asm.Imm(0)},
			asm.JmpCC{Cond: asm.NE, Label: x.Target},
		), nil
	case ir.Label:
		return append(code, asm.Label{Name: x.Name}), nil
	default:
		return nil, diag.Internal("select", "unsupported instruction: %T", x)
	}
}

func selectUnary(code []asm.Instr, x ir.Unary) ([]asm.Instr, error) {
	src := operand(x.Src)
	dst := operand(x.Dst)

	switch x.Op {
	case ir.Negate, ir.Complement:
		op := asm.Neg
		if x.Op == ir.Complement {
			op = asm.Not
		}

		return append(code,
			asm.Mov{Dst: dst, Src: src},
			asm.Unary{Op: op, Dst: dst},
		), nil
	case ir.Not:
		if c, ok := src.(asm.Imm); ok {
			var v asm.Imm
			if c == 0 {
				v = 1
			}

			return append(code, asm.Mov{Dst: dst, Src: v}), nil
		}

		return append(code,
			asm.Cmp{Left: src, Right: asm.Imm(0)},
			asm.Mov{Dst: dst, Src: asm.Imm(0)},
			asm.SetCC{Cond: asm.E, Dst: dst},
		), nil
	default:
		return nil, diag.Internal("select", "unsupported unary operator: %v", x.Op)
	}
}

func selectBinary(code []asm.Instr, x ir.Binary) ([]asm.Instr, error) {
	src1 := operand(x.Src1)
	src2 := operand(x.Src2)
	dst := operand(x.Dst)

	switch x.Op {
	case ir.Div, ir.Rem:
		res := asm.RAX
		if x.Op == ir.Rem {
			res = asm.RDX
		}

		return append(code,
			asm.Mov{Dst: asm.RAX, Src: src1},
			asm.Cdq{},
			asm.Idiv{Src: src2},
			asm.Mov{Dst: dst, Src: res},
		), nil
	case ir.Shl, ir.Shr:
		code = append(code, asm.Mov{Dst: dst, Src: src1})

		if c, ok := src2.(asm.Imm); ok {
			// the cpu masks the count the same way
			return append(code, asm.Binary{Op: binaryOps[x.Op], Dst: dst, Src: c & 63}), nil
		}

		return append(code,
			asm.Mov{Dst: asm.RCX, Src: src2},
			asm.Binary{Op: binaryOps[x.Op], Dst: dst, Src: asm.CL},
		), nil
	}

	if cc, ok := conds[x.Op]; ok {
		return append(code,
			asm.Cmp{Left: src1, Right: src2},
			asm.Mov{Dst: dst, Src: asm.Imm(0)},
			asm.SetCC{Cond: cc, Dst: dst},
		), nil
	}

	op, ok := binaryOps[x.Op]
	if !ok {
		return nil, diag.Internal("select", "unsupported binary operator: %v", x.Op)
	}

	return append(code,
		asm.Mov{Dst: dst, Src: src1},
		asm.Binary{Op: op, Dst: dst, Src: src2},
	), nil
}

func operand(v ir.Value) asm.Operand {
	switch v := v.(type) {
	case ir.Constant:
		return asm.Imm(v)
	case ir.Var:
		return asm.Pseudo{Name: string(v)}
	default:
		panic(diag.Internal("select", "unsupported value: %T", v))
	}
}
