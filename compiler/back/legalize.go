package back

import (
	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/asm"
	"github.com/slowlang/subc/compiler/diag"
)

const (
	// scratch registers are reserved for the legalizer
	scratch    = asm.R10
	mulScratch = asm.R11

	stackAlign = 16
)

// Legalize rewrites body into instructions the hardware accepts
// and wraps it into the frame prologue and epilogues.
// frameSize is as returned by Allocate.
func Legalize(body []asm.Instr, frameSize int) (res []asm.Instr, err error) {
	if frameSize > 0 {
		return nil, diag.Internal("legalize", "positive frame size: %d", frameSize)
	}

	for i, x := range body {
		err = checkPseudo(x)
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}
	}

	regs, err := asm.Regs(body)
	if err != nil {
		return nil, errors.Wrap(err, "regs")
	}

	for _, r := range []asm.Reg{scratch, mulScratch} {
		if regs.IsSet(r) {
			return nil, diag.Internal("legalize", "scratch register in use: %v", r)
		}
	}

	reserve := roundUp(-frameSize, stackAlign)

	res = append(res,
		asm.Push{Src: asm.RBP},
		asm.Mov{Dst: asm.RBP, Src: asm.RSP},
	)

	if reserve != 0 {
		res = append(res, asm.AllocateStack{Size: reserve})
	}

	for i, x := range body {
		res, err = legalizeInstr(res, x, reserve)
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}
	}

	return res, nil
}

func legalizeInstr(res []asm.Instr, x asm.Instr, reserve int) ([]asm.Instr, error) {
	switch x := x.(type) {
	case asm.Mov:
		if asm.IsImm(x.Dst) {
			return nil, diag.Internal("legalize", "mov to immediate: %v", x.Dst)
		}

		if asm.IsMem(x.Dst) && asm.IsMem(x.Src) {
			return append(res,
				asm.Mov{Dst: scratch, Src: x.Src},
				asm.Mov{Dst: x.Dst, Src: scratch},
			), nil
		}

		return append(res, x), nil
	case asm.Unary:
		if asm.IsImm(x.Dst) {
			return nil, diag.Internal("legalize", "%v of immediate: %v", x.Op, x.Dst)
		}

		return append(res, x), nil
	case asm.Binary:
		return legalizeBinary(res, x)
	case asm.Cmp:
		if asm.IsImm(x.Left) {
			res = append(res, asm.Mov{Dst: mulScratch, Src: x.Left})
			x.Left = mulScratch
		}

		if asm.IsMem(x.Left) && asm.IsMem(x.Right) {
			res = append(res, asm.Mov{Dst: scratch, Src: x.Right})
			x.Right = scratch
		}

		return append(res, x), nil
	case asm.Idiv:
		if asm.IsImm(x.Src) {
			return append(res,
				asm.Mov{Dst: scratch, Src: x.Src},
				asm.Idiv{Src: scratch},
			), nil
		}

		return append(res, x), nil
	case asm.SetCC:
		switch dst := x.Dst.(type) {
		case asm.Reg:
			x.Dst = dst.Byte()
		case asm.Stack:
			dst.Width = asm.Byte
			x.Dst = dst
		default:
			return nil, diag.Internal("legalize", "set%v to %T", x.Cond, x.Dst)
		}

		return append(res, x), nil
	case asm.Ret:
		if reserve != 0 {
			res = append(res, asm.Mov{Dst: asm.RSP, Src: asm.RBP})
		}

		return append(res,
			asm.Pop{Dst: asm.RBP},
			x,
		), nil
	case asm.Cdq, asm.Jmp, asm.JmpCC, asm.Label, asm.Push, asm.Pop:
		return append(res, x), nil
	case asm.AllocateStack:
		return nil, diag.Internal("legalize", "stack is allocated by the prologue")
	default:
		return nil, diag.Internal("legalize", "unsupported instruction: %T", x)
	}
}

func legalizeBinary(res []asm.Instr, x asm.Binary) ([]asm.Instr, error) {
	if asm.IsImm(x.Dst) {
		return nil, diag.Internal("legalize", "%v to immediate: %v", x.Op, x.Dst)
	}

	switch {
	case x.Op.Shift():
		if !asm.IsImm(x.Src) && x.Src != asm.CL {
			return nil, diag.Internal("legalize", "%v count in %v", x.Op, x.Src)
		}

		return append(res, x), nil
	case x.Op == asm.Imul && asm.IsMem(x.Dst):
		return append(res,
			asm.Mov{Dst: mulScratch, Src: x.Dst},
			asm.Binary{Op: x.Op, Dst: mulScratch, Src: x.Src},
			asm.Mov{Dst: x.Dst, Src: mulScratch},
		), nil
	case asm.IsMem(x.Dst) && asm.IsMem(x.Src):
		return append(res,
			asm.Mov{Dst: scratch, Src: x.Src},
			asm.Binary{Op: x.Op, Dst: x.Dst, Src: scratch},
		), nil
	}

	return append(res, x), nil
}

func checkPseudo(x asm.Instr) error {
	ops, err := asm.Operands(x)
	if err != nil {
		return err
	}

	for _, op := range ops {
		if op, ok := op.(asm.Pseudo); ok {
			return diag.Internal("legalize", "pseudo register left: %v", op)
		}
	}

	return nil
}

func roundUp(x, align int) int {
	return (x + align - 1) / align * align
}
