package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/asm"
	"github.com/slowlang/subc/compiler/ast"
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/ir"
	"github.com/slowlang/subc/compiler/parse"
	"github.com/slowlang/subc/compiler/target"
)

type (
	Printer struct {
		Target target.Target
	}
)

// Format appends x to b using the host target.
// x is one of *ast.Program, *ir.Program, *asm.Program.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	return Printer{Target: target.Default()}.Format(ctx, b, x)
}

func New(t target.Target) Printer {
	return Printer{Target: t}
}

func (p Printer) Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *asm.Program:
		return p.formatAsm(ctx, b, x)
	case *ir.Program:
		return formatIR(ctx, b, x)
	case *ast.Program:
		return formatAST(ctx, b, x)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func (p Printer) formatAsm(ctx context.Context, b []byte, x *asm.Program) (_ []byte, err error) {
	if x == nil || x.Func == nil {
		return nil, diag.Internal("format", "program without function")
	}

	f := x.Func
	sym := p.Target.Symbol(f.Name)

	b = app(b, 1, ".intel_syntax noprefix\n")
	b = app(b, 1, ".globl %s\n", sym)
	b = app(b, 0, "%s:\n", sym)

	for i, in := range f.Body {
		b, err = p.formatInstr(b, in)
		if err != nil {
			return nil, errors.Wrap(err, "func %v: instr %d", f.Name, i)
		}
	}

	for _, l := range p.Target.Footer {
		b = app(b, 1, "%s\n", l)
	}

	return b, nil
}

func (p Printer) formatInstr(b []byte, x asm.Instr) ([]byte, error) {
	switch x := x.(type) {
	case asm.Mov:
		b = app(b, 1, "mov %v, %v\n", x.Dst, x.Src)
	case asm.Unary:
		b = app(b, 1, "%v %v\n", x.Op, x.Dst)
	case asm.Binary:
		b = app(b, 1, "%v %v, %v\n", x.Op, x.Dst, x.Src)
	case asm.Cmp:
		b = app(b, 1, "cmp %v, %v\n", x.Left, x.Right)
	case asm.Idiv:
		b = app(b, 1, "idiv %v\n", x.Src)
	case asm.Cdq:
		b = app(b, 1, "cqo\n")
	case asm.SetCC:
		b = app(b, 1, "set%v %v\n", x.Cond, x.Dst)
	case asm.Jmp:
		b = app(b, 1, "jmp %s\n", p.Target.Local(x.Label))
	case asm.JmpCC:
		b = app(b, 1, "j%v %s\n", x.Cond, p.Target.Local(x.Label))
	case asm.Label:
		b = app(b, 0, "%s:\n", p.Target.Local(x.Name))
	case asm.Push:
		b = app(b, 1, "push %v\n", x.Src)
	case asm.Pop:
		b = app(b, 1, "pop %v\n", x.Dst)
	case asm.AllocateStack:
		b = app(b, 1, "sub rsp, %d\n", x.Size)
	case asm.Ret:
		b = app(b, 1, "ret\n")
	default:
		return nil, diag.Internal("format", "unsupported instruction: %T", x)
	}

	return b, nil
}

func formatIR(ctx context.Context, b []byte, x *ir.Program) ([]byte, error) {
	if x == nil || x.Func == nil {
		return nil, diag.Internal("format", "program without function")
	}

	b = app(b, 0, "func %s {\n", x.Func.Name)

	for i, in := range x.Func.Body {
		switch in := in.(type) {
		case ir.Return:
			b = app(b, 1, "return %v\n", in.Value)
		case ir.Unary:
			b = app(b, 1, "%v = %v %v\n", in.Dst, in.Op, in.Src)
		case ir.Binary:
			b = app(b, 1, "%v = %v %v, %v\n", in.Dst, in.Op, in.Src1, in.Src2)
		case ir.Copy:
			b = app(b, 1, "%v = %v\n", in.Dst, in.Src)
		case ir.Jump:
			b = app(b, 1, "jump %s\n", in.Target)
		case ir.JumpIfZero:
			b = app(b, 1, "jz %v, %s\n", in.Cond, in.Target)
		case ir.JumpIfNotZero:
			b = app(b, 1, "jnz %v, %s\n", in.Cond, in.Target)
		case ir.Label:
			b = app(b, 0, "%s:\n", in.Name)
		default:
			return nil, diag.Internal("format", "instr %d: unsupported instruction: %T", i, in)
		}
	}

	b = app(b, 0, "}\n")

	return b, nil
}

func formatAST(ctx context.Context, b []byte, x *ast.Program) (_ []byte, err error) {
	if x == nil || x.Func == nil {
		return nil, diag.Internal("format", "program without function")
	}

	b = app(b, 0, "int %s(void) {\n", x.Func.Name)

	switch s := x.Func.Body.(type) {
	case ast.Return:
		b = app(b, 1, "return ")

		b, err = formatExpr(b, s.Value, 0)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}

		b = append(b, ";\n"...)
	default:
		return nil, errors.New("unsupported stmt: %T", s)
	}

	b = app(b, 0, "}\n")

	return b, nil
}

// formatExpr prints x adding parentheses where the parent binds tighter than prec.
func formatExpr(b []byte, x ast.Expr, prec int) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Constant:
		if x.Value < 0 && prec > 0 {
			return app(b, 0, "(%d)", x.Value), nil
		}

		b = app(b, 0, "%d", x.Value)
	case ast.Unary:
		b = append(b, x.Op.String()...)

		switch x.X.(type) {
		case ast.Unary, ast.Binary:
			b = append(b, '(')

			b, err = formatExpr(b, x.X, 0)
			if err != nil {
				return nil, errors.Wrap(err, "%v", x.Op)
			}

			b = append(b, ')')
		default:
			b, err = formatExpr(b, x.X, 1)
			if err != nil {
				return nil, errors.Wrap(err, "%v", x.Op)
			}
		}
	case ast.Binary:
		p := parse.Precedence(x.Op)

		if p < prec {
			b = append(b, '(')
		}

		b, err = formatExpr(b, x.Left, p)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = app(b, 0, " %v ", x.Op)

		// operators are left-associative
		b, err = formatExpr(b, x.Right, p+1)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}

		if p < prec {
			b = append(b, ')')
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "                                "
	b = append(b, tabs[:4*d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
