package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/subc/compiler/ast"
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/ir"
)

type (
	// Generator lowers one function into ir.
	// Temporaries and labels are numbered by separate counters
	// so names are never reused within the function.
	Generator struct {
		code []ir.Instr

		nexttmp   int
		nextlabel int
	}
)

var unaryOps = map[ast.UnaryOp]ir.UnaryOp{
	ast.Negate:     ir.Negate,
	ast.Complement: ir.Complement,
	ast.Not:        ir.Not,
}

var binaryOps = map[ast.BinaryOp]ir.BinaryOp{
	ast.Add:    ir.Add,
	ast.Sub:    ir.Sub,
	ast.Mul:    ir.Mul,
	ast.Div:    ir.Div,
	ast.Rem:    ir.Rem,
	ast.BitAnd: ir.And,
	ast.BitOr:  ir.Or,
	ast.BitXor: ir.Xor,
	ast.Shl:    ir.Shl,
	ast.Shr:    ir.Shr,
	ast.Eq:     ir.Eq,
	ast.Ne:     ir.Ne,
	ast.Lt:     ir.Lt,
	ast.Le:     ir.Le,
	ast.Gt:     ir.Gt,
	ast.Ge:     ir.Ge,
}

func Generate(ctx context.Context, p *ast.Program) (_ *ir.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: generate ir")
	defer tr.Finish("err", &err)

	if p == nil || p.Func == nil {
		return nil, diag.Internal("front", "program without function")
	}

	var g Generator

	f, err := g.Func(ctx, p.Func)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", p.Func.Name)
	}

	if tr.If("dump_ir") {
		for i, x := range f.Body {
			tr.Printw("ir", "i", i, "typ", tlog.NextAsType, x, "val", x)
		}
	}

	return &ir.Program{Func: f}, nil
}

func (g *Generator) Func(ctx context.Context, f *ast.Func) (*ir.Func, error) {
	g.code = nil

	err := g.stmt(ctx, f.Body)
	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	return &ir.Func{
		Name: f.Name,
		Body: g.code,
	}, nil
}

func (g *Generator) stmt(ctx context.Context, s ast.Stmt) error {
	switch s := s.(type) {
	case ast.Return:
		v, err := g.expr(ctx, s.Value)
		if err != nil {
			return errors.Wrap(err, "return")
		}

		g.emit(ir.Return{Value: v})
	default:
		return diag.Internal("front", "unsupported statement: %T", s)
	}

	return nil
}

func (g *Generator) expr(ctx context.Context, e ast.Expr) (ir.Value, error) {
	switch e := e.(type) {
	case ast.Constant:
		return ir.Constant(e.Value), nil
	case ast.Unary:
		op, ok := unaryOps[e.Op]
		if !ok {
			return nil, diag.Internal("front", "unsupported unary operator: %v", e.Op)
		}

		src, err := g.expr(ctx, e.X)
		if err != nil {
			return nil, errors.Wrap(err, "%v", e.Op)
		}

		dst := g.newTemp()

		g.emit(ir.Unary{Op: op, Src: src, Dst: dst})

		return dst, nil
	case ast.Binary:
		switch e.Op {
		case ast.LogAnd:
			return g.logical(ctx, e, true)
		case ast.LogOr:
			return g.logical(ctx, e, false)
		}

		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, diag.Internal("front", "unsupported binary operator: %v", e.Op)
		}

		l, err := g.expr(ctx, e.Left)
		if err != nil {
			return nil, errors.Wrap(err, "%v left", e.Op)
		}

		r, err := g.expr(ctx, e.Right)
		if err != nil {
			return nil, errors.Wrap(err, "%v right", e.Op)
		}

		dst := g.newTemp()

		g.emit(ir.Binary{Op: op, Src1: l, Src2: r, Dst: dst})

		return dst, nil
	default:
		return nil, diag.Internal("front", "unsupported expression: %T", e)
	}
}

// logical lowers && (and == true) and || into conditional jumps.
// The right operand is evaluated only when the left one does not
// decide the result, which is always 0 or 1.
func (g *Generator) logical(ctx context.Context, e ast.Binary, and bool) (ir.Value, error) {
	exitName, endName, short, full := "or_true", "or_end", ir.Constant(1), ir.Constant(0)
	if and {
		exitName, endName, short, full = "and_false", "and_end", ir.Constant(0), ir.Constant(1)
	}

	exit := g.newLabel(exitName)
	end := g.newLabel(endName)

	branch := func(v ir.Value) ir.Instr {
		if and {
			return ir.JumpIfZero{Cond: v, Target: exit}
		}

		return ir.JumpIfNotZero{Cond: v, Target: exit}
	}

	l, err := g.expr(ctx, e.Left)
	if err != nil {
		return nil, errors.Wrap(err, "%v left", e.Op)
	}

	g.emit(branch(l))

	r, err := g.expr(ctx, e.Right)
	if err != nil {
		return nil, errors.Wrap(err, "%v right", e.Op)
	}

	g.emit(branch(r))

	dst := g.newTemp()

	g.emit(ir.Copy{Dst: dst, Src: full})
	g.emit(ir.Jump{Target: end})
	g.emit(ir.Label{Name: exit})
	g.emit(ir.Copy{Dst: dst, Src: short})
	g.emit(ir.Label{Name: end})

	return dst, nil
}

func (g *Generator) newTemp() ir.Var {
	n := g.nexttmp
	g.nexttmp++

	return ir.Var(fmt.Sprintf("tmp.%d", n))
}

func (g *Generator) newLabel(prefix string) string {
	n := g.nextlabel
	g.nextlabel++

	return fmt.Sprintf("%s.%d", prefix, n)
}

func (g *Generator) emit(x ir.Instr) {
	g.code = append(g.code, x)
}
