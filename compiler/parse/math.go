package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/ast"
)

type (
	// Binary parses left-associative binary expressions
	// whose operators bind at least as tight as Prec.
	Binary struct {
		Prec int
	}

	binOp struct {
		tok  Const
		op   ast.BinaryOp
		prec int
	}
)

// Longer tokens go first so "<<" is never read as "<".
var binOps = []binOp{
	{Const("||"), ast.LogOr, 1},
	{Const("&&"), ast.LogAnd, 2},
	{Const("=="), ast.Eq, 3},
	{Const("!="), ast.Ne, 3},
	{Const("<<"), ast.Shl, 8},
	{Const(">>"), ast.Shr, 8},
	{Const("<="), ast.Le, 4},
	{Const(">="), ast.Ge, 4},
	{Const("<"), ast.Lt, 4},
	{Const(">"), ast.Gt, 4},
	{Const("|"), ast.BitOr, 5},
	{Const("^"), ast.BitXor, 6},
	{Const("&"), ast.BitAnd, 7},
	{Const("+"), ast.Add, 9},
	{Const("-"), ast.Sub, 9},
	{Const("*"), ast.Mul, 10},
	{Const("/"), ast.Div, 10},
	{Const("%"), ast.Rem, 10},
}

// Precedence returns the binding power of op, higher binds tighter.
func Precedence(op ast.BinaryOp) int {
	for _, o := range binOps {
		if o.op == op {
			return o.prec
		}
	}

	return 0
}

func (p Binary) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = Unary{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	for {
		o, j, ok := nextBinOp(ctx, b, i)
		if !ok || o.prec < p.Prec {
			break
		}

		var r ast.Node

		r, i, err = Spaced(Binary{Prec: o.prec + 1}).Parse(ctx, b, j)
		if err != nil {
			if i == j {
				i = Blank.Skip(b, j)
			}

			return nil, i, errors.Wrap(err, "operand of %v", o.op)
		}

		x = ast.Binary{
			Base: ast.Base{
				Pos: st,
				End: i,
			},
			Op:    o.op,
			Left:  x.(ast.Expr),
			Right: r.(ast.Expr),
		}
	}

	return x, i, nil
}

func nextBinOp(ctx context.Context, b []byte, st int) (o binOp, i int, ok bool) {
	if isIncDec(b, Blank.Skip(b, st)) {
		return binOp{}, st, false
	}

	for _, o := range binOps {
		_, i, err := Spaced(o.tok).Parse(ctx, b, st)
		if err == nil {
			return o, i, true
		}
	}

	return binOp{}, st, false
}
