package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/ast"
)

type (
	Expr struct{}

	Unary struct{}

	Paren struct{}
)

var unaryOps = []struct {
	tok Const
	op  ast.UnaryOp
}{
	{Const("-"), ast.Negate},
	{Const("~"), ast.Complement},
	{Const("!"), ast.Not},
}

func (p Expr) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return Binary{Prec: 0}.Parse(ctx, b, st)
}

func (Expr) String() string { return "expression" }

func (p Unary) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if isIncDec(b, st) {
		return nil, st, errors.New("increment and decrement operators are not supported")
	}

	for _, u := range unaryOps {
		_, i, err = u.tok.Parse(ctx, b, st)
		if err != nil {
			continue
		}

		j := i

		x, i, err = Spaced(Unary{}).Parse(ctx, b, j)
		if err != nil {
			if i == j {
				i = Blank.Skip(b, j)
			}

			return nil, i, errors.Wrap(err, "operand of %v", u.op)
		}

		return ast.Unary{
			Base: ast.Base{
				Pos: st,
				End: i,
			},
			Op: u.op,
			X:  x.(ast.Expr),
		}, i, nil
	}

	return AnyOf{Int{}, Paren{}}.Parse(ctx, b, st)
}

func (Unary) String() string { return "expression" }

func (p Paren) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return Context{
		Pre:  Const("("),
		Of:   Spaced(Expr{}),
		Post: Spaced(Const(")")),
	}.Parse(ctx, b, st)
}

func (Paren) String() string { return `"("` }

func isIncDec(b []byte, i int) bool {
	return bytes.HasPrefix(b[i:], []byte("--")) || bytes.HasPrefix(b[i:], []byte("++"))
}
