package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/ast"
)

type (
	Program struct{}

	Func struct{}

	Return struct{}
)

func (p Program) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = Spaced(Func{}).Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "function")
	}

	f := x.(*ast.Func)

	return &ast.Program{
		Base: f.Base,
		Func: f,
	}, i, nil
}

func (p Func) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := AllOf{
		Keyword("int"),
		Spaced(Ident{}),
		Spaced(Const("(")),
		Optional{Spaced(Keyword("void"))},
		Spaced(Const(")")),
		Spaced(Const("{")),
		Spaced(Return{}),
		Spaced(Const("}")),
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	xt := x.([]ast.Node)

	return &ast.Func{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Name: string(xt[1].(Ident)),
		Body: xt[6].(ast.Stmt),
	}, i, nil
}

func (Func) String() string { return "function" }

func (p Return) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := AllOf{
		Keyword("return"),
		Spaced(Expr{}),
		Spaced(Const(";")),
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "return statement")
	}

	xt := x.([]ast.Node)

	return ast.Return{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Value: xt[1].(ast.Expr),
	}, i, nil
}

func (Return) String() string { return `"return"` }
