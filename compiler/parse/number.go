package parse

import (
	"context"
	"strconv"

	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/ast"
)

type (
	Int struct{}
)

func (p Int) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	if i == st {
		return nil, st, errors.New("integer expected")
	}

	if isIdentChar(b, i) {
		return nil, i, errors.New("invalid suffix %q on integer constant", b[i])
	}

	v, err := strconv.ParseInt(string(b[st:i]), 10, 32)
	if err != nil {
		return nil, i, errors.New("integer constant %s is out of range", b[st:i])
	}

	return ast.Constant{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Value: int32(v),
	}, i, nil
}

func (Int) String() string { return "integer" }
