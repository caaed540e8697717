package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/ast"
)

type (
	None struct{}

	// Optional matches p or nothing.
	// p failing after consuming input is still an error.
	Optional struct {
		Parser
	}

	// Context matches Pre, Of, Post and returns the Of node.
	// Pre and Post may be nil.
	Context struct {
		Pre  Parser
		Of   Parser
		Post Parser
	}

	// AllOf matches a sequence and returns []ast.Node.
	AllOf []Parser

	// AnyOf returns the first alternative that matches.
	AnyOf []Parser
)

func (None) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	return None{}, st, nil
}

func (p Optional) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Parser.Parse(ctx, b, st)
	if err == nil || i != st {
		return x, i, err
	}

	return None{}, st, nil
}

func (p Context) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i, err = seq(ctx, b, st, []Parser{p.Pre, p.Of, p.Post}, func(j int, n ast.Node) {
		if j == 1 {
			x = n
		}
	})
	if err != nil {
		return nil, i, err
	}

	return x, i, nil
}

func (p AllOf) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	res := make([]ast.Node, len(p))

	i, err = seq(ctx, b, st, p, func(j int, n ast.Node) {
		res[j] = n
	})
	if err != nil {
		return nil, i, err
	}

	return res, i, nil
}

func (p AnyOf) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	var deep error
	at := st

	for _, alt := range p {
		x, end, e := alt.Parse(ctx, b, st)
		if e == nil {
			return x, end, nil
		}

		if end != st && deep == nil {
			deep, at = e, end
		}
	}

	if deep != nil {
		return nil, at, deep
	}

	return nil, st, errors.New("expected %v", oneOf(p))
}

// seq runs ps one after another skipping nils.
// Each result is passed to keep with its index in ps.
func seq(ctx context.Context, b []byte, st int, ps []Parser, keep func(j int, n ast.Node)) (i int, err error) {
	i = st

	for j, p := range ps {
		if p == nil {
			continue
		}

		var n ast.Node

		n, i, err = p.Parse(ctx, b, i)
		if err != nil {
			return i, err
		}

		keep(j, n)
	}

	return i, nil
}

// oneOf lists alternatives as "a, b or c".
func oneOf(l []Parser) string {
	names := make([]string, len(l))

	for j, p := range l {
		names[j] = describe(p)
	}

	switch len(names) {
	case 0:
		return "<none>"
	case 1:
		return names[0]
	}

	last := len(names) - 1

	return strings.Join(names[:last], ", ") + " or " + names[last]
}

func describe(p Parser) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", p)
}
