package parse

import (
	"bytes"
	"context"
	"strconv"

	"tlog.app/go/errors"

	"github.com/slowlang/subc/compiler/ast"
)

type (
	Const []byte

	// Keyword is a Const which is not followed by an identifier char.
	Keyword []byte

	Ident []byte
)

var keywords = []string{"int", "return", "void"}

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Const) String() string { return strconv.Quote(string(p)) }

func (p Keyword) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) && !isIdentChar(b, st+len(p)) {
		return Keyword(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Keyword) String() string { return strconv.Quote(string(p)) }

func (p Ident) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if i == len(b) || !isIdentStart(b[i]) {
		return nil, st, errors.New("identifier expected")
	}

	for i < len(b) && isIdentChar(b, i) {
		i++
	}

	for _, kw := range keywords {
		if string(b[st:i]) == kw {
			return nil, st, errors.New("identifier expected, got keyword %q", kw)
		}
	}

	return Ident(b[st:i]), i, nil
}

func (Ident) String() string { return "identifier" }

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(b []byte, i int) bool {
	if i >= len(b) {
		return false
	}

	c := b[i]

	return isIdentStart(c) || c >= '0' && c <= '9'
}
