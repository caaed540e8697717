package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/subc/compiler/ast"
)

type (
	State struct {
		name string
		b    []byte

		Grammar Parser
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	SyntaxError struct {
		File string
		Pos  int
		Line int
		Col  int
		Err  error
	}

	TypeExpectedError struct {
		T interface{}
	}

	PartialReadError struct {
		End int
	}
)

func ParseFile(ctx context.Context, name string) (*ast.Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, name, data)
}

func Parse(ctx context.Context, name string, text []byte) (*ast.Program, error) {
	s := New(name, text)

	return s.Parse(ctx)
}

func New(name string, text []byte) *State {
	return &State{
		name:    name,
		b:       text,
		Grammar: Program{},
	}
}

func (s *State) Parse(ctx context.Context) (p *ast.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "name", s.name, "size", len(s.b))
	defer tr.Finish("err", &err)

	x, i, err := s.Grammar.Parse(ctx, s.b, 0)
	if err != nil {
		return nil, s.syntaxError(i, err)
	}

	i = Blank.Skip(s.b, i)

	if i != len(s.b) {
		return nil, s.syntaxError(i, PartialReadError{End: i})
	}

	p, ok := x.(*ast.Program)
	if !ok {
		return nil, s.syntaxError(0, NewTypeExpectedError(p))
	}

	if tr.If("dump_ast") {
		tr.Printw("ast", "func", p.Func.Name, "body", p.Func.Body)
	}

	return p, nil
}

func (s *State) syntaxError(pos int, err error) *SyntaxError {
	if pos > len(s.b) {
		pos = len(s.b)
	}

	pos = Blank.Skip(s.b, pos)

	line := 1 + bytes.Count(s.b[:pos], []byte{'\n'})
	col := pos - bytes.LastIndexByte(s.b[:pos], '\n')

	return &SyntaxError{
		File: s.name,
		Pos:  pos,
		Line: line,
		Col:  col,
		Err:  err,
	}
}

func (e *SyntaxError) Error() string {
	name := e.File
	if name == "" {
		name = "<input>"
	}

	return fmt.Sprintf("%s:%d:%d: %v", name, e.Line, e.Col, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func NewTypeExpectedError(t interface{}) TypeExpectedError {
	return TypeExpectedError{
		T: t,
	}
}

func (e TypeExpectedError) Error() string {
	return fmt.Sprintf("%v expected", reflect.TypeOf(e.T))
}

func (e PartialReadError) Error() string {
	return "unexpected text after function"
}
