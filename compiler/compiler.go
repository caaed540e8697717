package compiler

import (
	"context"
	"io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/subc/compiler/asm"
	"github.com/slowlang/subc/compiler/ast"
	"github.com/slowlang/subc/compiler/back"
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/format"
	"github.com/slowlang/subc/compiler/front"
	"github.com/slowlang/subc/compiler/ir"
	"github.com/slowlang/subc/compiler/parse"
	"github.com/slowlang/subc/compiler/target"
)

type (
	Options struct {
		Target target.Target
	}

	Result struct {
		AST  *ast.Program
		IR   *ir.Program
		Asm  *asm.Program
		Text []byte
	}

	InternalError = diag.InternalError
)

func CompileFile(ctx context.Context, name string, opts Options) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, opts)
}

// Compile translates C source text into assembly text.
// Every call is independent of the others.
func Compile(ctx context.Context, name string, text []byte, opts Options) (res *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name, "target", opts.Target.Name)
	defer tr.Finish("err", &err)

	if opts.Target.Name == "" {
		opts.Target = target.Default()
	}

	res = &Result{}

	res.AST, err = parse.Parse(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	res.IR, err = front.Generate(ctx, res.AST)
	if err != nil {
		return nil, errors.Wrap(err, "generate ir")
	}

	err = res.IR.Func.Verify()
	if err != nil {
		return nil, errors.Wrap(err, "verify ir")
	}

	res.Asm, err = back.New().CompileProgram(ctx, res.IR)
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	res.Text, err = format.New(opts.Target).Format(ctx, nil, res.Asm)
	if err != nil {
		return nil, errors.Wrap(err, "format")
	}

	tr.Printw("compiled", "text", len(res.Text))

	return res, nil
}

// WriteOutput writes text to name unless the file already has the same content.
func WriteOutput(ctx context.Context, name string, text []byte) (written bool, err error) {
	old, err := os.ReadFile(name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return false, errors.Wrap(err, "read old output")
	case xxhash.Sum64(old) == xxhash.Sum64(text):
		tlog.SpanFromContext(ctx).V("output").Printw("output unchanged", "name", name, "hash", xxhash.Sum64(text))

		return false, nil
	}

	err = os.WriteFile(name, text, 0o644)
	if err != nil {
		return false, errors.Wrap(err, "write output")
	}

	return true, nil
}
