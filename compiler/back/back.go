package back

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/subc/compiler/asm"
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/ir"
)

type (
	Compiler struct{}
)

func New() *Compiler {
	return &Compiler{}
}

func (c *Compiler) CompileProgram(ctx context.Context, p *ir.Program) (_ *asm.Program, err error) {
	if p == nil || p.Func == nil {
		return nil, diag.Internal("back", "program without function")
	}

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: compile program", "func", p.Func.Name)
	defer tr.Finish("err", &err)

	f, err := c.compileFunc(ctx, p.Func)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", p.Func.Name)
	}

	return &asm.Program{Func: f}, nil
}

func (c *Compiler) compileFunc(ctx context.Context, fn *ir.Func) (_ *asm.Func, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile func", "name", fn.Name, "ir", len(fn.Body))
	defer tr.Finish("err", &err)

	body, err := Select(fn)
	if err != nil {
		return nil, errors.Wrap(err, "select")
	}

	dump(tr, "dump_select", "selected", body)

	body, size, err := Allocate(body)
	if err != nil {
		return nil, errors.Wrap(err, "allocate")
	}

	dump(tr, "dump_alloc", "allocated", body)

	body, err = Legalize(body, size)
	if err != nil {
		return nil, errors.Wrap(err, "legalize")
	}

	dump(tr, "dump_asm", "legalized", body)

	regs, err := asm.Regs(body)
	if err != nil {
		return nil, errors.Wrap(err, "regs")
	}

	tr.Printw("func compiled", "name", fn.Name, "instrs", len(body), "frame", size, "regs", regs)

	return &asm.Func{
		Name:      fn.Name,
		Body:      body,
		FrameSize: size,
		Regs:      regs,
	}, nil
}

func dump(tr tlog.Span, topic, msg string, body []asm.Instr) {
	if !tr.If(topic) {
		return
	}

	for i, x := range body {
		tr.Printw(msg, "i", i, "typ", tlog.NextAsType, x, "val", x)
	}
}
