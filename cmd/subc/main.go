package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"
	"golang.org/x/term"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/subc/compiler"
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/format"
	"github.com/slowlang/subc/compiler/parse"
	"github.com/slowlang/subc/compiler/target"
	"github.com/slowlang/subc/compiler/toolchain"
)

const (
	exitSyntax    = 1
	exitToolchain = 2
	exitInternal  = 3
)

func main() {
	targetFlags := []*cli.Flag{
		cli.NewFlag("target", "", "target platform: "+strings.Join(target.Names(), ", ")+" (default host)"),
		cli.NewFlag("target-file", "", "yaml file overriding target parameters"),
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse files and print them back as C",
		Action:      act(parseAct),
		Args:        cli.Args{},
	}

	irCmd := &cli.Command{
		Name:        "ir",
		Description: "print three-address code",
		Action:      act(irAct),
		Args:        cli.Args{},
	}

	asmCmd := &cli.Command{
		Name:        "asm",
		Description: "compile files into assembly",
		Action:      act(asmAct),
		Args:        cli.Args{},
		Flags: append([]*cli.Flag{
			cli.NewFlag("output,o", "", "output file, - for stdout (default <file>.s)"),
		}, targetFlags...),
	}

	buildCmd := &cli.Command{
		Name:        "build",
		Description: "compile a file into an executable",
		Action:      act(buildAct),
		Args:        cli.Args{},
		Flags: append([]*cli.Flag{
			cli.NewFlag("output,o", "", "output executable (default <file> without extension)"),
			cli.NewFlag("cc", toolchain.DefaultCC, "C compiler driver used to assemble and link"),
		}, targetFlags...),
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "build a file into a temporary executable and run it",
		Action:      act(runAct),
		Args:        cli.Args{},
		Flags: append([]*cli.Flag{
			cli.NewFlag("cc", toolchain.DefaultCC, "C compiler driver used to assemble and link"),
		}, targetFlags...),
	}

	app := &cli.Command{
		Name:        "subc",
		Description: "subc compiles a small subset of C into x86-64 assembly",
		Commands: []*cli.Command{
			parseCmd,
			irCmd,
			asmCmd,
			buildCmd,
			runCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func act(f func(ctx context.Context, c *cli.Command) error) func(*cli.Command) error {
	return func(c *cli.Command) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		ctx = tlog.ContextWithSpan(ctx, tlog.Root())

		err := f(ctx, c)
		if err != nil {
			printError(err)
			atexit.Exit(exitCode(err))
		}

		atexit.Exit(0)

		return nil
	}
}

func parseAct(ctx context.Context, c *cli.Command) error {
	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, x)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		_, _ = os.Stdout.Write(b)
	}

	return nil
}

func irAct(ctx context.Context, c *cli.Command) error {
	for _, a := range c.Args {
		res, err := compiler.CompileFile(ctx, a, compiler.Options{})
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		b, err := format.Format(ctx, nil, res.IR)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		_, _ = os.Stdout.Write(b)
	}

	return nil
}

func asmAct(ctx context.Context, c *cli.Command) error {
	opts, err := options(c)
	if err != nil {
		return err
	}

	out := c.String("output")
	if out != "" && len(c.Args) > 1 {
		return errors.New("--output is set for %d files", len(c.Args))
	}

	for _, a := range c.Args {
		res, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		name := out
		if name == "" {
			name = trimExt(a) + ".s"
		}

		if name == "-" {
			_, _ = os.Stdout.Write(res.Text)
			continue
		}

		_, err = compiler.WriteOutput(ctx, name, res.Text)
		if err != nil {
			return errors.Wrap(err, "%v", a)
		}
	}

	return nil
}

func buildAct(ctx context.Context, c *cli.Command) error {
	if len(c.Args) != 1 {
		return errors.New("expected one file, got %d", len(c.Args))
	}

	opts, err := options(c)
	if err != nil {
		return err
	}

	src := c.Args[0]

	exe := c.String("output")
	if exe == "" {
		exe = trimExt(src)
	}

	res, err := compiler.CompileFile(ctx, src, opts)
	if err != nil {
		return errors.Wrap(err, "compile %v", src)
	}

	err = toolchain.Build(ctx, toolchain.NewCC(c.String("cc")), res.Text, exe)
	if err != nil {
		return errors.Wrap(err, "build %v", src)
	}

	return nil
}

func runAct(ctx context.Context, c *cli.Command) error {
	if len(c.Args) != 1 {
		return errors.New("expected one file, got %d", len(c.Args))
	}

	opts, err := options(c)
	if err != nil {
		return err
	}

	src := c.Args[0]

	res, err := compiler.CompileFile(ctx, src, opts)
	if err != nil {
		return errors.Wrap(err, "compile %v", src)
	}

	dir, err := os.MkdirTemp("", "subc-run-")
	if err != nil {
		return errors.Wrap(err, "temp dir")
	}

	atexit.Register(func() {
		_ = os.RemoveAll(dir)
	})

	exe := filepath.Join(dir, filepath.Base(trimExt(src)))

	err = toolchain.Build(ctx, toolchain.NewCC(c.String("cc")), res.Text, exe)
	if err != nil {
		return errors.Wrap(err, "build %v", src)
	}

	st, err := toolchain.Run(ctx, exe)
	if err != nil {
		return errors.Wrap(err, "run %v", src)
	}

	fmt.Printf("%v %v\n", src, st)

	return nil
}

func options(c *cli.Command) (opts compiler.Options, err error) {
	if f := c.String("target-file"); f != "" {
		opts.Target, err = target.Load(f)
		if err != nil {
			return opts, errors.Wrap(err, "load target %v", f)
		}

		return opts, nil
	}

	opts.Target, err = target.Lookup(c.String("target"))

	return opts, err
}

func exitCode(err error) int {
	switch {
	case diag.IsInternal(err):
		return exitInternal
	case toolchain.IsError(err):
		return exitToolchain
	default:
		// syntax and i/o errors
		return exitSyntax
	}
}

func printError(err error) {
	prefix := "error:"

	if term.IsTerminal(int(os.Stderr.Fd())) {
		prefix = "\x1b[1;31m" + prefix + "\x1b[0m"
	}

	fmt.Fprintf(os.Stderr, "%s %v\n", prefix, err)
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
