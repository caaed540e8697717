// Package toolchain turns assembly text into executables using an external C compiler driver.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	Toolchain interface {
		Assemble(ctx context.Context, asmPath, exePath string) error
	}

	// CC assembles and links with a cc compatible driver.
	CC struct {
		Path  string
		Flags []string
	}

	// Exit is how a program finished.
	// Signal is set if it was killed by a signal.
	Exit struct {
		Status int
		Signal syscall.Signal
	}

	// Error is a failed external command with its combined output.
	Error struct {
		Cmd    string
		Output []byte
		Err    error
	}
)

const DefaultCC = "cc"

func NewCC(path string) *CC {
	if path == "" {
		path = DefaultCC
	}

	return &CC{Path: path}
}

func (c *CC) Assemble(ctx context.Context, asmPath, exePath string) (err error) {
	args := append([]string{}, c.Flags...)
	args = append(args, asmPath, "-o", exePath)

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "toolchain: assemble", "cc", c.Path, "args", args)
	defer tr.Finish("err", &err)

	cmd := exec.CommandContext(ctx, c.Path, args...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return &Error{
			Cmd:    c.Path + " " + strings.Join(args, " "),
			Output: out,
			Err:    err,
		}
	}

	return nil
}

// Build writes text to a temporary file and assembles it into exePath.
// The temporary file is removed in any case.
func Build(ctx context.Context, tc Toolchain, text []byte, exePath string) (err error) {
	f, err := os.CreateTemp("", "subc-*.s")
	if err != nil {
		return errors.Wrap(err, "create temp")
	}

	defer func() {
		e := os.Remove(f.Name())
		if err == nil && e != nil {
			err = errors.Wrap(e, "remove temp")
		}
	}()

	_, err = f.Write(text)
	if e := f.Close(); err == nil && e != nil {
		err = e
	}
	if err != nil {
		return errors.Wrap(err, "write temp")
	}

	err = tc.Assemble(ctx, f.Name(), exePath)
	if err != nil {
		return errors.Wrap(err, "assemble")
	}

	return nil
}

// Run executes exePath and returns its exit status.
// Non-zero status or a signal is not an error.
func Run(ctx context.Context, exePath string) (st Exit, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "toolchain: run", "exe", exePath)
	defer tr.Finish("err", &err)

	cmd := exec.CommandContext(ctx, exePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()

	var exit *exec.ExitError
	if errors.As(err, &exit) {
		st.Status = exit.ExitCode()

		if ws, ok := exit.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			st.Signal = ws.Signal()
		}

		tr.Printw("exited", "status", st.Status, "signal", int(st.Signal))

		return st, nil
	}
	if err != nil {
		return st, errors.Wrap(err, "run")
	}

	return st, nil
}

func (e Exit) Signaled() bool { return e.Signal != 0 }

func (e Exit) String() string {
	if e.Signaled() {
		return fmt.Sprintf("killed by signal %d (%v)", int(e.Signal), e.Signal)
	}

	return fmt.Sprintf("exited with status %d", e.Status)
}

func (e *Error) Error() string {
	if len(e.Output) == 0 {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}

	return fmt.Sprintf("%s: %v\n%s", e.Cmd, e.Err, strings.TrimRight(string(e.Output), "\n"))
}

func (e *Error) Unwrap() error { return e.Err }

func IsError(err error) bool {
	var te *Error

	return errors.As(err, &te)
}
