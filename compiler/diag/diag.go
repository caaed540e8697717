// Package diag holds error kinds shared by compiler stages.
package diag

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
)

type (
	// InternalError is a broken invariant inside the compiler.
	// It is never caused by the user's program.
	InternalError struct {
		Stage string
		Msg   string
		PC    loc.PC
	}
)

func Internal(stage, format string, args ...any) *InternalError {
	return &InternalError{
		Stage: stage,
		Msg:   fmt.Sprintf(format, args...),
		PC:    loc.Caller(1),
	}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal compiler error: %s: %s (%v)", e.Stage, e.Msg, e.PC)
}

func IsInternal(err error) bool {
	var ie *InternalError

	return errors.As(err, &ie)
}
