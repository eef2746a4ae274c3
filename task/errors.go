package task

import (
	"errors"
	"fmt"
)

var (
	ErrNilFailure   = errors.New("task: failed with nil error")
	ErrNilTask      = errors.New("task: continuation returned nil task")
	ErrResumedTwice = errors.New("task: async step resumed more than once")
	ErrCanceled     = errors.New("task: canceled")
	ErrPanic        = errors.New("task: continuation panicked")
	ErrUnexpected   = errors.New("task: unexpected value type")
)

// PanicError is the failure produced when a continuation panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPanic, e.Value)
}

func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrPanic, err}
	}
	return []error{ErrPanic}
}

type CanceledError struct {
	Cause error
}

func (e *CanceledError) Error() string {
	if e.Cause == nil {
		return ErrCanceled.Error()
	}
	return fmt.Sprintf("%v: %v", ErrCanceled, e.Cause)
}

func (e *CanceledError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCanceled}
	}
	return []error{ErrCanceled, e.Cause}
}
