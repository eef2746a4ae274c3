package task

import (
	"fmt"
	"time"
)

func Map(t Task, f func(any) any) Task {
	return AndThen(t, func(v any) Task {
		return Succeed(f(v))
	})
}

func MapError(t Task, f func(error) error) Task {
	return Catch(t, func(err error) Task {
		return Fail(f(err))
	})
}

// Then is AndThen with a typed continuation. A value of the wrong type fails
// the task with ErrUnexpected.
func Then[A any](t Task, next func(A) Task) Task {
	return AndThen(t, func(v any) Task {
		a, ok := v.(A)
		if !ok {
			var zero A
			return Fail(fmt.Errorf("%w: got %T, want %T", ErrUnexpected, v, zero))
		}
		return next(a)
	})
}

// Sequence runs tasks one after another and succeeds with all their values,
// stopping at the first failure.
func Sequence(tasks ...Task) Task {
	acc := Succeed([]any{})
	for _, t := range tasks {
		t := t
		acc = AndThen(acc, func(v any) Task {
			values := v.([]any)
			return AndThen(t, func(x any) Task {
				// full slice expression so a rerun never shares a backing array
				return Succeed(append(values[:len(values):len(values)], x))
			})
		})
	}
	return acc
}

func FromFunc(f func() (any, error)) Task {
	return AndThen(Succeed(nil), func(any) Task {
		v, err := f()
		if err != nil {
			return Fail(err)
		}
		return Succeed(v)
	})
}

// Timer is the part of the host a Sleep needs.
type Timer interface {
	After(d time.Duration, fn func())
}

func Sleep(timer Timer, d time.Duration) Task {
	return Async(func(resume Resume) {
		timer.After(d, func() {
			resume(Succeed(struct{}{}))
		})
	})
}
