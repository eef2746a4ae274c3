package task

import "fmt"

type outcome uint8

const (
	stepRunnable outcome = iota
	stepDone
	stepBlocked
)

// frame is one outer combinator waiting on the task below it.
type frame struct {
	next    func(any) Task
	recover func(error) Task
}

// Root is the mutable cell of one independent task execution. Only the
// scheduler writes to it and it is never shared between executions.
//
// AndThen and Catch push their continuation onto an explicit stack instead of
// recursing, so neither the length of a chain nor the nesting depth of its
// combinators grows the goroutine stack.
type Root struct {
	current Task
	stack   []frame
	onDone  func(Task)

	running  bool
	finished bool

	cancelRequested bool
	cancelCause     error
}

// Run reduces t until it finishes or blocks on an Async step. done is called
// exactly once with the terminal task, possibly from a later resume.
func Run(t Task, done func(Task)) *Root {
	r := &Root{current: t, onDone: done}
	r.run()
	return r
}

func (r *Root) run() {
	if r.running || r.finished {
		return
	}
	r.running = true
	for {
		switch r.step() {
		case stepRunnable:
			continue
		case stepBlocked:
			r.running = false
			return
		case stepDone:
			r.running = false
			r.finished = true
			if r.onDone != nil {
				r.onDone(r.current)
			}
			return
		}
	}
}

func (r *Root) step() outcome {
	if r.cancelRequested {
		r.cancelRequested = false
		r.current = Fail(&CanceledError{Cause: r.cancelCause})
	}

	switch t := r.current.(type) {
	case succeedTask, failTask:
		return r.unwind(t)
	case andThenTask:
		r.stack = append(r.stack, frame{next: t.next})
		r.current = t.inner
		return stepRunnable
	case catchTask:
		r.stack = append(r.stack, frame{recover: t.recover})
		r.current = t.inner
		return stepRunnable
	case asyncTask:
		return r.stepAsync(t)
	case *pendingTask:
		if !t.filled {
			return stepBlocked
		}
		r.current = t.result
		return stepRunnable
	case nil:
		r.current = Fail(ErrNilTask)
		return stepRunnable
	default:
		panic(fmt.Sprintf("task: unknown task type %T", t))
	}
}

// unwind pops frames until one matches the outcome of t. Frames of the other
// kind let the result pass through.
func (r *Root) unwind(t Task) outcome {
	for len(r.stack) > 0 {
		last := len(r.stack) - 1
		f := r.stack[last]
		r.stack[last] = frame{}
		r.stack = r.stack[:last]

		switch t := t.(type) {
		case succeedTask:
			if f.next != nil {
				r.current = apply(func() Task { return f.next(t.value) })
				return stepRunnable
			}
		case failTask:
			if f.recover != nil {
				r.current = apply(func() Task { return f.recover(t.err) })
				return stepRunnable
			}
		}
	}
	r.current = t
	return stepDone
}

func (r *Root) stepAsync(t asyncTask) outcome {
	cell := &pendingTask{}
	couldBeSync := true

	resume := func(result Task) {
		if cell.abandoned {
			return
		}
		if cell.filled {
			panic(ErrResumedTwice)
		}
		if result == nil {
			result = Fail(ErrNilTask)
		}
		cell.result = result
		cell.filled = true
		if couldBeSync {
			return
		}
		r.run()
	}

	panicked, value := callStart(t.start, resume)
	couldBeSync = false

	switch {
	case cell.filled:
		r.current = cell.result
		return stepRunnable
	case panicked:
		cell.abandoned = true
		r.current = Fail(&PanicError{Value: value})
		return stepRunnable
	default:
		r.current = cell
		return stepBlocked
	}
}

func callStart(start func(Resume), resume Resume) (panicked bool, value any) {
	defer func() {
		if v := recover(); v != nil {
			panicked, value = true, v
		}
	}()
	start(resume)
	return false, nil
}

func apply(k func() Task) (next Task) {
	defer func() {
		if v := recover(); v != nil {
			next = Fail(&PanicError{Value: v})
		}
	}()
	if next = k(); next == nil {
		next = Fail(ErrNilTask)
	}
	return next
}

// Cancel abandons the Async step the task is blocked on, if any, and
// continues the task with a *CanceledError failure that Catch can observe.
// A late resume of the abandoned step is ignored. Like every other entry
// into the scheduler it must be called on the host goroutine.
func (r *Root) Cancel(cause error) bool {
	if r.finished {
		return false
	}
	if p, ok := r.current.(*pendingTask); ok && !p.filled {
		p.abandoned = true
	}
	r.cancelRequested = true
	r.cancelCause = cause
	r.run()
	return true
}

func (r *Root) Done() bool {
	return r.finished
}

// Result returns the terminal task once the execution has finished.
func (r *Root) Result() (Task, bool) {
	if !r.finished {
		return nil, false
	}
	return r.current, true
}

// Task rebuilds the task still to run, outer combinators included.
func (r *Root) Task() Task {
	t := r.current
	for i := len(r.stack) - 1; i >= 0; i-- {
		f := r.stack[i]
		if f.next != nil {
			t = andThenTask{inner: t, next: f.next}
		} else {
			t = catchTask{inner: t, recover: f.recover}
		}
	}
	return t
}
