package task

import "fmt"

type Kind uint8

const (
	KindSucceed Kind = iota
	KindFail
	KindAsync
	KindAndThen
	KindCatch
	KindPending
)

func (k Kind) String() string {
	switch k {
	case KindSucceed:
		return "Succeed"
	case KindFail:
		return "Fail"
	case KindAsync:
		return "Async"
	case KindAndThen:
		return "AndThen"
	case KindCatch:
		return "Catch"
	case KindPending:
		return "Pending"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Task describes a possibly asynchronous computation. It is plain data:
// running a Task never mutates it. The set of implementations is closed.
type Task interface {
	Kind() Kind
	isTask()
}

// Resume hands the outcome of an Async step back to the scheduler. It must be
// called exactly once, either before start returns or later on the host
// goroutine.
type Resume func(Task)

type succeedTask struct{ value any }

type failTask struct{ err error }

type asyncTask struct{ start func(Resume) }

type andThenTask struct {
	inner Task
	next  func(any) Task
}

type catchTask struct {
	inner   Task
	recover func(error) Task
}

// pendingTask is the placeholder left behind by an Async step whose resume
// has not fired yet.
type pendingTask struct {
	result    Task
	filled    bool
	abandoned bool
}

func (succeedTask) Kind() Kind  { return KindSucceed }
func (failTask) Kind() Kind     { return KindFail }
func (asyncTask) Kind() Kind    { return KindAsync }
func (andThenTask) Kind() Kind  { return KindAndThen }
func (catchTask) Kind() Kind    { return KindCatch }
func (*pendingTask) Kind() Kind { return KindPending }

func (succeedTask) isTask()  {}
func (failTask) isTask()     {}
func (asyncTask) isTask()    {}
func (andThenTask) isTask()  {}
func (catchTask) isTask()    {}
func (*pendingTask) isTask() {}

func Succeed(value any) Task {
	return succeedTask{value: value}
}

func Fail(err error) Task {
	if err == nil {
		err = ErrNilFailure
	}
	return failTask{err: err}
}

func Async(start func(resume Resume)) Task {
	if start == nil {
		panic("task: nil async start")
	}
	return asyncTask{start: start}
}

// AndThen runs next with the value of t once t succeeds. Failures pass
// through untouched.
func AndThen(t Task, next func(value any) Task) Task {
	return andThenTask{inner: t, next: next}
}

// Catch runs recover with the error of t once t fails. Successes pass
// through untouched.
func Catch(t Task, recover func(err error) Task) Task {
	return catchTask{inner: t, recover: recover}
}

// Result inspects a terminal task. ok is false for anything still to run.
func Result(t Task) (value any, err error, ok bool) {
	switch t := t.(type) {
	case succeedTask:
		return t.value, nil, true
	case failTask:
		return nil, t.err, true
	default:
		return nil, nil, false
	}
}

func IsTerminal(t Task) bool {
	_, _, ok := Result(t)
	return ok
}
