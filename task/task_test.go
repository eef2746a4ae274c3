package task_test

import (
	"errors"
	"testing"
	"time"

	"github.com/delaneyj/signalflow/host"
	"github.com/delaneyj/signalflow/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	epoch   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	errBoom = errors.New("boom")
)

func addOne(v any) task.Task {
	return task.Succeed(v.(int) + 1)
}

func runSync(t *testing.T, tk task.Task) (any, error) {
	t.Helper()
	calls := 0
	var result task.Task
	root := task.Run(tk, func(r task.Task) {
		calls++
		result = r
	})
	require.True(t, root.Done())
	require.Equal(t, 1, calls)
	v, err, ok := task.Result(result)
	require.True(t, ok)
	return v, err
}

func TestLongLeftNestedChainDoesNotGrowStack(t *testing.T) {
	const n = 100_000
	tk := task.Succeed(1)
	for i := 0; i < n; i++ {
		tk = task.AndThen(tk, addOne)
	}
	v, err := runSync(t, tk)
	require.NoError(t, err)
	assert.Equal(t, n+1, v)
}

func TestLongRightNestedChain(t *testing.T) {
	const n = 100_000
	var loop func(v any) task.Task
	loop = func(v any) task.Task {
		if v.(int) > n {
			return task.Succeed(v)
		}
		return task.AndThen(task.Succeed(v.(int)+1), loop)
	}
	v, err := runSync(t, task.AndThen(task.Succeed(1), loop))
	require.NoError(t, err)
	assert.Equal(t, n+1, v)
}

func TestSyncAndDeferredAsyncAgree(t *testing.T) {
	m := host.NewManual(epoch)

	syncTask := task.AndThen(task.Async(func(resume task.Resume) {
		resume(task.Succeed(41))
	}), addOne)
	deferredTask := task.AndThen(task.Async(func(resume task.Resume) {
		m.After(10*time.Millisecond, func() {
			resume(task.Succeed(41))
		})
	}), addOne)

	var syncResult, deferredResult task.Task
	syncCalls, deferredCalls := 0, 0

	syncRoot := task.Run(syncTask, func(r task.Task) {
		syncCalls++
		syncResult = r
	})
	assert.True(t, syncRoot.Done())
	assert.Equal(t, 1, syncCalls)

	deferredRoot := task.Run(deferredTask, func(r task.Task) {
		deferredCalls++
		deferredResult = r
	})
	assert.False(t, deferredRoot.Done())
	assert.Equal(t, 0, deferredCalls)

	m.Advance(10 * time.Millisecond)
	assert.True(t, deferredRoot.Done())
	assert.Equal(t, 1, deferredCalls)

	sv, _, _ := task.Result(syncResult)
	dv, _, _ := task.Result(deferredResult)
	assert.Equal(t, 42, sv)
	assert.Equal(t, sv, dv)

	m.Advance(time.Second)
	assert.Equal(t, 1, deferredCalls)
}

func TestBlockedTaskKeepsOuterCombinators(t *testing.T) {
	m := host.NewManual(epoch)
	tk := task.Catch(
		task.AndThen(task.Sleep(m, time.Second), func(any) task.Task {
			return task.Fail(errBoom)
		}),
		func(err error) task.Task {
			return task.Succeed("recovered: " + err.Error())
		},
	)

	var result task.Task
	root := task.Run(tk, func(r task.Task) { result = r })
	pending := root.Task()
	require.Equal(t, task.KindCatch, pending.Kind())

	m.Advance(time.Second)
	require.True(t, root.Done())
	v, err, ok := task.Result(result)
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, "recovered: boom", v)
}

func TestFailurePassesThroughAndThen(t *testing.T) {
	called := false
	tk := task.AndThen(task.Fail(errBoom), func(any) task.Task {
		called = true
		return task.Succeed(1)
	})
	_, err := runSync(t, tk)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, called)
}

func TestSuccessPassesThroughCatch(t *testing.T) {
	tk := task.Catch(task.Succeed(7), func(error) task.Task {
		return task.Succeed(0)
	})
	v, err := runSync(t, tk)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestPanickingContinuationFails(t *testing.T) {
	tk := task.AndThen(task.Succeed(1), func(any) task.Task {
		panic("bad continuation")
	})
	_, err := runSync(t, tk)
	assert.ErrorIs(t, err, task.ErrPanic)

	var pe *task.PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad continuation", pe.Value)
}

func TestNilContinuationFails(t *testing.T) {
	tk := task.AndThen(task.Succeed(1), func(any) task.Task { return nil })
	_, err := runSync(t, tk)
	assert.ErrorIs(t, err, task.ErrNilTask)
}

func TestResumeTwicePanics(t *testing.T) {
	var resume task.Resume
	tk := task.Async(func(r task.Resume) { resume = r })
	calls := 0
	task.Run(tk, func(task.Task) { calls++ })

	resume(task.Succeed(1))
	assert.PanicsWithValue(t, task.ErrResumedTwice, func() {
		resume(task.Succeed(2))
	})
	assert.Equal(t, 1, calls)
}

func TestCancelBlockedTask(t *testing.T) {
	m := host.NewManual(epoch)
	tk := task.Catch(task.Sleep(m, time.Minute), func(err error) task.Task {
		return task.Fail(err)
	})

	calls := 0
	var result task.Task
	root := task.Run(tk, func(r task.Task) {
		calls++
		result = r
	})
	require.False(t, root.Done())

	assert.True(t, root.Cancel(errBoom))
	require.True(t, root.Done())
	_, err, _ := task.Result(result)
	assert.ErrorIs(t, err, task.ErrCanceled)
	assert.ErrorIs(t, err, errBoom)

	// the abandoned timer still fires but is ignored
	m.Advance(time.Minute)
	assert.Equal(t, 1, calls)
	assert.False(t, root.Cancel(nil))
}

func TestSequenceAndThen(t *testing.T) {
	m := host.NewManual(epoch)
	tk := task.Then(task.Sequence(
		task.Succeed(1),
		task.Map(task.Sleep(m, time.Millisecond), func(any) any { return 2 }),
		task.FromFunc(func() (any, error) { return 3, nil }),
	), func(values []any) task.Task {
		return task.Succeed(len(values))
	})

	var result task.Task
	root := task.Run(tk, func(r task.Task) { result = r })
	m.Advance(time.Millisecond)
	require.True(t, root.Done())
	v, err, _ := task.Result(result)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestThenRejectsWrongType(t *testing.T) {
	tk := task.Then(task.Succeed("nope"), func(int) task.Task {
		return task.Succeed(0)
	})
	_, err := runSync(t, tk)
	assert.ErrorIs(t, err, task.ErrUnexpected)
}

func TestMapErrorAndFromFunc(t *testing.T) {
	tk := task.MapError(task.FromFunc(func() (any, error) {
		return nil, errBoom
	}), func(err error) error {
		return errors.Join(errors.New("wrapped"), err)
	})
	_, err := runSync(t, tk)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "wrapped")
}
