package signal

import (
	"errors"
	"fmt"

	"github.com/delaneyj/signalflow/task"
)

// TaskQueue runs the tasks carried by a signal strictly one at a time, in
// the order the signal produced them.
type TaskQueue struct {
	g         *Graph
	name      string
	queue     []task.Task
	current   *task.Root
	onDone    func(task.Task)
	completed int
}

// PerformTasks runs every task src produces, starting with its initial
// value once the graph is sealed. onDone, if set, sees each terminal result.
// The next task always starts from a deferred host timer, never inline.
func PerformTasks(b *Builder, name string, src Signal[task.Task], onDone func(task.Task)) *TaskQueue {
	q := &TaskQueue{g: b.g, name: name, onDone: onDone}
	Output(b, "perform-"+name, func(t task.Task) error {
		q.register(t)
		return nil
	}, src)
	b.whenSealed(func() {
		q.register(src.Value())
	})
	return q
}

func (q *TaskQueue) register(t task.Task) {
	if t == nil {
		return
	}
	q.queue = append(q.queue, t)
	q.g.metrics.SetQueueDepth(q.name, len(q.queue))
	if len(q.queue) == 1 {
		q.start(t)
	}
}

func (q *TaskQueue) start(t task.Task) {
	q.g.metrics.TaskStarted(q.name)
	q.current = task.Run(t, q.complete)
}

func (q *TaskQueue) complete(result task.Task) {
	q.completed++
	_, err, _ := task.Result(result)
	q.g.metrics.TaskCompleted(q.name, err != nil)
	if err != nil {
		q.g.logger.Debug("queued task failed", "queue", q.name, "err", err)
	}
	if q.onDone != nil {
		q.handOff(result)
	}

	q.queue[0] = nil
	q.queue = q.queue[1:]
	q.g.metrics.SetQueueDepth(q.name, len(q.queue))
	if len(q.queue) > 0 {
		next := q.queue[0]
		q.g.host.After(0, func() {
			q.start(next)
		})
	}
}

func (q *TaskQueue) handOff(result task.Task) {
	defer func() {
		if v := recover(); v != nil {
			q.g.report(fmt.Errorf("signal: task queue %q result handler panicked: %v", q.name, v))
		}
	}()
	q.onDone(result)
}

func (q *TaskQueue) Name() string { return q.name }

// Len counts the running task and the tasks waiting behind it.
func (q *TaskQueue) Len() int { return len(q.queue) }

func (q *TaskQueue) Completed() int { return q.completed }

// CancelCurrent cancels the running task if it is blocked. See task.Root.Cancel.
func (q *TaskQueue) CancelCurrent(cause error) bool {
	if q.current == nil || q.current.Done() {
		return false
	}
	return q.current.Cancel(cause)
}

// Send is a task that delivers v to in from a deferred host timer. It fails
// when the event cannot be delivered; reaction errors raised by the pass it
// triggers go to the graph's error handler instead.
func Send[T any](in *Source[T], v T) task.Task {
	g := in.g
	return task.Async(func(resume task.Resume) {
		g.host.After(0, func() {
			_, err := g.Notify(in.id, v)
			var re *ReactionError
			if err != nil && !errors.As(err, &re) {
				resume(task.Fail(err))
				return
			}
			g.report(err)
			resume(task.Succeed(struct{}{}))
		})
	})
}
