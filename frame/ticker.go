package frame

import (
	"time"

	"github.com/delaneyj/signalflow/task"
)

// Ticker collects tick effects and runs all of them on the next frame with
// the same frame time. Ticks requested while a frame runs wait for the next
// one.
type Ticker struct {
	batcher *Batcher
	pending []func(time.Time)
}

func NewTicker(r Requester, opts ...Option) *Ticker {
	t := &Ticker{}
	opts = append([]Option{WithName("tick")}, opts...)
	t.batcher = NewBatcher(r, t.run, opts...)
	return t
}

func (t *Ticker) Tick(fn func(frameTime time.Time)) {
	t.pending = append(t.pending, fn)
	t.batcher.Request()
}

func (t *Ticker) Pending() int { return len(t.pending) }

func (t *Ticker) Batcher() *Batcher { return t.batcher }

func (t *Ticker) run(frameTime time.Time) {
	fns := t.pending
	t.pending = nil
	for _, fn := range fns {
		fn(frameTime)
	}
}

// TickTask succeeds with the time of the next frame.
func TickTask(t *Ticker) task.Task {
	return task.Async(func(resume task.Resume) {
		t.Tick(func(frameTime time.Time) {
			resume(task.Succeed(frameTime))
		})
	})
}
