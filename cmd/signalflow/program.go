package main

import (
	"fmt"
	"time"

	"github.com/delaneyj/signalflow/frame"
	"github.com/delaneyj/signalflow/signal"
	"github.com/delaneyj/signalflow/task"
)

// counter is a small program exercising every kind of node: clicks fold into
// a count, the count is echoed back after a delay, even counts are saved by
// a slow task that reports back through an input, and a view of all three is
// drawn at most once per frame.
type counter struct {
	clicks  *signal.Source[struct{}]
	saved   *signal.Source[int]
	count   signal.Signal[int]
	echoed  signal.Signal[int]
	lastHit signal.Signal[signal.Stamped[struct{}]]
	saves   *signal.TaskQueue
	view    *frame.Renderer[string]
}

type counterConfig struct {
	echoDelay time.Duration
	saveDelay time.Duration
	draw      func(string) error
	frameOpts []frame.Option
}

func buildCounter(b *signal.Builder, cfg counterConfig) *counter {
	c := &counter{}
	c.clicks = signal.Input(b, "clicks", struct{}{})
	c.saved = signal.Input(b, "saved", 0)
	c.count = signal.Foldp(b, func(_ struct{}, n int) int { return n + 1 }, 0, c.clicks)
	c.echoed = signal.Delay(b, cfg.echoDelay, c.count)
	c.lastHit = signal.Timestamp(b, c.clicks)

	evens := signal.DropRepeats(b, signal.Filter(b, func(n int) bool { return n%2 == 0 }, 0, c.count))
	timer := b.Host()
	saveTasks := signal.Map(b, func(n int) task.Task {
		return task.AndThen(task.Sleep(timer, cfg.saveDelay), func(any) task.Task {
			return signal.Send(c.saved, n)
		})
	}, evens)
	c.saves = signal.PerformTasks(b, "save", saveTasks, nil)

	view := signal.Map4(b, func(n, echoed, saved int, hit signal.Stamped[struct{}]) string {
		return fmt.Sprintf("count=%d echoed=%d saved=%d last-click=%s", n, echoed, saved, hit.Time.Format(time.TimeOnly))
	}, c.count, c.echoed, c.saved, c.lastHit)
	c.view = frame.Render(b, view, cfg.draw, cfg.frameOpts...)
	return c
}
