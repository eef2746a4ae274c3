package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/signalflow/host"
	"github.com/delaneyj/signalflow/task"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

type chainConfig struct {
	name   string
	length int
	build  func(n int, m *host.Manual) task.Task
}

func main() {
	log.Print("Starting task scheduler benchmark, please wait...")
	defer log.Print("Finished task scheduler benchmark")

	cfgs := []chainConfig{}
	for _, n := range []int{1_000, 100_000, 1_000_000} {
		cfgs = append(cfgs,
			chainConfig{name: "left nested andThen", length: n, build: leftNested},
			chainConfig{name: "right nested andThen", length: n, build: rightNested},
			chainConfig{name: "catch pass-through", length: n, build: catchChain},
			chainConfig{name: "deferred async steps", length: n / 10, build: deferredChain},
		)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"test", "steps", "time", "steps/ms", "result"})

	testRepeats := 3
	for _, cfg := range cfgs {
		log.Printf("Running '%s' with %s steps", cfg.name, humanize.Comma(int64(cfg.length)))
		best := time.Hour
		var result string
		for i := 0; i < testRepeats; i++ {
			m := host.NewManual(time.Now())
			t := cfg.build(cfg.length, m)
			start := time.Now()
			root := task.Run(t, nil)
			for !root.Done() {
				m.Flush()
			}
			if d := time.Since(start); d < best {
				best = d
			}
			final, _ := root.Result()
			v, err, _ := task.Result(final)
			result = fmt.Sprint(v)
			if err != nil {
				result = err.Error()
			}
		}

		rate := float64(cfg.length) / (float64(best) / float64(time.Millisecond))
		table.Append([]string{
			cfg.name,
			humanize.Comma(int64(cfg.length)),
			fmt.Sprint(best),
			humanize.Comma(int64(rate)),
			result,
		})
	}
	table.Render()
}

func addOne(v any) task.Task {
	return task.Succeed(v.(int) + 1)
}

func leftNested(n int, _ *host.Manual) task.Task {
	t := task.Succeed(0)
	for i := 0; i < n; i++ {
		t = task.AndThen(t, addOne)
	}
	return t
}

func rightNested(n int, _ *host.Manual) task.Task {
	var step func(i int) func(any) task.Task
	step = func(i int) func(any) task.Task {
		return func(v any) task.Task {
			next := task.Succeed(v.(int) + 1)
			if i == n {
				return next
			}
			return task.AndThen(next, step(i+1))
		}
	}
	return task.AndThen(task.Succeed(0), step(1))
}

func catchChain(n int, _ *host.Manual) task.Task {
	t := task.Succeed(0)
	for i := 0; i < n; i++ {
		t = task.Catch(t, task.Fail)
	}
	return task.AndThen(t, addOne)
}

func deferredChain(n int, m *host.Manual) task.Task {
	t := task.Succeed(0)
	for i := 0; i < n; i++ {
		t = task.AndThen(t, func(v any) task.Task {
			return task.Async(func(resume task.Resume) {
				m.After(0, func() {
					resume(addOne(v))
				})
			})
		})
	}
	return t
}
