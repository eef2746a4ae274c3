package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/signalflow/host"
	"github.com/delaneyj/signalflow/signal"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure propagation through chains and fan-ins of signals",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "iters",
				Usage: "Events sent per graph",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  "cpuprofile",
				Usage: "Write a CPU profile here, empty to skip",
				Value: "default.pgo",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String("cpuprofile"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint("iters"))
	log.Printf("warming up")
	benchmarkPropagate(iters, false)

	benchmarkPropagate(iters, true)
	benchmarkFanIn(iters, true)
	return nil
}

func addOne(v int) int {
	return v + 1
}

func pass(int) error {
	return nil
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func measure(tbl table.Writer, name string, iters int, src *signal.Source[int]) {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		if _, err := src.Send(src.Value() + 1); err != nil {
			log.Panic(err)
		}
		tach.AddTime(time.Since(start))
	}

	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

// benchmarkPropagate builds w chains of h maps hanging off one input.
func benchmarkPropagate(iters int, shouldRender bool) {
	tbl := newTable("Signal propagation")

	for _, w := range ww {
		for _, h := range hh {
			b := signal.NewBuilder(host.NewManual(time.Now()))
			src := signal.Input(b, "src", 1)
			for i := 0; i < w; i++ {
				var last signal.Signal[int] = src
				for j := 0; j < h; j++ {
					last = signal.Map(b, addOne, last)
				}
				signal.Output(b, "", pass, last)
			}
			b.Seal()

			measure(tbl, fmt.Sprintf("propagate: %d * %d", w, h), iters, src)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkFanIn joins w independent chains back into one MapN, so every
// event has to wait at the join for all of them.
func benchmarkFanIn(iters int, shouldRender bool) {
	tbl := newTable("Signal fan-in")

	for _, w := range ww {
		b := signal.NewBuilder(host.NewManual(time.Now()))
		src := signal.Input(b, "src", 1)
		heads := make([]signal.Signal[int], w)
		for i := range heads {
			heads[i] = signal.Map(b, addOne, src)
		}
		sum := signal.MapN(b, func(vs []int) int {
			total := 0
			for _, v := range vs {
				total += v
			}
			return total
		}, heads...)
		signal.Output(b, "", pass, sum)
		b.Seal()

		measure(tbl, fmt.Sprintf("fan-in: %d", w), iters, src)
	}

	if shouldRender {
		tbl.Render()
	}
}
