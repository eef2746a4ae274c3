package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"time"

	"github.com/delaneyj/signalflow/frame"
	"github.com/delaneyj/signalflow/host"
	"github.com/delaneyj/signalflow/metrics"
	"github.com/delaneyj/signalflow/signal"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := &cli.Command{
		Name:  "signalflow",
		Usage: "Run and inspect a reactive counter program",
		Commands: []*cli.Command{
			{
				Name:  "demo",
				Usage: "Drive the counter on the real event loop",
				Flags: []cli.Flag{
					logLevelFlag(),
					&cli.UintFlag{Name: "events", Usage: "Clicks to send", Value: 10},
					&cli.DurationFlag{Name: "interval", Usage: "Time between clicks", Value: 50 * time.Millisecond},
					&cli.DurationFlag{Name: "delay", Usage: "How late the count is echoed", Value: 200 * time.Millisecond},
					&cli.DurationFlag{Name: "save-delay", Usage: "How long a save takes", Value: 120 * time.Millisecond},
					&cli.DurationFlag{Name: "frame", Usage: "Frame interval", Value: host.DefaultFrameInterval},
					&cli.StringFlag{Name: "metrics-addr", Usage: "Serve prometheus metrics here, e.g. :9090"},
				},
				Action: demo,
			},
			{
				Name:   "graph",
				Usage:  "Print the nodes of the counter program",
				Flags:  []cli.Flag{logLevelFlag()},
				Action: graph,
			},
		},
	}
	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Value: "info"}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func demo(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.String("log-level"))
	if err != nil {
		return err
	}

	var met *metrics.Metrics
	if addr := cmd.String("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		met = metrics.New(reg)
		srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		defer srv.Close()
		log.Printf("Serving metrics on %s/metrics", addr)
	}

	loop := host.NewLoop(host.WithFrameInterval(cmd.Duration("frame")), host.WithLogger(logger))
	b := signal.NewBuilder(loop, signal.WithLogger(logger), signal.WithMetrics(met))
	c := buildCounter(b, counterConfig{
		echoDelay: cmd.Duration("delay"),
		saveDelay: cmd.Duration("save-delay"),
		draw: func(view string) error {
			fmt.Println(view)
			return nil
		},
		frameOpts: []frame.Option{frame.WithMetrics(met)},
	})
	g := b.Seal()
	log.Printf("Program %016x sealed with %d nodes", g.Fingerprint(), len(g.Nodes()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := int(cmd.Uint("events"))
	interval := cmd.Duration("interval")
	sent := 0
	// wait for the last echo and every queued save before stopping
	var finish func()
	finish = func() {
		if c.saves.Len() > 0 || c.echoed.Value() != c.count.Value() {
			loop.After(interval, finish)
			return
		}
		loop.After(cmd.Duration("frame"), cancel)
	}
	var click func()
	click = func() {
		if _, err := c.clicks.Send(struct{}{}); err != nil {
			logger.Error("click failed", "err", err)
		}
		sent++
		if sent < events {
			loop.After(interval, click)
			return
		}
		loop.After(cmd.Duration("delay"), finish)
	}
	if events > 0 {
		loop.After(interval, click)
	} else {
		loop.After(cmd.Duration("frame"), cancel)
	}

	start := time.Now()
	err = loop.Run(ctx)
	log.Printf(
		"Sent %s clicks in %v, drew %s frames, finished %s saves",
		humanize.Comma(int64(sent)),
		time.Since(start).Round(time.Millisecond),
		humanize.Comma(int64(c.view.Drawn())),
		humanize.Comma(int64(c.saves.Completed())),
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func graph(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.String("log-level"))
	if err != nil {
		return err
	}

	b := signal.NewBuilder(host.NewManual(time.Now()), signal.WithLogger(logger))
	buildCounter(b, counterConfig{
		echoDelay: time.Second,
		saveDelay: time.Second,
		draw:      func(string) error { return nil },
	})
	g := b.Seal()

	tbl := table.NewWriter()
	tbl.SetTitle("Counter program")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"id", "name", "kind", "parents", "kids"})
	for _, n := range g.Nodes() {
		tbl.AppendRow(table.Row{n.ID, n.Name, n.Kind, joinIDs(n.Parents), joinIDs(n.Kids)})
	}
	tbl.AppendFooter(table.Row{"", "", "", "fingerprint", fmt.Sprintf("%016x", g.Fingerprint())})
	tbl.Render()
	return nil
}

func joinIDs(ids []signal.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
