package signal

import "time"

type output[T any] struct {
	node[struct{}]
	src     Signal[T]
	handler func(T) error
}

// Output calls handler with every changed value of src. It is the only way
// values leave the graph. A handler error is reported by the Notify call
// that delivered the value.
func Output[T any](b *Builder, name string, handler func(T) error, src Signal[T]) ID {
	o := &output[T]{
		node:    makeNode[struct{}](b, KindOutput, name, src),
		src:     src,
		handler: handler,
	}
	b.attach(o, src)
	return o.id
}

func (o *output[T]) react(ts time.Time, changed bool, parent ID) {
	if !changed {
		return
	}
	o.g.guard(o, func() error {
		return o.handler(o.src.Value())
	})
}

// Delay replays every change of src d later. The replay is an ordinary event
// sent to an internal root through Notify from a host timer.
func Delay[T any](b *Builder, d time.Duration, src Signal[T]) Signal[T] {
	delayed := newSource(b, KindDelay, "", src.Value(), true)
	g := b.g
	Output(b, "", func(v T) error {
		g.host.After(d, func() {
			if _, err := g.Notify(delayed.id, v); err != nil {
				g.report(err)
			}
		})
		return nil
	}, src)
	return delayed
}
