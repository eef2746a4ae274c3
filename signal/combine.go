package signal

import "time"

// combined is the fan-in primitive behind every Map. It counts one reaction
// per parent per pass and recomputes once, after the last parent has
// reported, from the current values of all parents.
type combined[T any] struct {
	node[T]
	compute func() T
	arity   int
	count   int
	changed bool
}

func combine[T any](b *Builder, compute func() T, parents ...upstream) Signal[T] {
	if len(parents) == 0 {
		panic("signal: map needs at least one parent")
	}
	c := &combined[T]{
		node:    makeNode[T](b, KindMap, "", parents...),
		compute: compute,
		arity:   len(parents),
	}
	c.value = compute()
	b.attach(c, parents...)
	return c
}

func (c *combined[T]) react(ts time.Time, changed bool, parent ID) {
	c.count++
	c.changed = c.changed || changed
	if c.count < c.arity {
		return
	}

	update := c.changed
	c.count = 0
	c.changed = false
	if update {
		update = c.g.guard(c, func() error {
			c.value = c.compute()
			return nil
		})
	}
	c.broadcast(ts, update)
}

func Map[A, O any](b *Builder, f func(A) O, a Signal[A]) Signal[O] {
	return combine(b, func() O {
		return f(a.Value())
	}, a)
}

// MapN combines any number of signals of the same type.
func MapN[T, O any](b *Builder, f func([]T) O, parents ...Signal[T]) Signal[O] {
	ups := make([]upstream, len(parents))
	for i, p := range parents {
		ups[i] = p
	}
	return combine(b, func() O {
		values := make([]T, len(parents))
		for i, p := range parents {
			values[i] = p.Value()
		}
		return f(values)
	}, ups...)
}
