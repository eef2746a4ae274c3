package signal

import (
	"reflect"
	"time"

	"github.com/google/go-cmp/cmp"
)

type folded[A, S any] struct {
	node[S]
	src  Signal[A]
	step func(A, S) S
}

// Foldp accumulates state from the past: on every change of src the state
// becomes step(new value, previous state).
func Foldp[A, S any](b *Builder, step func(A, S) S, seed S, src Signal[A]) Signal[S] {
	f := &folded[A, S]{
		node: makeNode[S](b, KindFoldp, "", src),
		src:  src,
		step: step,
	}
	f.value = seed
	b.attach(f, src)
	return f
}

func (f *folded[A, S]) react(ts time.Time, changed bool, parent ID) {
	if changed {
		changed = f.g.guard(f, func() error {
			f.value = f.step(f.src.Value(), f.value)
			return nil
		})
	}
	f.broadcast(ts, changed)
}

type merged[T any] struct {
	node[T]
	left, right  Signal[T]
	tieBreak     func(T, T) T
	leftTouched  bool
	rightTouched bool
	leftChanged  bool
	rightChanged bool
}

// Merge forwards whichever side changed. When both change in the same pass
// the result is tieBreak(left, right).
func Merge[T any](b *Builder, tieBreak func(left, right T) T, left, right Signal[T]) Signal[T] {
	m := &merged[T]{
		node:     makeNode[T](b, KindMerge, "", left, right),
		left:     left,
		right:    right,
		tieBreak: tieBreak,
	}
	m.value = tieBreak(left.Value(), right.Value())
	b.attach(m, left, right)
	return m
}

// LeftMerge prefers the left signal when both change.
func LeftMerge[T any](b *Builder, left, right Signal[T]) Signal[T] {
	return Merge(b, func(l, _ T) T { return l }, left, right)
}

// Merges folds Merge over signals from the left.
func Merges[T any](b *Builder, tieBreak func(left, right T) T, signals ...Signal[T]) Signal[T] {
	if len(signals) == 0 {
		panic("signal: merges needs at least one signal")
	}
	acc := signals[0]
	for _, s := range signals[1:] {
		acc = Merge(b, tieBreak, acc, s)
	}
	return acc
}

func (m *merged[T]) react(ts time.Time, changed bool, parent ID) {
	// the left side claims the first reaction when both sides are one node
	if parent == m.left.ID() && !m.leftTouched {
		m.leftTouched = true
		m.leftChanged = changed
	} else {
		m.rightTouched = true
		m.rightChanged = changed
	}
	if !m.leftTouched || !m.rightTouched {
		return
	}

	lc, rc := m.leftChanged, m.rightChanged
	m.leftTouched, m.rightTouched = false, false
	m.leftChanged, m.rightChanged = false, false

	update := lc || rc
	if update {
		update = m.g.guard(m, func() error {
			switch {
			case lc && rc:
				m.value = m.tieBreak(m.left.Value(), m.right.Value())
			case lc:
				m.value = m.left.Value()
			default:
				m.value = m.right.Value()
			}
			return nil
		})
	}
	m.broadcast(ts, update)
}

type filtered[A, B any] struct {
	node[B]
	src      Signal[A]
	toOption func(A) (B, bool)
}

// FilterMap forwards toOption of every changed value that is present. def is
// only the initial value when toOption rejects the initial source value.
func FilterMap[A, B any](b *Builder, toOption func(A) (B, bool), def B, src Signal[A]) Signal[B] {
	f := &filtered[A, B]{
		node:     makeNode[B](b, KindFilterMap, "", src),
		src:      src,
		toOption: toOption,
	}
	f.value = def
	if v, ok := toOption(src.Value()); ok {
		f.value = v
	}
	b.attach(f, src)
	return f
}

func Filter[T any](b *Builder, keep func(T) bool, def T, src Signal[T]) Signal[T] {
	return FilterMap(b, func(v T) (T, bool) {
		return v, keep(v)
	}, def, src)
}

func (f *filtered[A, B]) react(ts time.Time, changed bool, parent ID) {
	update := false
	if changed {
		f.g.guard(f, func() error {
			if v, ok := f.toOption(f.src.Value()); ok {
				f.value = v
				update = true
			}
			return nil
		})
	}
	f.broadcast(ts, update)
}

type sampled[A, T any] struct {
	node[T]
	ticker        Signal[A]
	src           Signal[T]
	count         int
	tickerSeen    bool
	tickerChanged bool
}

// SampleOn takes the current value of src whenever ticker changes.
func SampleOn[A, T any](b *Builder, ticker Signal[A], src Signal[T]) Signal[T] {
	s := &sampled[A, T]{
		node:   makeNode[T](b, KindSampleOn, "", ticker, src),
		ticker: ticker,
		src:    src,
	}
	s.value = src.Value()
	b.attach(s, ticker, src)
	return s
}

func (s *sampled[A, T]) react(ts time.Time, changed bool, parent ID) {
	if parent == s.ticker.ID() && !s.tickerSeen {
		s.tickerSeen = true
		s.tickerChanged = changed
	}
	s.count++
	if s.count < 2 {
		return
	}

	update := s.tickerChanged
	s.count = 0
	s.tickerSeen, s.tickerChanged = false, false
	if update {
		s.value = s.src.Value()
	}
	s.broadcast(ts, update)
}

var structuralOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

func structurallyEqual[T any](a, b T) bool {
	return cmp.Equal(a, b, structuralOptions...)
}

type deduped[T any] struct {
	node[T]
	src   Signal[T]
	equal func(T, T) bool
}

// DropRepeats forwards a change only when the new value is not structurally
// equal to the previous one.
func DropRepeats[T any](b *Builder, src Signal[T]) Signal[T] {
	return DropRepeatsFunc(b, structurallyEqual[T], src)
}

func DropRepeatsFunc[T any](b *Builder, equal func(prev, next T) bool, src Signal[T]) Signal[T] {
	d := &deduped[T]{
		node:  makeNode[T](b, KindDropRepeats, "", src),
		src:   src,
		equal: equal,
	}
	d.value = src.Value()
	b.attach(d, src)
	return d
}

func (d *deduped[T]) react(ts time.Time, changed bool, parent ID) {
	update := false
	if changed {
		next := d.src.Value()
		d.g.guard(d, func() error {
			if !d.equal(d.value, next) {
				d.value = next
				update = true
			}
			return nil
		})
	}
	d.broadcast(ts, update)
}

type Stamped[T any] struct {
	Time  time.Time
	Value T
}

type stamped[T any] struct {
	node[Stamped[T]]
	src Signal[T]
}

// Timestamp pairs every change of src with the timestamp of the pass that
// delivered it.
func Timestamp[T any](b *Builder, src Signal[T]) Signal[Stamped[T]] {
	s := &stamped[T]{
		node: makeNode[Stamped[T]](b, KindTimestamp, "", src),
		src:  src,
	}
	s.value = Stamped[T]{Time: b.g.host.Now(), Value: src.Value()}
	b.attach(s, src)
	return s
}

func (s *stamped[T]) react(ts time.Time, changed bool, parent ID) {
	if changed {
		s.value = Stamped[T]{Time: ts, Value: s.src.Value()}
	}
	s.broadcast(ts, changed)
}
