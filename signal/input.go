package signal

import (
	"fmt"
	"reflect"
	"time"
)

// root is a node with no parents, fed only through Graph.Notify.
type root interface {
	vertex
	notify(ts time.Time, target ID, value any) bool
	accepts(value any) error
	current() any
	typeName() string
	user() bool
}

// Source is a root input. Its value only changes when an event addressed to
// its id is delivered.
type Source[T any] struct {
	node[T]
	typ      reflect.Type
	internal bool
}

// Input registers a named root input. Names identify inputs across graphs,
// see Graph.Adopt.
func Input[T any](b *Builder, name string, initial T) *Source[T] {
	if name == "" {
		panic("signal: input needs a name")
	}
	if _, ok := b.g.inputs[name]; ok {
		panic(fmt.Errorf("%w: %q", ErrDuplicateInput, name))
	}
	s := newSource(b, KindInput, name, initial, false)
	b.g.inputs[name] = s
	return s
}

// Constant is a root that is never addressed. It still reacts to every event
// so nodes depending on it see one reaction per pass.
func Constant[T any](b *Builder, value T) Signal[T] {
	return newSource(b, KindConstant, "", value, true)
}

func newSource[T any](b *Builder, kind Kind, name string, initial T, internal bool) *Source[T] {
	s := &Source[T]{
		node:     makeNode[T](b, kind, name),
		typ:      reflect.TypeOf((*T)(nil)).Elem(),
		internal: internal,
	}
	s.value = initial
	b.addRoot(s)
	return s
}

// Send delivers v to this input. See Graph.Notify.
func (s *Source[T]) Send(v T) (bool, error) {
	return s.g.Notify(s.id, v)
}

func (s *Source[T]) notify(ts time.Time, target ID, value any) bool {
	changed := target == s.id
	if changed {
		s.value, _ = assign[T](value)
	}
	s.broadcast(ts, changed)
	return changed
}

func (s *Source[T]) accepts(value any) error {
	if _, ok := assign[T](value); !ok {
		return fmt.Errorf("%w: input %q wants %s, got %T", ErrValueType, s.name, s.typ, value)
	}
	return nil
}

func (s *Source[T]) current() any     { return s.value }
func (s *Source[T]) typeName() string { return s.typ.String() }
func (s *Source[T]) user() bool       { return !s.internal }

// assign converts an event value to T, letting nil through for interface
// types.
func assign[T any](value any) (T, bool) {
	if v, ok := value.(T); ok {
		return v, true
	}
	var zero T
	if value == nil && reflect.TypeOf((*T)(nil)).Elem().Kind() == reflect.Interface {
		return zero, true
	}
	return zero, false
}
