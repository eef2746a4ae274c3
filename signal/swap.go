package signal

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the names and types of the named inputs in registration
// order. Two graphs with the same fingerprint accept the same events.
func (g *Graph) Fingerprint() uint64 {
	d := xxhash.New()
	for _, r := range g.roots {
		if !r.user() {
			continue
		}
		d.WriteString(r.info().Name)
		d.WriteString("\x00")
		d.WriteString(r.typeName())
		d.WriteString("\x00")
	}
	return d.Sum64()
}

// Adopt carries the state of a replaced program over: every named input of g
// that exists in old with the same type is sent old's current value through
// Notify. It returns how many inputs were replayed.
func (g *Graph) Adopt(old *Graph) (int, error) {
	if old == nil {
		return 0, nil
	}
	var errs []error
	replayed := 0
	for _, r := range g.roots {
		if !r.user() {
			continue
		}
		name := r.info().Name
		prev, ok := old.inputs[name]
		if !ok || prev.typeName() != r.typeName() {
			continue
		}
		_, err := g.Notify(r.ID(), prev.current())
		var re *ReactionError
		if err == nil || errors.As(err, &re) {
			replayed++
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("adopt %q: %w", name, err))
		}
	}
	return replayed, errors.Join(errs...)
}
