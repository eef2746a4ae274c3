package host

import "time"

// Host is everything the reactive core needs from its embedding program: a
// clock, a deferred timer and a "run before next repaint" primitive.
//
// Callbacks handed to After and RequestFrame must never run inline; they run
// on a later turn of the same goroutine that delivers events to the graph.
type Host interface {
	Now() time.Time
	After(d time.Duration, fn func())
	RequestFrame(fn func(frameTime time.Time))
}
