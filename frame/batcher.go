package frame

import (
	"fmt"
	"time"

	"github.com/delaneyj/signalflow/metrics"
)

// Requester is the host's "run before next repaint" primitive.
type Requester interface {
	RequestFrame(fn func(frameTime time.Time))
}

type State uint8

const (
	NoRequest State = iota
	PendingRequest
	ExtraRequest
)

func (s State) String() string {
	switch s {
	case NoRequest:
		return "no-request"
	case PendingRequest:
		return "pending-request"
	case ExtraRequest:
		return "extra-request"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

type Option func(*Batcher)

func WithName(name string) Option {
	return func(b *Batcher) {
		b.name = name
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Batcher) {
		b.metrics = m
	}
}

// Batcher coalesces any number of requests into one unit of work per frame.
// At most one frame callback is ever outstanding: none in NoRequest, exactly
// one in PendingRequest and ExtraRequest.
//
// After doing the work it asks for one more frame in case new requests arrive
// while the work runs. If none do, that extra frame just returns to
// NoRequest.
type Batcher struct {
	requester Requester
	work      func(time.Time)
	state     State
	scheduled int

	name    string
	metrics *metrics.Metrics
}

func NewBatcher(r Requester, work func(frameTime time.Time), opts ...Option) *Batcher {
	b := &Batcher{requester: r, work: work, name: "frame"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Batcher) Request() {
	switch b.state {
	case NoRequest:
		b.schedule()
		b.state = PendingRequest
	case PendingRequest:
	case ExtraRequest:
		b.state = PendingRequest
	}
}

func (b *Batcher) State() State {
	return b.state
}

// Scheduled is the number of frame callbacks requested and not yet run.
func (b *Batcher) Scheduled() int {
	return b.scheduled
}

func (b *Batcher) schedule() {
	b.scheduled++
	b.requester.RequestFrame(b.onFrame)
}

func (b *Batcher) onFrame(frameTime time.Time) {
	b.scheduled--
	switch b.state {
	case NoRequest:
		panic("frame: unexpected frame callback")
	case PendingRequest:
		b.schedule()
		b.state = ExtraRequest
		b.metrics.FrameHandled(b.name, true)
		b.work(frameTime)
	case ExtraRequest:
		b.state = NoRequest
		b.metrics.FrameHandled(b.name, false)
	}
}
