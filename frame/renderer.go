package frame

import (
	"log/slog"
	"time"

	"github.com/delaneyj/signalflow/signal"
)

// Renderer draws the latest value of a signal at most once per frame, no
// matter how many times the signal changed in between.
type Renderer[T any] struct {
	batcher *Batcher
	latest  T
	draw    func(T) error
	drawn   int
	lastErr error
}

// Render wires src to draw through a frame batcher. The initial value is
// drawn on the first frame.
func Render[T any](b *signal.Builder, src signal.Signal[T], draw func(T) error, opts ...Option) *Renderer[T] {
	r := &Renderer[T]{draw: draw, latest: src.Value()}
	opts = append([]Option{WithName("render")}, opts...)
	r.batcher = NewBatcher(b.Host(), r.drawLatest, opts...)
	signal.Output(b, "render", func(v T) error {
		r.latest = v
		r.batcher.Request()
		return nil
	}, src)
	r.batcher.Request()
	return r
}

func (r *Renderer[T]) drawLatest(time.Time) {
	r.drawn++
	if err := r.draw(r.latest); err != nil {
		r.lastErr = err
		slog.Error("frame draw failed", "batcher", r.batcher.name, "err", err)
	}
}

// Drawn counts the frames that performed a draw.
func (r *Renderer[T]) Drawn() int { return r.drawn }

func (r *Renderer[T]) LastError() error { return r.lastErr }

func (r *Renderer[T]) Batcher() *Batcher { return r.batcher }
