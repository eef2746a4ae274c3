package host

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultFrameInterval = time.Second / 60

// Loop is a single-threaded executor. Callbacks posted from any goroutine are
// run one at a time, in posting order, on the goroutine that calls Run.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}

	frameInterval time.Duration
	frames        []func(time.Time)
	frameArmed    bool

	logger *slog.Logger
}

type LoopOption func(*Loop)

func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:          make(chan struct{}, 1),
		frameInterval: DefaultFrameInterval,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post queues fn to run on the loop goroutine. Safe for concurrent use; this
// is how I/O completions finishing on other goroutines get back onto the loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) After(d time.Duration, fn func()) {
	if d <= 0 {
		l.Post(fn)
		return
	}
	time.AfterFunc(d, func() {
		l.Post(fn)
	})
}

func (l *Loop) RequestFrame(fn func(time.Time)) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	arm := !l.frameArmed
	l.frameArmed = true
	l.mu.Unlock()

	if arm {
		time.AfterFunc(l.frameInterval, func() {
			l.Post(l.runFrame)
		})
	}
}

func (l *Loop) runFrame() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.frameArmed = false
	l.mu.Unlock()

	now := time.Now()
	l.logger.Debug("host frame", "callbacks", len(frames))
	for _, fn := range frames {
		fn(now)
	}
}

// Run executes posted callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			if err := l.drain(ctx); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) drain(ctx context.Context) error {
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return nil
		}
		for _, fn := range batch {
			fn()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
