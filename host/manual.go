package host

import (
	"container/heap"
	"time"
)

// Manual is a deterministic Host driven by hand. Nothing runs until the
// caller advances the clock or runs a frame.
type Manual struct {
	now    time.Time
	seq    uint64
	timers timerHeap
	frames []func(time.Time)
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.seq++
	heap.Push(&m.timers, &timer{due: m.now.Add(d), seq: m.seq, fn: fn})
}

func (m *Manual) RequestFrame(fn func(time.Time)) {
	m.frames = append(m.frames, fn)
}

func (m *Manual) PendingTimers() int {
	return m.timers.Len()
}

func (m *Manual) PendingFrames() int {
	return len(m.frames)
}

// Advance moves the clock forward by d, firing every timer that falls due on
// the way in due order, including timers scheduled by fired callbacks.
func (m *Manual) Advance(d time.Duration) (fired int) {
	target := m.now.Add(d)
	for m.timers.Len() > 0 {
		next := m.timers[0]
		if next.due.After(target) {
			break
		}
		heap.Pop(&m.timers)
		if next.due.After(m.now) {
			m.now = next.due
		}
		next.fn()
		fired++
	}
	m.now = target
	return fired
}

// Flush fires every timer already due without moving the clock.
func (m *Manual) Flush() int {
	return m.Advance(0)
}

// RunFrame runs the frame callbacks requested before the call. Callbacks
// requested while the frame runs wait for the next one.
func (m *Manual) RunFrame() int {
	frames := m.frames
	m.frames = nil
	for _, fn := range frames {
		fn(m.now)
	}
	return len(frames)
}

type timer struct {
	due time.Time
	seq uint64
	fn  func()
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
