package signal_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/delaneyj/signalflow/host"
	"github.com/delaneyj/signalflow/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newBuilder(t *testing.T) (*signal.Builder, *host.Manual) {
	t.Helper()
	m := host.NewManual(epoch)
	return signal.NewBuilder(m, signal.WithErrorHandler(func(err error) {
		assert.FailNow(t, err.Error())
	})), m
}

func collect[T any](b *signal.Builder, src signal.Signal[T]) *[]T {
	seen := &[]T{}
	signal.Output(b, "", func(v T) error {
		*seen = append(*seen, v)
		return nil
	}, src)
	return seen
}

func double(v int) int { return v * 2 }

func TestBasicUsage(t *testing.T) {
	b, _ := newBuilder(t)
	count := signal.Input(b, "count", 1)
	doubled := signal.Map(b, double, count)
	seen := collect(b, doubled)
	b.Seal()

	assert.Equal(t, 2, doubled.Value())
	changed, err := count.Send(2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 4, doubled.Value())
	assert.Equal(t, []int{4}, *seen)
}

func TestShouldOnlyUpdateEverySignalOnceDiamond(t *testing.T) {
	// In this scenario "D" should only update once when "A" receives
	// an update, and never see a mix of old and new values.
	//     A
	//   /   \
	//  B     C
	//   \   /
	//     D
	b, _ := newBuilder(t)
	a := signal.Input(b, "a", "a")
	bb := signal.Map(b, func(v string) string { return v }, a)
	c := signal.Map(b, func(v string) string { return v }, a)

	callCount := 0
	var mixed []string
	d := signal.Map2(b, func(x, y string) string {
		callCount++
		if x != y {
			mixed = append(mixed, x+"/"+y)
		}
		return x + " " + y
	}, bb, c)
	b.Seal()

	assert.Equal(t, "a a", d.Value())
	callCount = 0

	_, err := a.Send("aa")
	require.NoError(t, err)
	assert.Equal(t, "aa aa", d.Value())
	assert.Equal(t, 1, callCount)
	assert.Empty(t, mixed)
}

func TestMapUsesConsistentSnapshotOfIndependentRoots(t *testing.T) {
	//  a   b   x
	//   \ /
	//    c
	b, _ := newBuilder(t)
	a := signal.Input(b, "a", 1)
	bIn := signal.Input(b, "b", 10)
	x := signal.Input(b, "x", 0)

	callCount := 0
	c := signal.Map2(b, func(l, r int) int {
		callCount++
		return l + r
	}, a, bIn)
	seen := collect(b, c)
	b.Seal()
	callCount = 0

	_, err := a.Send(2)
	require.NoError(t, err)
	_, err = bIn.Send(20)
	require.NoError(t, err)
	_, err = x.Send(5)
	require.NoError(t, err)

	assert.Equal(t, 2, callCount)
	assert.Equal(t, []int{12, 22}, *seen)
}

func TestMapNAndConstant(t *testing.T) {
	b, _ := newBuilder(t)
	a := signal.Input(b, "a", 1)
	two := signal.Constant(b, 2)
	three := signal.Constant(b, 3)
	sum := signal.MapN(b, func(vs []int) int {
		total := 0
		for _, v := range vs {
			total += v
		}
		return total
	}, a, two, three)
	b.Seal()

	assert.Equal(t, 6, sum.Value())
	_, err := a.Send(10)
	require.NoError(t, err)
	assert.Equal(t, 15, sum.Value())
}

func TestMergeSides(t *testing.T) {
	b, _ := newBuilder(t)
	left := signal.Input(b, "left", 0)
	right := signal.Input(b, "right", 0)
	sum := func(l, r int) int { return l + r }
	merged := signal.Merge(b, sum, left, right)

	//      n
	//    /   \
	//  id    x10
	//    \   /
	//    merge
	n := signal.Input(b, "n", 0)
	id := signal.Map(b, func(v int) int { return v }, n)
	tens := signal.Map(b, func(v int) int { return v * 10 }, n)
	both := signal.Merge(b, sum, id, tens)
	bothSeen := collect(b, both)
	b.Seal()

	_, err := left.Send(1)
	require.NoError(t, err)
	assert.Equal(t, 1, merged.Value())

	_, err = right.Send(5)
	require.NoError(t, err)
	assert.Equal(t, 5, merged.Value())

	_, err = n.Send(2)
	require.NoError(t, err)
	assert.Equal(t, 22, both.Value())
	assert.Equal(t, []int{22}, *bothSeen)
}

func TestMergeOfOneSignalWithItself(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", 0)
	merged := signal.LeftMerge(b, in, in)
	seen := collect(b, merged)
	b.Seal()

	_, err := in.Send(3)
	require.NoError(t, err)
	_, err = in.Send(4)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, *seen)
}

func TestMerges(t *testing.T) {
	b, _ := newBuilder(t)
	a := signal.Input(b, "a", "")
	bb := signal.Input(b, "b", "")
	c := signal.Input(b, "c", "")
	latest := signal.Merges(b, func(l, _ string) string { return l }, a, bb, c)
	b.Seal()

	_, err := c.Send("c")
	require.NoError(t, err)
	assert.Equal(t, "c", latest.Value())
	_, err = a.Send("a")
	require.NoError(t, err)
	assert.Equal(t, "a", latest.Value())
}

func TestDropRepeats(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", 0)
	seen := collect(b, signal.DropRepeats(b, in))
	b.Seal()

	for _, v := range []int{1, 1, 2, 2, 2, 3} {
		_, err := in.Send(v)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3}, *seen)
}

type point struct {
	x, y int
	tags []string
}

func TestDropRepeatsIsStructural(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", point{})
	seen := collect(b, signal.DropRepeats(b, in))
	b.Seal()

	for _, p := range []point{
		{x: 1, tags: []string{"a"}},
		{x: 1, tags: []string{"a"}},
		{x: 1, tags: []string{"a", "b"}},
	} {
		_, err := in.Send(p)
		require.NoError(t, err)
	}
	assert.Len(t, *seen, 2)
}

func TestFoldp(t *testing.T) {
	b, _ := newBuilder(t)
	clicks := signal.Input(b, "clicks", struct{}{})
	other := signal.Input(b, "other", 0)
	count := signal.Foldp(b, func(_ struct{}, n int) int { return n + 1 }, 0, clicks)
	b.Seal()

	for i := 0; i < 3; i++ {
		_, err := clicks.Send(struct{}{})
		require.NoError(t, err)
	}
	_, err := other.Send(1)
	require.NoError(t, err)
	assert.Equal(t, 3, count.Value())
}

func TestFilterMap(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", "x")
	parsed := signal.FilterMap(b, func(s string) (int, bool) {
		var n int
		_, err := fmt.Sscanf(s, "%d", &n)
		return n, err == nil
	}, -1, in)
	evens := signal.Filter(b, func(v int) bool { return v%2 == 0 }, 0, parsed)
	seen := collect(b, parsed)
	b.Seal()

	assert.Equal(t, -1, parsed.Value())
	for _, s := range []string{"4", "nope", "7"} {
		_, err := in.Send(s)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{4, 7}, *seen)
	assert.Equal(t, 7, parsed.Value())
	assert.Equal(t, 4, evens.Value())
}

func TestSampleOn(t *testing.T) {
	b, _ := newBuilder(t)
	tick := signal.Input(b, "tick", 0)
	pos := signal.Input(b, "pos", 0)
	sampled := signal.SampleOn(b, tick, pos)
	seen := collect(b, sampled)
	b.Seal()

	_, err := pos.Send(5)
	require.NoError(t, err)
	assert.Equal(t, 0, sampled.Value())

	_, err = tick.Send(1)
	require.NoError(t, err)
	assert.Equal(t, 5, sampled.Value())
	assert.Equal(t, []int{5}, *seen)
}

func TestSampleOnItself(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", 0)
	seen := collect(b, signal.SampleOn(b, in, in))
	b.Seal()

	_, err := in.Send(9)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, *seen)
}

func TestTimestamp(t *testing.T) {
	b, m := newBuilder(t)
	in := signal.Input(b, "in", 0)
	stamped := signal.Timestamp(b, in)
	b.Seal()

	m.Advance(5 * time.Second)
	_, err := in.Send(3)
	require.NoError(t, err)
	assert.Equal(t, signal.Stamped[int]{Time: epoch.Add(5 * time.Second), Value: 3}, stamped.Value())
}

func TestDelayReentersThroughNotify(t *testing.T) {
	b, m := newBuilder(t)
	in := signal.Input(b, "in", 0)
	delayed := signal.Delay(b, 100*time.Millisecond, in)
	seen := collect(b, delayed)
	b.Seal()

	_, err := in.Send(1)
	require.NoError(t, err)
	_, err = in.Send(2)
	require.NoError(t, err)
	assert.Empty(t, *seen)
	assert.Equal(t, 0, delayed.Value())

	m.Advance(99 * time.Millisecond)
	assert.Empty(t, *seen)
	m.Advance(time.Millisecond)
	assert.Equal(t, []int{1, 2}, *seen)
}

func TestNotifyFromOutputIsRejected(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", 0)
	var inner error
	signal.Output(b, "echo", func(v int) error {
		_, inner = in.Send(v + 1)
		return nil
	}, in)
	g := b.Seal()

	changed, err := in.Send(1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.ErrorIs(t, inner, signal.ErrReentrantNotify)
	assert.Equal(t, 1, in.Value())
	assert.False(t, g.Busy())

	_, err = in.Send(2)
	require.NoError(t, err)
	assert.Equal(t, 2, in.Value())
}

func TestReactionPanicIsIsolated(t *testing.T) {
	//  a      b
	//  |      |
	// boom    |
	//    \   /
	//     sum
	b, _ := newBuilder(t)
	a := signal.Input(b, "a", 0)
	bIn := signal.Input(b, "b", 0)
	boom := signal.Map(b, func(v int) int {
		if v == 13 {
			panic("unlucky")
		}
		return v
	}, a)
	callCount := 0
	sum := signal.Map2(b, func(x, y int) int {
		callCount++
		return x + y
	}, boom, bIn)
	g := b.Seal()
	callCount = 0

	changed, err := a.Send(13)
	assert.True(t, changed)
	var re *signal.ReactionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, boom.ID(), re.Node)
	assert.Equal(t, "unlucky", re.Panic)
	assert.Equal(t, 0, boom.Value())
	assert.Equal(t, 0, callCount)
	assert.False(t, g.Busy())

	_, err = bIn.Send(5)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Value())

	_, err = a.Send(1)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Value())
	assert.Equal(t, 2, callCount)
}

func TestOutputErrorIsReturned(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", 0)
	errBad := errors.New("bad value")
	signal.Output(b, "check", func(v int) error {
		if v < 0 {
			return errBad
		}
		return nil
	}, in)
	b.Seal()

	_, err := in.Send(-1)
	assert.ErrorIs(t, err, errBad)
	_, err = in.Send(1)
	assert.NoError(t, err)
}

func TestLifecycleErrors(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", 0)

	_, err := in.Send(1)
	assert.ErrorIs(t, err, signal.ErrNotSealed)

	assert.Panics(t, func() { signal.Input(b, "in", 0) })

	other, _ := newBuilder(t)
	foreign := signal.Input(other, "foreign", 0)
	assert.Panics(t, func() { signal.Map(b, double, foreign) })

	g := b.Seal()
	assert.PanicsWithValue(t, signal.ErrSealed, func() { signal.Input(b, "late", 0) })
	assert.PanicsWithValue(t, signal.ErrSealed, func() { b.Seal() })

	_, err = g.Notify(in.ID(), "not an int")
	assert.ErrorIs(t, err, signal.ErrValueType)

	_, err = g.Notify(foreign.ID(), 1)
	assert.ErrorIs(t, err, signal.ErrUnknownInput)
}

func TestNilIntoInterfaceInput(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input[error](b, "err", errors.New("initial"))
	g := b.Seal()

	changed, err := g.Notify(in.ID(), nil)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, in.Value())
}

func TestGraphIsBoundToOneGoroutine(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", 0)
	b.Seal()

	_, err := in.Send(1)
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		_, err := in.Send(2)
		done <- err
	}()
	assert.ErrorIs(t, <-done, signal.ErrWrongGoroutine)
	assert.Equal(t, 1, in.Value())
}

func TestNodes(t *testing.T) {
	b, _ := newBuilder(t)
	in := signal.Input(b, "in", 0)
	doubled := signal.Map(b, double, in)
	signal.Output(b, "out", func(int) error { return nil }, doubled)
	g := b.Seal()

	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, signal.KindInput, nodes[0].Kind)
	assert.Equal(t, []signal.ID{doubled.ID()}, nodes[0].Kids)
	assert.Equal(t, signal.KindMap, nodes[1].Kind)
	assert.Equal(t, []signal.ID{in.ID()}, nodes[1].Parents)
	assert.Equal(t, signal.KindOutput, nodes[2].Kind)
	assert.Equal(t, "out", nodes[2].Name)
	assert.Equal(t, []signal.ID{in.ID()}, g.Roots())
	assert.Less(t, uint64(in.ID()), uint64(doubled.ID()))
}

func TestFingerprintAndAdopt(t *testing.T) {
	build := func(nameIsInt bool) (*signal.Graph, *signal.Source[int], signal.Signal[int]) {
		b, _ := newBuilder(t)
		count := signal.Input(b, "count", 0)
		if nameIsInt {
			signal.Input(b, "name", 0)
		} else {
			signal.Input(b, "name", "")
		}
		doubled := signal.Map(b, double, count)
		signal.Delay(b, time.Second, count)
		return b.Seal(), count, doubled
	}

	old, oldCount, _ := build(false)
	same, _, _ := build(false)
	next, _, doubled := build(true)
	assert.Equal(t, old.Fingerprint(), same.Fingerprint())
	assert.NotEqual(t, old.Fingerprint(), next.Fingerprint())

	_, err := oldCount.Send(7)
	require.NoError(t, err)

	replayed, err := next.Adopt(old)
	require.NoError(t, err)
	assert.Equal(t, 1, replayed)
	assert.Equal(t, 14, doubled.Value())
}
