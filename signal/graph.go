package signal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/signalflow/host"
	"github.com/delaneyj/signalflow/metrics"
	"github.com/petermattis/goid"
)

// OnErrorFunc receives failures that happen outside of a Notify call, such as
// a delayed value that could not be delivered or a queued task that failed.
type OnErrorFunc func(err error)

type Option func(*Graph)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithErrorHandler(onError OnErrorFunc) Option {
	return func(g *Graph) {
		g.onError = onError
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Graph) {
		g.metrics = m
	}
}

// Graph owns the root inputs of one reactive program and is the only way
// events enter it. A Graph is produced by sealing a Builder; its topology
// never changes afterwards.
type Graph struct {
	host    host.Host
	logger  *slog.Logger
	onError OnErrorFunc
	metrics *metrics.Metrics

	roots     []root
	rootsByID map[ID]root
	inputs    map[string]root
	nodes     []vertex
	members   mapset.Set[ID]

	sealed bool
	onSeal []func()

	inProgress bool
	owner      int64
	passErrs   []error
}

// Builder wires nodes together. Every node constructor takes the builder,
// and kid lists are only ever appended to before Seal.
type Builder struct {
	g *Graph
}

func NewBuilder(h host.Host, opts ...Option) *Builder {
	if h == nil {
		panic("signal: nil host")
	}
	g := &Graph{
		host:      h,
		logger:    slog.Default(),
		rootsByID: map[ID]root{},
		inputs:    map[string]root{},
		members:   mapset.NewThreadUnsafeSet[ID](),
	}
	for _, opt := range opts {
		opt(g)
	}
	return &Builder{g: g}
}

func (b *Builder) Host() host.Host {
	return b.g.host
}

// Seal ends the build phase and starts anything that was waiting for the
// graph to be complete, such as the initial task of a task queue.
func (b *Builder) Seal() *Graph {
	b.mustBuild()
	g := b.g
	g.sealed = true
	hooks := g.onSeal
	g.onSeal = nil
	for _, hook := range hooks {
		hook()
	}
	g.logger.Debug("signal graph sealed", "nodes", len(g.nodes), "roots", len(g.roots))
	return g
}

func (b *Builder) mustBuild() {
	if b.g.sealed {
		panic(ErrSealed)
	}
}

func (b *Builder) whenSealed(fn func()) {
	b.g.onSeal = append(b.g.onSeal, fn)
}

// makeNode validates the parents and allocates the identity of a new node.
func makeNode[T any](b *Builder, kind Kind, name string, parents ...upstream) node[T] {
	b.mustBuild()
	ids := make([]ID, len(parents))
	for i, p := range parents {
		if !b.g.members.Contains(p.ID()) {
			panic(fmt.Errorf("%w: node %d", ErrForeignSignal, p.ID()))
		}
		ids[i] = p.ID()
	}
	id := nextID()
	if name == "" {
		name = fmt.Sprintf("%s-%d", kind, id)
	}
	return node[T]{id: id, name: name, kind: kind, g: b.g, parents: ids}
}

func (b *Builder) attach(kid reactor, parents ...upstream) {
	for _, p := range parents {
		p.addKid(kid)
	}
	b.add(kid)
}

func (b *Builder) add(v vertex) {
	b.g.nodes = append(b.g.nodes, v)
	b.g.members.Add(v.ID())
}

func (b *Builder) addRoot(r root) {
	b.add(r)
	b.g.roots = append(b.g.roots, r)
	b.g.rootsByID[r.ID()] = r
}

// Notify delivers one external event to the whole graph: every root reacts,
// in registration order, and only the root with the target id takes value.
// It reports whether the target changed and returns the errors raised by
// node reactions during the pass.
func (g *Graph) Notify(target ID, value any) (changed bool, err error) {
	if !g.sealed {
		return false, ErrNotSealed
	}
	if gid := goid.Get(); g.owner == 0 {
		g.owner = gid
	} else if g.owner != gid {
		return false, fmt.Errorf("%w: called from goroutine %d, graph runs on %d", ErrWrongGoroutine, gid, g.owner)
	}
	if g.inProgress {
		return false, fmt.Errorf("%w: target %d", ErrReentrantNotify, target)
	}
	r, ok := g.rootsByID[target]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownInput, target)
	}
	if err := r.accepts(value); err != nil {
		return false, err
	}

	g.inProgress = true
	defer func() {
		g.inProgress = false
		g.passErrs = nil
	}()

	start := time.Now()
	ts := g.host.Now()
	for _, r := range g.roots {
		if r.notify(ts, target, value) {
			changed = true
		}
	}
	g.metrics.ObservePropagation(time.Since(start), changed)

	return changed, errors.Join(g.passErrs...)
}

// guard runs user code for a node, recording a panic or returned error as a
// ReactionError instead of unwinding the pass.
func (g *Graph) guard(n vertex, fn func() error) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			g.fail(n, nil, v)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		g.fail(n, err, nil)
		return false
	}
	return true
}

func (g *Graph) fail(n vertex, err error, panicked any) {
	info := n.info()
	g.passErrs = append(g.passErrs, &ReactionError{Node: info.ID, Name: info.Name, Err: err, Panic: panicked})
	g.metrics.ReactionFailed()
}

func (g *Graph) report(err error) {
	if err == nil {
		return
	}
	if g.onError != nil {
		g.onError(err)
		return
	}
	g.logger.Error("signal graph error", "err", err)
}

func (g *Graph) Host() host.Host {
	return g.host
}

// Nodes lists every node in construction order.
func (g *Graph) Nodes() []NodeInfo {
	out := make([]NodeInfo, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.info()
	}
	return out
}

// Roots lists the root inputs in the order they react to every event.
func (g *Graph) Roots() []ID {
	out := make([]ID, len(g.roots))
	for i, r := range g.roots {
		out[i] = r.ID()
	}
	return out
}

// Busy reports whether a propagation pass is running.
func (g *Graph) Busy() bool {
	return g.inProgress
}
