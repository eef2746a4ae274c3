package signal

import (
	"sync/atomic"
	"time"
)

// ID identifies a node. IDs are unique within the process and increase
// monotonically in construction order.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

type Kind string

const (
	KindInput       Kind = "input"
	KindConstant    Kind = "constant"
	KindMap         Kind = "map"
	KindFoldp       Kind = "foldp"
	KindMerge       Kind = "merge"
	KindFilterMap   Kind = "filterMap"
	KindSampleOn    Kind = "sampleOn"
	KindDropRepeats Kind = "dropRepeats"
	KindTimestamp   Kind = "timestamp"
	KindDelay       Kind = "delay"
	KindOutput      Kind = "output"
)

// Signal is a node of the dataflow graph holding the last value it observed.
// Values may only be read on the goroutine that drives the graph.
type Signal[T any] interface {
	upstream
	Name() string
	Value() T
}

// upstream is the untyped view of a node that other nodes can depend on.
type upstream interface {
	vertex
	addKid(kid reactor)
}

type vertex interface {
	ID() ID
	info() NodeInfo
}

// reactor is a node with parents. react is called once per parent per
// propagation pass, whether or not that parent changed.
type reactor interface {
	vertex
	react(ts time.Time, changed bool, parent ID)
}

type NodeInfo struct {
	ID      ID
	Name    string
	Kind    Kind
	Parents []ID
	Kids    []ID
}

type node[T any] struct {
	id      ID
	name    string
	kind    Kind
	g       *Graph
	value   T
	parents []ID
	kids    []reactor
}

func (n *node[T]) ID() ID       { return n.id }
func (n *node[T]) Name() string { return n.name }
func (n *node[T]) Value() T     { return n.value }

func (n *node[T]) addKid(kid reactor) {
	n.kids = append(n.kids, kid)
}

func (n *node[T]) broadcast(ts time.Time, changed bool) {
	for _, kid := range n.kids {
		kid.react(ts, changed, n.id)
	}
}

func (n *node[T]) info() NodeInfo {
	kids := make([]ID, len(n.kids))
	for i, k := range n.kids {
		kids[i] = k.ID()
	}
	return NodeInfo{
		ID:      n.id,
		Name:    n.name,
		Kind:    n.kind,
		Parents: append([]ID(nil), n.parents...),
		Kids:    kids,
	}
}
