package signal

import (
	"errors"
	"fmt"
)

var (
	ErrReentrantNotify = errors.New("signal: notify was called synchronously while a propagation was in progress; defer it with the host timer")
	ErrNotSealed       = errors.New("signal: graph is still being built")
	ErrSealed          = errors.New("signal: builder is sealed, nodes can only be created before Seal")
	ErrUnknownInput    = errors.New("signal: no input with this id in the graph")
	ErrValueType       = errors.New("signal: value does not match the input type")
	ErrWrongGoroutine  = errors.New("signal: graph driven from more than one goroutine")
	ErrForeignSignal   = errors.New("signal: parent belongs to another graph")
	ErrDuplicateInput  = errors.New("signal: duplicate input name")
)

// ReactionError records user code that failed inside a node during a
// propagation pass. The node kept its previous value.
type ReactionError struct {
	Node  ID
	Name  string
	Err   error
	Panic any
}

func (e *ReactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signal: node %d (%s): %v", e.Node, e.Name, e.Err)
	}
	return fmt.Sprintf("signal: node %d (%s) panicked: %v", e.Node, e.Name, e.Panic)
}

func (e *ReactionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}
