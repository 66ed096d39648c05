package types

import "context"

// Transformer is a stage of the processing plan that rewrites a Batch.  Transform is potentially called by
// multiple goroutines concurrently.
type Transformer interface {
	Open(context.Context) error
	Transform(context.Context, *Batch) (*Batch, error)
	Close() error
	Name() string
}

// Sink is the terminal stage of the processing plan.  Send is potentially called by multiple goroutines concurrently.
type Sink interface {
	Open(context.Context) error
	Send(context.Context, *Batch) error
	Close() error
	Name() string
}

// Dispatcher hands a completed batch to the processing engine.  Dispatch must not wait for the batch
// to be processed.
type Dispatcher interface {
	Dispatch(context.Context, *Batch) error
}
