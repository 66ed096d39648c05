package engine

import (
	"context"

	"github.com/Azure/logfill/ingest/types"
)

// Dispatcher submits each batch to a Submitter as one order that applies the shared plan.
type Dispatcher struct {
	sub  Submitter
	plan *Plan
}

func NewDispatcher(sub Submitter, plan *Plan) *Dispatcher {
	return &Dispatcher{sub: sub, plan: plan}
}

// Dispatch hands batch to the engine and returns without waiting for it to be processed.  On success
// the engine owns batch.  On failure the batch is dropped and a *types.DispatchError is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, batch *types.Batch) error {
	plan := d.plan
	err := d.sub.Submit(ctx, func(ctx context.Context) {
		plan.Apply(ctx, batch)
	})
	if err != nil {
		return &types.DispatchError{
			Source:  batch.Source,
			Seq:     batch.Seq,
			Records: batch.Len(),
			Err:     err,
		}
	}
	return nil
}
