package transforms

import (
	"context"

	"github.com/Azure/logfill/ingest/types"
)

// Func is a transform stage over records of a single concrete type.  A batch holding any other record
// type fails with types.ErrRecordTypeMismatch and is dropped by the plan.
type Func[T types.Record] struct {
	name string
	fn   func(context.Context, []T) ([]T, error)
}

func NewFunc[T types.Record](name string, fn func(context.Context, []T) ([]T, error)) *Func[T] {
	return &Func[T]{name: name, fn: fn}
}

func (f *Func[T]) Open(ctx context.Context) error {
	return nil
}

func (f *Func[T]) Transform(ctx context.Context, batch *types.Batch) (*types.Batch, error) {
	in, err := types.Records[T](batch)
	if err != nil {
		return nil, err
	}

	out, err := f.fn(ctx, in)
	if err != nil {
		return nil, err
	}

	records := make([]types.Record, len(out))
	for i, r := range out {
		records[i] = r
	}
	batch.Records = records
	return batch, nil
}

func (f *Func[T]) Close() error {
	return nil
}

func (f *Func[T]) Name() string {
	return f.name
}
