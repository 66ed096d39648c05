package sinks

import (
	"context"

	"github.com/Azure/logfill/ingest/types"
)

// FuncSink hands every batch to fn as records of a single concrete type.
type FuncSink[T types.Record] struct {
	name string
	fn   func(context.Context, []T) error
}

func NewFuncSink[T types.Record](name string, fn func(context.Context, []T) error) *FuncSink[T] {
	return &FuncSink[T]{name: name, fn: fn}
}

func (s *FuncSink[T]) Open(ctx context.Context) error {
	return nil
}

func (s *FuncSink[T]) Send(ctx context.Context, batch *types.Batch) error {
	records, err := types.Records[T](batch)
	if err != nil {
		return err
	}
	return s.fn(ctx, records)
}

func (s *FuncSink[T]) Close() error {
	return nil
}

func (s *FuncSink[T]) Name() string {
	return s.name
}
