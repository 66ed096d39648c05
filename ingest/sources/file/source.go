package file

import (
	"context"
	"fmt"

	"github.com/Azure/logfill/ingest/engine"
	"github.com/Azure/logfill/ingest/pipeline"
	"github.com/Azure/logfill/ingest/types"
)

// NewSource builds an ingestion unit that reads cfg.FilePath when the pipeline runs.  No file I/O happens
// here; an invalid cfg is rejected immediately.
func NewSource[T types.Record](name, source string, cfg Config[T]) (*pipeline.Unit, error) {
	if name == "" {
		return nil, &types.ConfigurationError{Field: "name", Reason: "must be set"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("source %s: %w", name, err)
	}

	return &pipeline.Unit{
		Name:   name,
		Source: source,
		Computation: func(ctx context.Context, sub engine.Submitter, plan *engine.Plan) types.Summary {
			return Run(ctx, name, cfg, engine.NewDispatcher(sub, plan))
		},
		Params: cfg,
	}, nil
}
