// Package dedupe drops records whose text repeats an earlier record in the same batch.
package dedupe

import (
	"context"
	"slices"

	"github.com/Azure/logfill/ingest/types"
	"github.com/cespare/xxhash/v2"
)

type Transform struct {
	hash func(string) uint64
}

func NewTransform() *Transform {
	return &Transform{hash: xxhash.Sum64String}
}

func FromConfigMap(config map[string]any) (types.Transformer, error) {
	return NewTransform(), nil
}

func (t *Transform) Open(ctx context.Context) error {
	return nil
}

// Transform keeps the first occurrence of each record, comparing records by their text.
func (t *Transform) Transform(ctx context.Context, batch *types.Batch) (*types.Batch, error) {
	seen := make(map[uint64][]string, batch.Len())
	kept := batch.Records[:0]
	for _, r := range batch.Records {
		text := r.String()
		h := t.hash(text)
		if slices.Contains(seen[h], text) {
			continue
		}
		seen[h] = append(seen[h], text)
		kept = append(kept, r)
	}
	clear(batch.Records[len(kept):])
	batch.Records = kept
	return batch, nil
}

func (t *Transform) Close() error {
	return nil
}

func (t *Transform) Name() string {
	return "DedupeTransform"
}
