package dedupe

import (
	"context"
	"testing"

	"github.com/Azure/logfill/ingest/types"
	"github.com/stretchr/testify/require"
)

type text string

func (t text) String() string { return string(t) }

func TestDedupeTransform(t *testing.T) {
	b := types.NewBatch("src", 0, 5)
	for _, s := range []string{"a", "b", "a", "c", "b"} {
		b.Append(text(s))
	}

	got, err := NewTransform().Transform(context.Background(), b)
	require.NoError(t, err)
	require.Equal(t, []types.Record{text("a"), text("b"), text("c")}, got.Records)

	// Only repeats within a batch are dropped.
	next := types.NewBatch("src", 1, 1)
	next.Append(text("a"))
	got, err = NewTransform().Transform(context.Background(), next)
	require.NoError(t, err)
	require.Equal(t, []types.Record{text("a")}, got.Records)
}

func TestDedupeTransform_HashCollision(t *testing.T) {
	tr := NewTransform()
	tr.hash = func(string) uint64 { return 42 }

	b := types.NewBatch("src", 0, 4)
	for _, s := range []string{"a", "b", "a", "c"} {
		b.Append(text(s))
	}

	got, err := tr.Transform(context.Background(), b)
	require.NoError(t, err)
	require.Equal(t, []types.Record{text("a"), text("b"), text("c")}, got.Records)
}
