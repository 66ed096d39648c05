package filter

import (
	"context"
	"testing"

	"github.com/Azure/logfill/ingest/types"
	"github.com/stretchr/testify/require"
)

type text string

func (t text) String() string { return string(t) }

func batchOf(texts ...string) *types.Batch {
	b := types.NewBatch("src", 0, len(texts))
	for _, t := range texts {
		b.Append(text(t))
	}
	return b
}

func TestFilterTransform(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		input    []string
		expected []types.Record
	}{
		{
			name:     "include",
			config:   Config{Include: "^ERROR"},
			input:    []string{"ERROR a", "INFO b", "ERROR c"},
			expected: []types.Record{text("ERROR a"), text("ERROR c")},
		},
		{
			name:     "exclude",
			config:   Config{Exclude: "healthz"},
			input:    []string{"GET /healthz", "GET /api"},
			expected: []types.Record{text("GET /api")},
		},
		{
			name:     "include then exclude",
			config:   Config{Include: "^ERROR", Exclude: "ignored"},
			input:    []string{"ERROR a", "ERROR ignored", "INFO b"},
			expected: []types.Record{text("ERROR a")},
		},
		{
			name:     "nothing kept",
			config:   Config{Include: "^nope$"},
			input:    []string{"a", "b"},
			expected: []types.Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransform(tt.config)
			require.NoError(t, err)

			got, err := tr.Transform(context.Background(), batchOf(tt.input...))
			require.NoError(t, err)
			require.Equal(t, tt.expected, got.Records)
		})
	}
}

func TestFromConfigMap(t *testing.T) {
	tr, err := FromConfigMap(map[string]any{"include": "a", "exclude": "b"})
	require.NoError(t, err)
	require.Equal(t, "FilterTransform", tr.Name())

	_, err = FromConfigMap(map[string]any{"include": "["})
	require.Error(t, err)
}
