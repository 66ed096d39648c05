package file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Azure/logfill/ingest/types"
	gzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type word string

func (w word) String() string { return string(w) }

func parseWord(line string) (word, error) {
	if line == "BAD" {
		return "", errors.New("bad line")
	}
	return word(line), nil
}

type recordingDispatcher struct {
	mu      sync.Mutex
	batches [][]string
	fail    func(b *types.Batch) error
	onBatch func(b *types.Batch)
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, b *types.Batch) error {
	if d.onBatch != nil {
		d.onBatch(b)
	}
	if d.fail != nil {
		if err := d.fail(b); err != nil {
			return &types.DispatchError{Source: b.Source, Seq: b.Seq, Records: b.Len(), Err: err}
		}
	}

	texts := make([]string, 0, b.Len())
	for _, r := range b.Records {
		texts = append(texts, types.MustAs[word](r).String())
	}
	d.mu.Lock()
	d.batches = append(d.batches, texts)
	d.mu.Unlock()
	return nil
}

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.log")
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func mustConfig(t *testing.T, path string, batchSize int, opts ...Option) Config[word] {
	t.Helper()
	cfg, err := NewConfig(path, batchSize, parseWord, opts...)
	require.NoError(t, err)
	return cfg
}

func TestRun_SplitsIntoBatches(t *testing.T) {
	d := &recordingDispatcher{}
	s := Run(context.Background(), "test", mustConfig(t, writeLines(t, "a", "b", "c"), 2), d)

	require.NoError(t, s.Err())
	require.Equal(t, [][]string{{"a", "b"}, {"c"}}, d.batches)
	require.Equal(t, uint64(3), s.LinesRead)
	require.Equal(t, uint64(3), s.RecordsProduced)
	require.Equal(t, uint64(2), s.BatchesDispatched)
	require.Equal(t, uint64(3), s.RecordsDispatched)
	require.Equal(t, int64(len("a\nb\nc\n")), s.BytesRead)
	require.NotEmpty(t, s.RunID)
}

func TestRun_SkipsUnparseableLines(t *testing.T) {
	d := &recordingDispatcher{}
	s := Run(context.Background(), "test", mustConfig(t, writeLines(t, "ok", "BAD", "ok2"), 2), d)

	require.NoError(t, s.Fatal)
	require.Equal(t, [][]string{{"ok", "ok2"}}, d.batches)
	require.Equal(t, uint64(1), s.ParseFailures)
	require.Equal(t, uint64(2), s.RecordsProduced)

	require.ErrorIs(t, s.Errors, types.ErrRecordParse)
	var perr *types.RecordParseError
	require.True(t, errors.As(s.Errors, &perr))
	require.Equal(t, uint64(2), perr.Line)
}

func TestRun_SamplesParseErrors(t *testing.T) {
	lines := make([]string, 25)
	for i := range lines {
		lines[i] = "BAD"
	}
	d := &recordingDispatcher{}
	s := Run(context.Background(), "test", mustConfig(t, writeLines(t, lines...), 4), d)

	require.NoError(t, s.Fatal)
	require.Equal(t, uint64(25), s.ParseFailures)
	require.Len(t, multierr.Errors(s.Errors), maxSampledParseErrors)
	require.Empty(t, d.batches)
}

func TestRun_SourceUnavailable(t *testing.T) {
	d := &recordingDispatcher{}
	path := filepath.Join(t.TempDir(), "missing.log")
	s := Run(context.Background(), "test", mustConfig(t, path, 2), d)

	require.Empty(t, d.batches)
	require.ErrorIs(t, s.Fatal, types.ErrSourceUnavailable)
	require.ErrorIs(t, s.Fatal, os.ErrNotExist)
	require.Zero(t, s.LinesRead)
	require.Zero(t, s.BatchesDispatched)
}

func TestRun_Boundaries(t *testing.T) {
	const size = 3
	tests := []struct {
		name  string
		lines []string
		want  [][]string
	}{
		{name: "empty file", lines: nil, want: nil},
		{name: "exactly one batch", lines: []string{"a", "b", "c"}, want: [][]string{{"a", "b", "c"}}},
		{name: "one over", lines: []string{"a", "b", "c", "d"}, want: [][]string{{"a", "b", "c"}, {"d"}}},
		{name: "single line", lines: []string{"a"}, want: [][]string{{"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDispatcher{}
			s := Run(context.Background(), "test", mustConfig(t, writeLines(t, tt.lines...), size), d)
			require.NoError(t, s.Err())
			require.Equal(t, tt.want, d.batches)
			require.Equal(t, uint64(len(tt.want)), s.BatchesDispatched)
		})
	}
}

func TestRun_HugeBatchSize(t *testing.T) {
	d := &recordingDispatcher{}
	cfg := mustConfig(t, writeLines(t, "a", "b", "c"), math.MaxInt)

	var s types.Summary
	require.NotPanics(t, func() {
		s = Run(context.Background(), "test", cfg, d)
	})
	require.NoError(t, s.Err())
	require.Equal(t, [][]string{{"a", "b", "c"}}, d.batches)
}

func TestRun_BatchLargerThanPreallocation(t *testing.T) {
	lines := make([]string, maxPreallocRecords+10)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i)
	}

	d := &recordingDispatcher{}
	s := Run(context.Background(), "test", mustConfig(t, writeLines(t, lines...), maxPreallocRecords+5), d)
	require.NoError(t, s.Err())
	require.Len(t, d.batches, 2)
	require.Len(t, d.batches[0], maxPreallocRecords+5)
	require.Equal(t, lines[maxPreallocRecords+5:], d.batches[1])
}

func TestRun_CRLFAndMissingTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.log")
	require.NoError(t, os.WriteFile(path, []byte("a\r\nb\r\n\r\nc"), 0644))

	d := &recordingDispatcher{}
	s := Run(context.Background(), "test", mustConfig(t, path, 10), d)
	require.NoError(t, s.Err())
	require.Equal(t, [][]string{{"a", "b", "", "c"}}, d.batches)
	require.Equal(t, uint64(4), s.LinesRead)
}

func TestRun_CompressedInput(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(gw, "line-%d\n", i)
	}
	require.NoError(t, gw.Close())

	path := filepath.Join(t.TempDir(), "input.log.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	d := &recordingDispatcher{}
	s := Run(context.Background(), "test", mustConfig(t, path, 2), d)
	require.NoError(t, s.Err())
	require.Equal(t, [][]string{{"line-0", "line-1"}, {"line-2", "line-3"}, {"line-4"}}, d.batches)
}

func TestRun_ReadErrorKeepsAccumulatedRecords(t *testing.T) {
	path := writeLines(t, "one", "two", strings.Repeat("x", 40), "three")

	d := &recordingDispatcher{}
	s := Run(context.Background(), "test", mustConfig(t, path, 10, WithMaxLineSize(16)), d)

	require.Equal(t, [][]string{{"one", "two"}}, d.batches)
	require.ErrorIs(t, s.Fatal, types.ErrRead)
	require.ErrorIs(t, s.Fatal, bufio.ErrTooLong)
	var rerr *types.ReadError
	require.True(t, errors.As(s.Fatal, &rerr))
	require.Equal(t, uint64(2), rerr.AfterLine)
}

func TestRun_Cancelled(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		d := &recordingDispatcher{}
		s := Run(ctx, "test", mustConfig(t, writeLines(t, "a", "b"), 1), d)
		require.ErrorIs(t, s.Fatal, context.Canceled)
		require.Empty(t, d.batches)
		require.Zero(t, s.LinesRead)
	})

	t.Run("mid run flushes partial batch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		d := &recordingDispatcher{onBatch: func(*types.Batch) { cancel() }}
		s := Run(ctx, "test", mustConfig(t, writeLines(t, "a", "b", "c", "d", "e", "f"), 2), d)

		require.ErrorIs(t, s.Fatal, context.Canceled)
		require.Equal(t, [][]string{{"a", "b"}, {"c"}}, d.batches)
		require.Equal(t, uint64(3), s.LinesRead)
	})
}

func TestRun_DispatchFailureContinues(t *testing.T) {
	engineGone := errors.New("engine stopped")
	d := &recordingDispatcher{fail: func(b *types.Batch) error {
		if b.Seq == 0 {
			return engineGone
		}
		return nil
	}}

	s := Run(context.Background(), "test", mustConfig(t, writeLines(t, "a", "b", "c", "d", "e"), 2), d)

	require.NoError(t, s.Fatal)
	require.Equal(t, [][]string{{"c", "d"}, {"e"}}, d.batches)
	require.Equal(t, uint64(1), s.DispatchFailures)
	require.Equal(t, uint64(2), s.BatchesDispatched)
	require.Equal(t, uint64(3), s.RecordsDispatched)
	require.ErrorIs(t, s.Errors, types.ErrDispatch)
	require.ErrorIs(t, s.Errors, engineGone)
}

func TestRun_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 50; iter++ {
		n := rng.Intn(40)
		lines := make([]string, n)
		var expected []string
		for i := range lines {
			if rng.Intn(5) == 0 {
				lines[i] = "BAD"
				continue
			}
			lines[i] = fmt.Sprintf("line-%d-%d", iter, i)
			expected = append(expected, lines[i])
		}
		size := rng.Intn(7) + 1
		cfg := mustConfig(t, writeLines(t, lines...), size)

		d := &recordingDispatcher{}
		s := Run(context.Background(), "test", cfg, d)
		require.NoError(t, s.Fatal)

		// Every successfully parsed line is dispatched exactly once, in order.
		var got []string
		for i, b := range d.batches {
			require.LessOrEqual(t, len(b), size)
			require.NotEmpty(t, b)
			if i < len(d.batches)-1 {
				require.Len(t, b, size)
			}
			got = append(got, b...)
		}
		require.Equal(t, expected, got)
		require.Equal(t, uint64(len(expected)), s.RecordsDispatched)
		require.Equal(t, uint64(n-len(expected)), s.ParseFailures)

		// Re-running is deterministic.
		again := &recordingDispatcher{}
		Run(context.Background(), "test", cfg, again)
		require.Equal(t, d.batches, again.batches)
	}
}

func TestRun_NilRecordIsAParseFailure(t *testing.T) {
	cfg, err := NewConfig(writeLines(t, "a", "b"), 2, func(line string) (types.Record, error) {
		if line == "a" {
			return nil, nil
		}
		return word(line), nil
	})
	require.NoError(t, err)

	var got []types.Record
	d := &recordingDispatcher{onBatch: func(b *types.Batch) { got = append(got, b.Records...) }}
	s := Run(context.Background(), "test", cfg, d)
	require.Equal(t, uint64(1), s.ParseFailures)
	require.Equal(t, []types.Record{word("b")}, got)
}
