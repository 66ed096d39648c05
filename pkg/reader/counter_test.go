package reader_test

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/Azure/logfill/pkg/reader"
	"github.com/stretchr/testify/require"
)

func TestCounterReader_Read(t *testing.T) {
	cr := reader.NewCounterReader(strings.NewReader("Hello, World!"))

	buf := make([]byte, 5)
	n, err := cr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "Hello", string(buf[:n]))
	require.Equal(t, int64(5), cr.Count())

	n, err = cr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, ", Wor", string(buf[:n]))
	require.Equal(t, int64(10), cr.Count())

	n, err = cr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "ld!", string(buf[:n]))
	require.Equal(t, int64(13), cr.Count())

	_, err = cr.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, int64(13), cr.Count())
}

func TestCounterReader_Lines(t *testing.T) {
	data := "a\nbb\nccc\n"
	cr := reader.NewCounterReader(strings.NewReader(data))

	var lines []string
	s := bufio.NewScanner(cr)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	require.NoError(t, s.Err())
	require.Equal(t, []string{"a", "bb", "ccc"}, lines)
	require.Equal(t, int64(len(data)), cr.Count())
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestCounterReader_Close(t *testing.T) {
	ct := &closeTracker{Reader: strings.NewReader("x")}
	require.NoError(t, reader.NewCounterReader(ct).Close())
	require.True(t, ct.closed)

	require.NoError(t, reader.NewCounterReader(strings.NewReader("x")).Close())
}
