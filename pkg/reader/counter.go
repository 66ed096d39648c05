package reader

import (
	"io"
	"sync/atomic"
)

// CounterReader wraps an io.Reader and counts the bytes read.  Count may be called from another
// goroutine while reads are in progress.
type CounterReader struct {
	r     io.Reader
	count atomic.Int64
}

// NewCounterReader creates a new CounterReader.
func NewCounterReader(r io.Reader) *CounterReader {
	return &CounterReader{r: r}
}

// Read reads from the wrapped reader and counts the bytes read.
func (cr *CounterReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.count.Add(int64(n))
	return n, err
}

// Close closes the wrapped reader if it is an io.Closer.
func (cr *CounterReader) Close() error {
	if c, ok := cr.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Count returns the total number of bytes read.
func (cr *CounterReader) Count() int64 {
	return cr.count.Load()
}
