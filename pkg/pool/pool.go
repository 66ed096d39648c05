// Package pool provides pool structures to help reduce garbage collector pressure.
package pool

import (
	gbp "github.com/libp2p/go-buffer-pool"
)

// LineBuffers holds the scanner buffers used when reading input files.
var LineBuffers = NewBytes()

// Bytes is a pool of byte slices that can be re-used.
type Bytes struct {
	p *gbp.BufferPool
}

// NewBytes returns an empty Bytes pool.
func NewBytes() *Bytes {
	return &Bytes{p: &gbp.BufferPool{}}
}

// Get returns a byte slice of length sz. Items returned may not be in the zero state
// and should be reset by the caller.
func (p *Bytes) Get(sz int) []byte {
	return p.p.Get(sz)
}

// Put returns a slice back to the pool.
func (p *Bytes) Put(c []byte) {
	p.p.Put(c)
}
