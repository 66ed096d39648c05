package sync

import (
	"sync"
	"sync/atomic"
)

// CountingRWMutex is a RWMutex that tracks how many goroutines are waiting for it and how many
// currently hold it for reading.
type CountingRWMutex struct {
	mu      sync.RWMutex
	waiting atomic.Int64
	readers atomic.Int64
	peak    atomic.Int64
}

func NewCountingRWMutex() *CountingRWMutex {
	return &CountingRWMutex{}
}

// RLock locks rw for reading.
func (rw *CountingRWMutex) RLock() {
	rw.waiting.Add(1)
	rw.mu.RLock()
	rw.waiting.Add(-1)

	n := rw.readers.Add(1)
	for {
		p := rw.peak.Load()
		if n <= p || rw.peak.CompareAndSwap(p, n) {
			break
		}
	}
}

// RUnlock undoes a single RLock call; it does not affect other simultaneous readers.
func (rw *CountingRWMutex) RUnlock() {
	rw.readers.Add(-1)
	rw.mu.RUnlock()
}

// Lock locks rw for writing.
func (rw *CountingRWMutex) Lock() {
	rw.waiting.Add(1)
	rw.mu.Lock()
	rw.waiting.Add(-1)
}

// Unlock releases the write lock.
func (rw *CountingRWMutex) Unlock() {
	rw.mu.Unlock()
}

// Waiters returns the number of goroutines waiting for the lock.
func (rw *CountingRWMutex) Waiters() int64 {
	return rw.waiting.Load()
}

// Readers returns the number of goroutines holding the read lock.
func (rw *CountingRWMutex) Readers() int64 {
	return rw.readers.Load()
}

// PeakReaders returns the highest number of simultaneous readers observed.
func (rw *CountingRWMutex) PeakReaders() int64 {
	return rw.peak.Load()
}
