package sinks

import (
	"context"
	"sync"

	"github.com/Azure/logfill/ingest/types"
)

type CountingSink struct {
	expectedCount int64
	currentCount  int64
	batches       int64

	lock        sync.Mutex
	done        bool
	doneChannel chan int64
}

// NewCountingSink returns a sink that counts records.  DoneChan receives the count once at least
// expectedCount records were sent.  An expectedCount of zero or less never signals.
func NewCountingSink(expectedCount int64) *CountingSink {
	return &CountingSink{
		expectedCount: expectedCount,
		doneChannel:   make(chan int64, 1),
	}
}

func (s *CountingSink) Open(ctx context.Context) error {
	return nil
}

func (s *CountingSink) Send(ctx context.Context, batch *types.Batch) error {
	s.lock.Lock()
	s.currentCount += int64(batch.Len())
	s.batches++
	if !s.done && s.expectedCount > 0 && s.currentCount >= s.expectedCount {
		s.done = true
		s.doneChannel <- s.currentCount
		close(s.doneChannel)
	}
	s.lock.Unlock()
	return nil
}

func (s *CountingSink) Close() error {
	return nil
}

func (s *CountingSink) Name() string {
	return "CountingSink"
}

func (s *CountingSink) DoneChan() chan int64 {
	return s.doneChannel
}

// Counts returns the number of records and batches received so far.
func (s *CountingSink) Counts() (records, batches int64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.currentCount, s.batches
}
