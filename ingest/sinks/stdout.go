package sinks

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Azure/logfill/ingest/types"
)

type StdoutSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStdoutSink() *StdoutSink {
	return &StdoutSink{w: os.Stdout}
}

func (s *StdoutSink) Open(ctx context.Context) error {
	return nil
}

// Send writes one record per line.  Lines of a batch are never interleaved with another batch.
func (s *StdoutSink) Send(ctx context.Context, batch *types.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range batch.Records {
		if _, err := fmt.Fprintln(s.w, r); err != nil {
			return err
		}
	}
	return nil
}

func (s *StdoutSink) Close() error {
	return nil
}

func (s *StdoutSink) Name() string {
	return "StdoutSink"
}
