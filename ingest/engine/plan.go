package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/logfill/ingest/types"
	"github.com/Azure/logfill/metrics"
	"github.com/Azure/logfill/pkg/logger"
	pkgsync "github.com/Azure/logfill/pkg/sync"
	"go.uber.org/multierr"
)

var ErrPlanSealed = errors.New("processing plan is sealed")

const DefaultBatchTimeout = 10 * time.Second

type PlanOpts struct {
	// BatchTimeout bounds the time spent applying the plan to one batch.
	BatchTimeout time.Duration
}

// Plan is the ordered set of transforms and sinks applied to every dispatched batch.  It is shared by
// every worker and is only mutated before Seal.
type Plan struct {
	mu           *pkgsync.CountingRWMutex
	transforms   []types.Transformer
	sinks        []types.Sink
	sealed       bool
	batchTimeout time.Duration
}

func NewPlan(opts PlanOpts) *Plan {
	timeout := opts.BatchTimeout
	if timeout <= 0 {
		timeout = DefaultBatchTimeout
	}
	return &Plan{
		mu:           pkgsync.NewCountingRWMutex(),
		batchTimeout: timeout,
	}
}

func (p *Plan) AddTransform(t types.Transformer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sealed {
		return ErrPlanSealed
	}
	p.transforms = append(p.transforms, t)
	return nil
}

func (p *Plan) AddSink(s types.Sink) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sealed {
		return ErrPlanSealed
	}
	p.sinks = append(p.sinks, s)
	return nil
}

// Seal freezes the plan.  Further AddTransform and AddSink calls fail with ErrPlanSealed.
func (p *Plan) Seal() {
	p.mu.Lock()
	p.sealed = true
	p.mu.Unlock()
}

func (p *Plan) Sealed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sealed
}

// Open opens the sinks and then the transforms from last to first, so that each stage is ready before
// anything upstream can feed it.  If a stage fails to open, the stages already opened are closed in
// reverse order.
func (p *Plan) Open(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var opened []stage
	for _, s := range p.sinks {
		if err := s.Open(ctx); err != nil {
			return p.abortOpen(opened, fmt.Errorf("open sink %s: %w", s.Name(), err))
		}
		opened = append(opened, s)
	}
	for i := len(p.transforms) - 1; i >= 0; i-- {
		t := p.transforms[i]
		if err := t.Open(ctx); err != nil {
			return p.abortOpen(opened, fmt.Errorf("open transform %s: %w", t.Name(), err))
		}
		opened = append(opened, t)
	}
	return nil
}

type stage interface {
	Close() error
	Name() string
}

func (p *Plan) abortOpen(opened []stage, err error) error {
	for i := len(opened) - 1; i >= 0; i-- {
		if cerr := opened[i].Close(); cerr != nil {
			logger.Warnf("Failed to close %s: %s", opened[i].Name(), cerr)
			err = multierr.Append(err, cerr)
		}
	}
	return err
}

// Close closes the transforms in order followed by the sinks.
func (p *Plan) Close() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var errs error
	for _, t := range p.transforms {
		if err := t.Close(); err != nil {
			logger.Warnf("Failed to close transform %s: %s", t.Name(), err)
			errs = multierr.Append(errs, err)
		}
	}
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			logger.Warnf("Failed to close sink %s: %s", s.Name(), err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Apply runs batch through the transforms in order and then sends it to every sink concurrently.
// A failing transform drops the batch; a failing sink only affects its own delivery.
func (p *Plan) Apply(ctx context.Context, batch *types.Batch) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, p.batchTimeout)
	defer cancel()

	source := batch.Source
	var err error
	for _, transform := range p.transforms {
		n := batch.Len()
		batch, err = transform.Transform(ctx, batch)
		if err != nil {
			if errors.Is(err, types.ErrRecordTypeMismatch) {
				logger.Errorf("Transform %s cannot handle records from source %s: %v", transform.Name(), source, err)
			} else {
				logger.Warnf("Failed to transform records from source %s -> %s: %v", source, transform.Name(), err)
			}
			metrics.RecordsDropped.WithLabelValues(source, transform.Name()).Add(float64(n))
			return
		}
		if batch == nil || batch.Len() == 0 {
			return
		}
	}

	var wg sync.WaitGroup
	wg.Add(len(p.sinks))
	for _, sink := range p.sinks {
		go func(sink types.Sink) {
			defer wg.Done()

			if err := sink.Send(ctx, batch); err != nil {
				if errors.Is(err, types.ErrRecordTypeMismatch) {
					logger.Errorf("Sink %s cannot handle records from source %s: %v", sink.Name(), source, err)
				} else {
					logger.Warnf("Failed to send records to sink %s -> %s: %v", source, sink.Name(), err)
				}
				metrics.RecordsDropped.WithLabelValues(source, sink.Name()).Add(float64(batch.Len()))
				return
			}
			metrics.RecordsSent.WithLabelValues(source, sink.Name()).Add(float64(batch.Len()))
		}(sink)
	}
	wg.Wait()
}

// Readers reports how many goroutines are currently applying the plan.
func (p *Plan) Readers() int64 {
	return p.mu.Readers()
}

// PeakReaders reports the highest number of batches that were processed concurrently.
func (p *Plan) PeakReaders() int64 {
	return p.mu.PeakReaders()
}
