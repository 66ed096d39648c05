// Package pipeline registers ingestion units and runs them against a shared processing plan.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/logfill/ingest/engine"
	"github.com/Azure/logfill/ingest/types"
	"github.com/Azure/logfill/pkg/logger"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var ErrAlreadyRun = errors.New("pipeline already run")

// Computation performs one ingestion run, dispatching batches through sub with plan.
type Computation func(ctx context.Context, sub engine.Submitter, plan *engine.Plan) types.Summary

// Unit is a named ingestion unit registered with a Pipeline before it runs.
type Unit struct {
	Name        string
	Source      string
	Computation Computation
	// Params is the configuration the computation was built from.
	Params any
}

type Opts struct {
	BatchTimeout time.Duration
}

type Pipeline struct {
	mu    sync.Mutex
	units []*Unit
	names map[string]struct{}
	plan  *engine.Plan
	ran   bool
}

func New(opts Opts) *Pipeline {
	return &Pipeline{
		names: make(map[string]struct{}),
		plan:  engine.NewPlan(engine.PlanOpts{BatchTimeout: opts.BatchTimeout}),
	}
}

// AddSource registers u.  Unit names must be unique.
func (p *Pipeline) AddSource(u *Unit) error {
	if u == nil || u.Name == "" {
		return &types.ConfigurationError{Field: "source.name", Reason: "must be set"}
	}
	if u.Computation == nil {
		return &types.ConfigurationError{Field: "source.computation", Reason: "must be set"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ran {
		return ErrAlreadyRun
	}
	if _, ok := p.names[u.Name]; ok {
		return &types.ConfigurationError{Field: "source.name", Reason: fmt.Sprintf("%s is already defined", u.Name)}
	}
	p.names[u.Name] = struct{}{}
	p.units = append(p.units, u)
	return nil
}

func (p *Pipeline) AddTransform(t types.Transformer) error {
	return p.plan.AddTransform(t)
}

func (p *Pipeline) AddSink(s types.Sink) error {
	return p.plan.AddSink(s)
}

// Plan returns the processing plan shared by every unit.
func (p *Pipeline) Plan() *engine.Plan {
	return p.plan
}

func (p *Pipeline) Units() []*Unit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Unit(nil), p.units...)
}

// Run seals and opens the plan, runs every unit concurrently and waits until eng has processed every
// dispatched batch.  eng must be open.  Summaries are returned in registration order along with the
// combined fatal errors of the runs.
func (p *Pipeline) Run(ctx context.Context, eng *engine.Engine) ([]types.Summary, error) {
	p.mu.Lock()
	if p.ran {
		p.mu.Unlock()
		return nil, ErrAlreadyRun
	}
	p.ran = true
	units := append([]*Unit(nil), p.units...)
	p.mu.Unlock()

	p.plan.Seal()
	if err := p.plan.Open(ctx); err != nil {
		return nil, fmt.Errorf("open processing plan: %w", err)
	}

	start := time.Now()
	summaries := make([]types.Summary, len(units))
	var g errgroup.Group
	for i, u := range units {
		g.Go(func() error {
			summaries[i] = u.Computation(ctx, eng, p.plan)
			return nil
		})
	}
	g.Wait()
	eng.Wait()

	var errs error
	for _, s := range summaries {
		errs = multierr.Append(errs, s.Fatal)
	}
	errs = multierr.Append(errs, p.plan.Close())

	logger.Info("Pipeline finished", "units", len(units), logger.Since(start))
	return summaries, errs
}
