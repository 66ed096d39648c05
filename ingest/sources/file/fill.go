package file

import (
	"bufio"
	"context"
	"errors"
	"time"

	"github.com/Azure/logfill/ingest/types"
	"github.com/Azure/logfill/metrics"
	"github.com/Azure/logfill/pkg/compress"
	"github.com/Azure/logfill/pkg/logger"
	"github.com/Azure/logfill/pkg/pool"
	"github.com/Azure/logfill/pkg/reader"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const (
	// maxSampledParseErrors bounds how many parse errors a summary keeps.  All of them are counted.
	maxSampledParseErrors = 10
	initialBufferSize     = 64 * 1024

	// maxPreallocRecords caps the capacity reserved for a new batch.  Larger batches grow as records arrive.
	maxPreallocRecords = 4096
)

var errNilRecord = errors.New("parser returned a nil record")

// Run reads cfg.FilePath line by line, parses each line and dispatches the records in batches of
// cfg.BatchSize.  Lines the parser rejects are skipped and counted.  The final partial batch is
// dispatched once input ends; an empty batch is never dispatched.
//
// Cancelling ctx stops the run before the next line is read.  Records already parsed are still
// dispatched, as they are when reading fails part way through the file.
func Run[T types.Record](ctx context.Context, name string, cfg Config[T], d types.Dispatcher) types.Summary {
	start := time.Now()
	summary := types.Summary{
		Name:     name,
		RunID:    uuid.NewString(),
		FilePath: cfg.FilePath,
	}

	fill(ctx, name, cfg, d, &summary)
	summary.Duration = time.Since(start)

	metrics.IngestLinesRead.WithLabelValues(name).Add(float64(summary.LinesRead))
	metrics.IngestRecordsProduced.WithLabelValues(name).Add(float64(summary.RecordsProduced))
	metrics.IngestParseFailures.WithLabelValues(name).Add(float64(summary.ParseFailures))
	metrics.IngestBytesRead.WithLabelValues(name).Add(float64(summary.BytesRead))

	switch {
	case summary.Fatal != nil:
		logger.Error("Ingestion ended early", "summary", summary)
	case summary.DispatchFailures > 0:
		logger.Warn("Ingestion finished with dispatch failures", "summary", summary)
	default:
		logger.Info("Ingestion finished", "summary", summary)
	}
	return summary
}

func fill[T types.Record](ctx context.Context, name string, cfg Config[T], d types.Dispatcher, summary *types.Summary) {
	rc, err := compress.Open(cfg.FilePath)
	if err != nil {
		summary.Fatal = &types.SourceUnavailableError{Path: cfg.FilePath, Err: err}
		metrics.IngestSourceUnavailable.WithLabelValues(name).Inc()
		return
	}
	defer rc.Close()

	cr := reader.NewCounterReader(rc)
	defer func() { summary.BytesRead = cr.Count() }()

	maxLine := cfg.maxLineSize()
	buf := pool.LineBuffers.Get(min(initialBufferSize, maxLine))
	defer pool.LineBuffers.Put(buf)

	scanner := bufio.NewScanner(cr)
	scanner.Buffer(buf[:0:len(buf)], maxLine)

	// Dispatch is detached from ctx so that records already read are handed off even when the run
	// is being cancelled.
	dispatchCtx := context.WithoutCancel(ctx)
	var seq uint64
	batchCap := min(cfg.BatchSize, maxPreallocRecords)
	batch := types.NewBatch(name, seq, batchCap)
	dispatch := func() {
		n := batch.Len()
		if err := d.Dispatch(dispatchCtx, batch); err != nil {
			summary.DispatchFailures++
			summary.Errors = multierr.Append(summary.Errors, err)
			metrics.DispatchFailures.WithLabelValues(name).Inc()
			metrics.RecordsDropped.WithLabelValues(name, "dispatch").Add(float64(n))
			logger.Warnf("Failed to dispatch batch %d from source %s: %v", seq, name, err)
		} else {
			summary.BatchesDispatched++
			summary.RecordsDispatched += uint64(n)
			metrics.BatchesDispatched.WithLabelValues(name).Inc()
		}
		seq++
		batch = types.NewBatch(name, seq, batchCap)
	}

	for {
		if err := ctx.Err(); err != nil {
			summary.Fatal = err
			break
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				summary.Fatal = &types.ReadError{Path: cfg.FilePath, AfterLine: summary.LinesRead, Err: err}
			}
			break
		}
		summary.LinesRead++

		if batch.Len() >= cfg.BatchSize {
			dispatch()
		}

		rec, err := cfg.Parser(scanner.Text())
		if err == nil && any(rec) == nil {
			err = errNilRecord
		}
		if err != nil {
			summary.ParseFailures++
			if summary.ParseFailures <= maxSampledParseErrors {
				summary.Errors = multierr.Append(summary.Errors, &types.RecordParseError{Line: summary.LinesRead, Err: err})
			}
			if logger.IsDebug() {
				logger.Debugf("Skipping line %d of %s for source %s: %v", summary.LinesRead, cfg.FilePath, name, err)
			}
			continue
		}

		summary.RecordsProduced++
		batch.Append(rec)
	}

	if batch.Len() > 0 {
		dispatch()
	}
}
